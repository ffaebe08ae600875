package grid

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"sandlife/pkg/topology"
)

// parallelMinCells is the cell count above which MulAdjacency splits the
// work across goroutines.
const parallelMinCells = 1 << 16

// MulAdjacency computes dst = A·src where A is the adjacency matrix of topo,
// counting repeated neighbours with multiplicity. Each row writes only its
// own dst entry, so large grids are split into row chunks evaluated
// concurrently; src is never written. dst and src must not alias.
func MulAdjacency(topo *topology.Topology, dst, src []int32) {
	offsets, adj := topo.Adjacency()
	n := len(offsets) - 1
	if n < parallelMinCells {
		mulRows(offsets, adj, dst, src, 0, n)
		return
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			mulRows(offsets, adj, dst, src, lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

func mulRows(offsets, adj, dst, src []int32, lo, hi int) {
	for c := lo; c < hi; c++ {
		var acc int32
		for _, nb := range adj[offsets[c]:offsets[c+1]] {
			acc += src[nb]
		}
		dst[c] = acc
	}
}

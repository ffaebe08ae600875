package topology

import (
	"github.com/pkg/errors"

	"sandlife/pkg/core"
)

// NewGraph builds a topology from explicit adjacency lists: adjacency[v]
// holds the neighbours of vertex v. The relation must be symmetric, counting
// multiplicity, so an edge listed twice from one side must be listed twice
// from the other. Graph topologies have no boundary; Boundary reports fixed.
func NewGraph(adjacency [][]int) (*Topology, error) {
	n := len(adjacency)
	if n == 0 {
		return nil, errors.Wrap(core.ErrInvalidTopology, "graph needs at least one vertex")
	}
	strides, err := validateShape([]int{n})
	if err != nil {
		return nil, err
	}

	counts := make(map[[2]int32]int)
	per := 0
	for _, row := range adjacency {
		per += len(row)
	}
	b, err := newBuilder(n, per/n+1)
	if err != nil {
		return nil, err
	}
	for v, row := range adjacency {
		for _, u := range row {
			if u < 0 || u >= n {
				return nil, errors.Wrapf(core.ErrInvalidTopology, "vertex %d lists neighbour %d outside [0,%d)", v, u, n)
			}
			counts[[2]int32{int32(v), int32(u)}]++
			b.add(u)
		}
		b.endRow()
	}
	for edge, k := range counts {
		if counts[[2]int32{edge[1], edge[0]}] != k {
			return nil, errors.Wrapf(core.ErrInvalidTopology, "edge %d->%d has no matching %d->%d", edge[0], edge[1], edge[1], edge[0])
		}
	}

	return &Topology{
		kind:      KindGraph,
		shape:     []int{n},
		strides:   strides,
		offsets:   b.offsets,
		adj:       b.adj,
		maxDegree: b.max,
	}, nil
}

// NewGraphFromMatrix builds a graph from a square boolean adjacency matrix
// where matrix[i][j] marks j as a neighbour of i.
func NewGraphFromMatrix(matrix [][]bool) (*Topology, error) {
	n := len(matrix)
	adjacency := make([][]int, n)
	for i, row := range matrix {
		if len(row) != n {
			return nil, errors.Wrapf(core.ErrInvalidTopology, "adjacency row %d has %d entries, want %d", i, len(row), n)
		}
		for j, linked := range row {
			if linked {
				adjacency[i] = append(adjacency[i], j)
			}
		}
	}
	return NewGraph(adjacency)
}

package life

import (
	"github.com/pkg/errors"

	"sandlife/pkg/core"
	"sandlife/pkg/grid"
	"sandlife/pkg/topology"
)

// Conway runs classic B3/S23 Life for nsteps generations on a square grid
// with the 8-cell Moore neighbourhood and returns the final rows.
func Conway(rows [][]bool, nsteps int, periodic bool) ([][]bool, error) {
	r, c := dims(rows)
	topo, err := topology.NewSquare(r, c, topology.WithNeighborhood(topology.Moore), boundary(periodic))
	if err != nil {
		return nil, err
	}
	return runRows(topo, rows, Classic(), nsteps)
}

// Triangular runs B4/S456 Life for nsteps generations on a triangular mesh
// with the 12-cell vertex neighbourhood. Row 0 starts with an upward triangle.
func Triangular(rows [][]bool, nsteps int, periodic bool) ([][]bool, error) {
	r, c := dims(rows)
	topo, err := topology.NewTriangular(r, c, topology.WithNeighborhood(topology.TriangleVertex), boundary(periodic))
	if err != nil {
		return nil, err
	}
	return runRows(topo, rows, Triangle(), nsteps)
}

// Generic runs a two-state rule over an arbitrary graph given as a boolean
// adjacency matrix. Live cells survive with a neighbour count in survival and
// dead cells come alive with a count in birth.
func Generic(matrix [][]bool, initial []bool, nsteps int, survival, birth []int) ([]bool, error) {
	topo, err := topology.NewGraphFromMatrix(matrix)
	if err != nil {
		return nil, err
	}
	if len(initial) != topo.Size() {
		return nil, errors.Wrapf(core.ErrConfiguration, "initial state has %d cells, graph has %d", len(initial), topo.Size())
	}
	state, err := grid.FromValues(topo, fromBools(initial))
	if err != nil {
		return nil, err
	}
	e, err := New(state, NewRule(birth, survival, 2))
	if err != nil {
		return nil, err
	}
	for i := 0; i < nsteps; i++ {
		e.Step()
	}
	return toBools(state.Cells()), nil
}

func runRows(topo *topology.Topology, rows [][]bool, rule Rule, nsteps int) ([][]bool, error) {
	values := make([][]int32, len(rows))
	for i, row := range rows {
		values[i] = fromBools(row)
	}
	state, err := grid.FromRows(topo, values)
	if err != nil {
		return nil, err
	}
	e, err := New(state, rule)
	if err != nil {
		return nil, err
	}
	for i := 0; i < nsteps; i++ {
		e.Step()
	}
	out, err := state.Rows()
	if err != nil {
		return nil, err
	}
	result := make([][]bool, len(out))
	for i, row := range out {
		result[i] = toBools(row)
	}
	return result, nil
}

func dims(rows [][]bool) (int, int) {
	if len(rows) == 0 {
		return 0, 0
	}
	return len(rows), len(rows[0])
}

func boundary(periodic bool) topology.Option {
	if periodic {
		return topology.WithBoundary(topology.BoundaryPeriodic)
	}
	return topology.WithBoundary(topology.BoundaryFixed)
}

func fromBools(bs []bool) []int32 {
	out := make([]int32, len(bs))
	for i, b := range bs {
		if b {
			out[i] = alive
		}
	}
	return out
}

func toBools(vs []int32) []bool {
	out := make([]bool, len(vs))
	for i, v := range vs {
		out[i] = v == alive
	}
	return out
}

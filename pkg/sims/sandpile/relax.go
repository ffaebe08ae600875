package sandpile

import (
	"sandlife/pkg/grid"
	"sandlife/pkg/topology"
)

// Relax stabilises a 2-D sandpile given as rows of grain counts on a fixed
// boundary von Neumann grid with threshold 4. Grains pushed past the edge are
// lost. The input is not modified.
func Relax(rows [][]int32) ([][]int32, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	topo, err := topology.NewSquare(len(rows), cols)
	if err != nil {
		return nil, err
	}
	state, err := grid.FromRows(topo, rows)
	if err != nil {
		return nil, err
	}
	e, err := New(state, WithThreshold(4))
	if err != nil {
		return nil, err
	}
	res, err := e.Stabilize()
	if err != nil {
		return nil, err
	}
	return res.Final.Rows()
}

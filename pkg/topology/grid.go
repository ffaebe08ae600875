package topology

import (
	"github.com/pkg/errors"

	"sandlife/pkg/core"
)

// NewGrid builds a regular grid with the given dimension sizes in row-major
// order (the last axis varies fastest). The default neighbourhood is
// VonNeumann; Moore gives the 3^n-1 ring used by classic Life.
//
// With BoundaryFixed, cells on a face lose the neighbours that would lie
// outside. With BoundaryPeriodic every axis wraps, so all cells have the same
// degree.
func NewGrid(shape []int, opts ...Option) (*Topology, error) {
	o := newOptions(opts)
	strides, err := validateShape(shape)
	if err != nil {
		return nil, err
	}
	hood := o.hood
	switch hood {
	case NeighborhoodDefault:
		hood = VonNeumann
	case VonNeumann, Moore:
	default:
		return nil, errors.Wrapf(core.ErrInvalidTopology, "%s neighborhood does not apply to square grids", hood)
	}

	dims := len(shape)
	deltas := gridDeltas(dims, hood)
	size := strides[0] * shape[0]
	periodic := o.boundary == BoundaryPeriodic
	b, err := newBuilder(size, len(deltas))
	if err != nil {
		return nil, err
	}
	coord := make([]int, dims)
	for c := 0; c < size; c++ {
		for _, delta := range deltas {
			n, ok := 0, true
			for d, dv := range delta {
				v := coord[d] + dv
				if v < 0 || v >= shape[d] {
					if !periodic {
						ok = false
						break
					}
					v = (v%shape[d] + shape[d]) % shape[d]
				}
				n += v * strides[d]
			}
			if ok {
				b.add(n)
			}
		}
		b.endRow()
		for d := dims - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < shape[d] {
				break
			}
			coord[d] = 0
		}
	}

	return &Topology{
		kind:      KindGrid,
		boundary:  o.boundary,
		hood:      hood,
		shape:     append([]int(nil), shape...),
		strides:   strides,
		offsets:   b.offsets,
		adj:       b.adj,
		maxDegree: b.max,
	}, nil
}

// NewSquare is shorthand for a 2-D rows×cols grid.
func NewSquare(rows, cols int, opts ...Option) (*Topology, error) {
	return NewGrid([]int{rows, cols}, opts...)
}

// gridDeltas lists the coordinate offsets of a neighbourhood in a fixed order.
func gridDeltas(dims int, hood Neighborhood) [][]int {
	if hood == VonNeumann {
		out := make([][]int, 0, 2*dims)
		for d := 0; d < dims; d++ {
			for _, step := range [2]int{-1, 1} {
				delta := make([]int, dims)
				delta[d] = step
				out = append(out, delta)
			}
		}
		return out
	}

	var out [][]int
	delta := make([]int, dims)
	for d := range delta {
		delta[d] = -1
	}
	for {
		zero := true
		for _, v := range delta {
			if v != 0 {
				zero = false
				break
			}
		}
		if !zero {
			out = append(out, append([]int(nil), delta...))
		}
		d := dims - 1
		for ; d >= 0; d-- {
			delta[d]++
			if delta[d] <= 1 {
				break
			}
			delta[d] = -1
		}
		if d < 0 {
			return out
		}
	}
}

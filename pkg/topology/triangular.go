package topology

import (
	"github.com/pkg/errors"

	"sandlife/pkg/core"
)

// triOffset is a (row, column) displacement on the triangle lattice.
type triOffset struct{ dr, dc int }

// Triangle (r, c) points up when r+c is even, so row 0 starts with an upward
// triangle and orientation alternates along rows and columns. An upward
// triangle shares its base with the downward one below it; a downward
// triangle shares its top edge with the upward one above it.
var (
	triEdgeUp   = []triOffset{{0, -1}, {0, 1}, {1, 0}}
	triEdgeDown = []triOffset{{-1, 0}, {0, -1}, {0, 1}}

	triVertexUp = []triOffset{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -2}, {0, -1}, {0, 1}, {0, 2},
		{1, -2}, {1, -1}, {1, 0}, {1, 1}, {1, 2},
	}
	triVertexDown = []triOffset{
		{-1, -2}, {-1, -1}, {-1, 0}, {-1, 1}, {-1, 2},
		{0, -2}, {0, -1}, {0, 1}, {0, 2},
		{1, -1}, {1, 0}, {1, 1},
	}
)

// NewTriangular builds a rows×cols mesh of alternating triangles. The default
// neighbourhood is TriangleVertex (every triangle touching a corner, 12 in the
// interior); TriangleEdge keeps only the 3 edge-sharing triangles.
//
// A periodic mesh needs an even number of rows and columns so that wrapping
// preserves triangle orientation.
func NewTriangular(rows, cols int, opts ...Option) (*Topology, error) {
	o := newOptions(opts)
	shape := []int{rows, cols}
	strides, err := validateShape(shape)
	if err != nil {
		return nil, err
	}
	hood := o.hood
	switch hood {
	case NeighborhoodDefault:
		hood = TriangleVertex
	case TriangleEdge, TriangleVertex:
	default:
		return nil, errors.Wrapf(core.ErrInvalidTopology, "%s neighborhood does not apply to triangular meshes", hood)
	}
	periodic := o.boundary == BoundaryPeriodic
	if periodic && (rows%2 != 0 || cols%2 != 0) {
		return nil, errors.Wrapf(core.ErrInvalidTopology, "periodic triangular mesh needs even dimensions, got %dx%d", rows, cols)
	}

	up, down := triVertexUp, triVertexDown
	if hood == TriangleEdge {
		up, down = triEdgeUp, triEdgeDown
	}

	b, err := newBuilder(rows*cols, len(up))
	if err != nil {
		return nil, err
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pattern := down
			if (r+c)%2 == 0 {
				pattern = up
			}
			for _, off := range pattern {
				nr, nc := r+off.dr, c+off.dc
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					if !periodic {
						continue
					}
					nr = (nr%rows + rows) % rows
					nc = (nc%cols + cols) % cols
				}
				b.add(nr*cols + nc)
			}
			b.endRow()
		}
	}

	return &Topology{
		kind:      KindTriangular,
		boundary:  o.boundary,
		hood:      hood,
		shape:     shape,
		strides:   strides,
		offsets:   b.offsets,
		adj:       b.adj,
		maxDegree: b.max,
	}, nil
}

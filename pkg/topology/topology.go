// Package topology describes the cell set of an automaton and the fixed
// neighbour relation between cells.
//
// Every mesh kind is reduced to the same form: cells are integers in
// [0, Size()) and adjacency is precomputed once at construction into a
// compressed sparse row table. Engines never see coordinates; they only walk
// the table, which is what lets one toppling or Life kernel serve square
// grids, triangular meshes and arbitrary graphs alike.
package topology

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/pkg/errors"

	"sandlife/pkg/core"
)

// Kind identifies the family of mesh a Topology was built from.
type Kind uint8

const (
	// KindGrid is a regular n-dimensional rectangular grid.
	KindGrid Kind = iota
	// KindTriangular is a 2-D mesh of alternating up/down triangles.
	KindTriangular
	// KindGraph is an explicit adjacency structure.
	KindGraph
)

func (k Kind) String() string {
	switch k {
	case KindGrid:
		return "grid"
	case KindTriangular:
		return "triangular"
	case KindGraph:
		return "graph"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a configuration name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "grid", "square":
		return KindGrid, nil
	case "triangular", "tri", "triangle":
		return KindTriangular, nil
	case "graph":
		return KindGraph, nil
	}
	return 0, errors.Wrapf(core.ErrConfiguration, "unknown mesh kind %q", s)
}

// Boundary selects what happens at the edge of a finite mesh.
type Boundary uint8

const (
	// BoundaryFixed treats everything outside the mesh as absent: edge cells
	// simply have fewer neighbours.
	BoundaryFixed Boundary = iota
	// BoundaryPeriodic wraps each axis onto itself.
	BoundaryPeriodic
)

func (b Boundary) String() string {
	if b == BoundaryPeriodic {
		return "periodic"
	}
	return "fixed"
}

// ParseBoundary maps "fixed" or "periodic" (and a few aliases) to a Boundary.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed", "open", "fill":
		return BoundaryFixed, nil
	case "periodic", "wrap", "toroidal":
		return BoundaryPeriodic, nil
	}
	return 0, errors.Wrapf(core.ErrConfiguration, "unknown boundary %q", s)
}

// Neighborhood selects which nearby cells count as neighbours.
type Neighborhood uint8

const (
	// NeighborhoodDefault picks VonNeumann for grids and TriangleVertex for
	// triangular meshes.
	NeighborhoodDefault Neighborhood = iota
	// VonNeumann links cells differing by ±1 in exactly one coordinate.
	VonNeumann
	// Moore links cells differing by at most 1 in every coordinate.
	Moore
	// TriangleEdge links triangles sharing an edge (at most 3).
	TriangleEdge
	// TriangleVertex links triangles sharing at least a vertex (at most 12).
	TriangleVertex
)

func (n Neighborhood) String() string {
	switch n {
	case VonNeumann:
		return "von-neumann"
	case Moore:
		return "moore"
	case TriangleEdge:
		return "edge"
	case TriangleVertex:
		return "vertex"
	}
	return "default"
}

// ParseNeighborhood maps a configuration name to a Neighborhood.
func ParseNeighborhood(s string) (Neighborhood, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "auto":
		return NeighborhoodDefault, nil
	case "von-neumann", "vonneumann", "von_neumann", "cross":
		return VonNeumann, nil
	case "moore", "ring":
		return Moore, nil
	case "edge":
		return TriangleEdge, nil
	case "vertex":
		return TriangleVertex, nil
	}
	return 0, errors.Wrapf(core.ErrConfiguration, "unknown neighborhood %q", s)
}

// Option customises topology construction.
type Option func(*options)

type options struct {
	boundary Boundary
	hood     Neighborhood
}

// WithBoundary sets the boundary policy. The default is BoundaryFixed.
func WithBoundary(b Boundary) Option {
	return func(o *options) { o.boundary = b }
}

// WithNeighborhood sets the neighbourhood used to derive adjacency.
func WithNeighborhood(n Neighborhood) Option {
	return func(o *options) { o.hood = n }
}

// Topology is an immutable cell set with a symmetric neighbour relation.
// It is safe to share between goroutines and engines.
type Topology struct {
	kind     Kind
	boundary Boundary
	hood     Neighborhood
	shape    []int
	strides  []int

	// offsets[c]..offsets[c+1] indexes the neighbours of c in adj.
	offsets   []int32
	adj       []int32
	maxDegree int
}

// Kind reports the mesh family.
func (t *Topology) Kind() Kind { return t.kind }

// Boundary reports the boundary policy fixed at construction.
func (t *Topology) Boundary() Boundary { return t.boundary }

// Neighborhood reports the neighbourhood used to derive adjacency.
func (t *Topology) Neighborhood() Neighborhood { return t.hood }

// Shape returns a copy of the dimension sizes. Graph topologies report a
// single dimension holding the vertex count.
func (t *Topology) Shape() []int { return append([]int(nil), t.shape...) }

// Size returns the number of cells.
func (t *Topology) Size() int { return len(t.offsets) - 1 }

// MaxDegree returns the largest neighbour count of any cell.
func (t *Topology) MaxDegree() int { return t.maxDegree }

// Degree returns the number of neighbours of cell.
func (t *Topology) Degree(cell int) (int, error) {
	if err := t.check(cell); err != nil {
		return 0, err
	}
	return int(t.offsets[cell+1] - t.offsets[cell]), nil
}

// Neighbors returns the neighbours of cell in construction order. A
// neighbour appears more than once when several offsets reach it, which only
// happens on periodic axes shorter than three cells.
func (t *Topology) Neighbors(cell int) ([]int, error) {
	if err := t.check(cell); err != nil {
		return nil, err
	}
	row := t.adj[t.offsets[cell]:t.offsets[cell+1]]
	out := make([]int, len(row))
	for i, n := range row {
		out[i] = int(n)
	}
	return out, nil
}

// Adjacency exposes the precomputed CSR table. The neighbours of cell c are
// adj[offsets[c]:offsets[c+1]]. Both slices are shared and must not be modified.
func (t *Topology) Adjacency() (offsets, adj []int32) { return t.offsets, t.adj }

// Cells yields every cell identifier in ascending order. The sequence can be
// ranged over any number of times.
func (t *Topology) Cells() iter.Seq[int] {
	n := t.Size()
	return func(yield func(int) bool) {
		for c := 0; c < n; c++ {
			if !yield(c) {
				return
			}
		}
	}
}

// Contains reports whether cell is inside the topology.
func (t *Topology) Contains(cell int) bool { return cell >= 0 && cell < t.Size() }

// Index converts a coordinate tuple (one entry per Shape dimension) into a
// cell identifier.
func (t *Topology) Index(coord ...int) (int, error) {
	if len(coord) != len(t.shape) {
		return 0, errors.Wrapf(core.ErrInvalidCell, "coordinate %v has %d axes, want %d", coord, len(coord), len(t.shape))
	}
	idx := 0
	for d, v := range coord {
		if v < 0 || v >= t.shape[d] {
			return 0, errors.Wrapf(core.ErrInvalidCell, "coordinate %v outside shape %v", coord, t.shape)
		}
		idx += v * t.strides[d]
	}
	return idx, nil
}

// Coord converts a cell identifier back into its coordinate tuple.
func (t *Topology) Coord(cell int) ([]int, error) {
	if err := t.check(cell); err != nil {
		return nil, err
	}
	out := make([]int, len(t.shape))
	for d := range t.shape {
		out[d] = cell / t.strides[d]
		cell %= t.strides[d]
	}
	return out, nil
}

func (t *Topology) String() string {
	dims := make([]string, len(t.shape))
	for i, s := range t.shape {
		dims[i] = fmt.Sprint(s)
	}
	return fmt.Sprintf("%s %s %s %s", t.kind, strings.Join(dims, "x"), t.hood, t.boundary)
}

func (t *Topology) check(cell int) error {
	if !t.Contains(cell) {
		return errors.Wrapf(core.ErrInvalidCell, "cell %d outside [0,%d)", cell, t.Size())
	}
	return nil
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// validateShape checks dimension sizes and returns row-major strides.
func validateShape(shape []int) ([]int, error) {
	if len(shape) == 0 {
		return nil, errors.Wrap(core.ErrInvalidTopology, "shape needs at least one dimension")
	}
	strides := make([]int, len(shape))
	total := 1
	for d := len(shape) - 1; d >= 0; d-- {
		if shape[d] <= 0 {
			return nil, errors.Wrapf(core.ErrInvalidTopology, "dimension %d has size %d", d, shape[d])
		}
		strides[d] = total
		if total > math.MaxInt32/shape[d] {
			return nil, errors.Wrapf(core.ErrInvalidTopology, "shape %v exceeds %d cells", shape, math.MaxInt32)
		}
		total *= shape[d]
	}
	return strides, nil
}

// builder accumulates CSR rows in cell order.
type builder struct {
	offsets []int32
	adj     []int32
	max     int
}

// newBuilder fails when cells*perCell neighbour entries would overflow the
// int32 offsets.
func newBuilder(cells, perCell int) (*builder, error) {
	if int64(cells)*int64(perCell) > math.MaxInt32 {
		return nil, errors.Wrapf(core.ErrInvalidTopology, "%d cells with up to %d neighbours exceed %d adjacency entries", cells, perCell, math.MaxInt32)
	}
	return &builder{offsets: make([]int32, 1, cells+1), adj: make([]int32, 0, cells*perCell)}, nil
}

func (b *builder) add(n int) { b.adj = append(b.adj, int32(n)) }

func (b *builder) endRow() {
	start := b.offsets[len(b.offsets)-1]
	if deg := len(b.adj) - int(start); deg > b.max {
		b.max = deg
	}
	b.offsets = append(b.offsets, int32(len(b.adj)))
}

// Package grid holds automaton cell values on top of a topology.
package grid

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"sandlife/pkg/core"
	"sandlife/pkg/topology"
)

// State stores one int32 value per topology cell. Its index domain always
// matches the topology exactly. A State is mutated in place by a single
// engine and must not be shared for concurrent writes.
type State struct {
	topo *topology.Topology
	data []int32
}

// New allocates a zeroed state over topo.
func New(topo *topology.Topology) *State {
	return &State{topo: topo, data: make([]int32, topo.Size())}
}

// NewFilled allocates a state with every cell set to v.
func NewFilled(topo *topology.Topology, v int32) *State {
	s := New(topo)
	s.Fill(v)
	return s
}

// FromValues copies a dense value array, which must have one entry per cell.
func FromValues(topo *topology.Topology, values []int32) (*State, error) {
	s := New(topo)
	if err := s.Load(values); err != nil {
		return nil, err
	}
	return s, nil
}

// FromRows copies a 2-D row-major array into a state over a rows×cols topology.
func FromRows(topo *topology.Topology, rows [][]int32) (*State, error) {
	shape := topo.Shape()
	if len(shape) != 2 || len(rows) != shape[0] {
		return nil, errors.Wrapf(core.ErrConfiguration, "%d rows do not fit shape %v", len(rows), shape)
	}
	s := New(topo)
	for r, row := range rows {
		if len(row) != shape[1] {
			return nil, errors.Wrapf(core.ErrConfiguration, "row %d has %d values, want %d", r, len(row), shape[1])
		}
		copy(s.data[r*shape[1]:], row)
	}
	return s, nil
}

// Random draws every cell uniformly from [lo, hi] using a seeded RNG.
func Random(topo *topology.Topology, seed int64, lo, hi int32) *State {
	s := New(topo)
	core.NewRNG(seed).FillUniform(s.data, lo, hi)
	return s
}

// RandomBinary sets each cell to 1 with probability p using a seeded RNG.
func RandomBinary(topo *topology.Topology, seed int64, p float64) *State {
	s := New(topo)
	core.NewRNG(seed).FillBinary(s.data, p)
	return s
}

// Topology returns the topology the state is defined over.
func (s *State) Topology() *topology.Topology { return s.topo }

// Len returns the number of cells.
func (s *State) Len() int { return len(s.data) }

// Cells exposes the backing slice so engines can read/write values directly.
func (s *State) Cells() []int32 { return s.data }

// Values returns a copy of the dense value array.
func (s *State) Values() []int32 { return append([]int32(nil), s.data...) }

// Get returns the value of cell.
func (s *State) Get(cell int) (int32, error) {
	if cell < 0 || cell >= len(s.data) {
		return 0, errors.Wrapf(core.ErrInvalidCell, "cell %d outside [0,%d)", cell, len(s.data))
	}
	return s.data[cell], nil
}

// Set stores v at cell.
func (s *State) Set(cell int, v int32) error {
	if cell < 0 || cell >= len(s.data) {
		return errors.Wrapf(core.ErrInvalidCell, "cell %d outside [0,%d)", cell, len(s.data))
	}
	s.data[cell] = v
	return nil
}

// At returns the value at a coordinate tuple.
func (s *State) At(coord ...int) (int32, error) {
	idx, err := s.topo.Index(coord...)
	if err != nil {
		return 0, err
	}
	return s.data[idx], nil
}

// SetAt stores v at a coordinate tuple.
func (s *State) SetAt(v int32, coord ...int) error {
	idx, err := s.topo.Index(coord...)
	if err != nil {
		return err
	}
	s.data[idx] = v
	return nil
}

// Fill sets every cell to v.
func (s *State) Fill(v int32) {
	for i := range s.data {
		s.data[i] = v
	}
}

// Load overwrites all cells from a dense array of matching length.
func (s *State) Load(values []int32) error {
	if len(values) != len(s.data) {
		return errors.Wrapf(core.ErrConfiguration, "got %d values for %d cells", len(values), len(s.data))
	}
	copy(s.data, values)
	return nil
}

// Snapshot returns an immutable copy of the current values.
func (s *State) Snapshot() Snapshot { return newSnapshot(s.topo, s.Values()) }

// Restore overwrites the state with a snapshot taken over the same topology.
func (s *State) Restore(snap Snapshot) error {
	if snap.topo != s.topo {
		return errors.Wrap(core.ErrConfiguration, "snapshot belongs to a different topology")
	}
	copy(s.data, snap.data)
	return nil
}

// Sum returns the total of all cell values.
func (s *State) Sum() int64 { return sum(s.data) }

// CountWhere returns how many cells satisfy pred.
func (s *State) CountWhere(pred func(int32) bool) int {
	n := 0
	for _, v := range s.data {
		if pred(v) {
			n++
		}
	}
	return n
}

// AddWhere adds delta to every cell satisfying pred and returns how many
// cells changed.
func (s *State) AddWhere(pred func(int32) bool, delta int32) int {
	n := 0
	for i, v := range s.data {
		if pred(v) {
			s.data[i] = v + delta
			n++
		}
	}
	return n
}

// Mask writes 1 into dst for each cell satisfying pred and 0 otherwise.
func (s *State) Mask(dst []int32, pred func(int32) bool) {
	for i, v := range s.data {
		dst[i] = 0
		if pred(v) {
			dst[i] = 1
		}
	}
}

// NeighborCount writes into dst, for every cell at once, how many of its
// neighbours satisfy pred. dst must have Len entries.
func (s *State) NeighborCount(dst []int32, pred func(int32) bool) {
	mask := make([]int32, len(s.data))
	s.Mask(mask, pred)
	MulAdjacency(s.topo, dst, mask)
}

// NeighborSum writes into dst the sum of neighbour values of every cell.
func (s *State) NeighborSum(dst []int32) { MulAdjacency(s.topo, dst, s.data) }

// Rows returns the values of a 2-D state as a row-major slice of rows.
func (s *State) Rows() ([][]int32, error) { return rowsOf(s.topo, s.data) }

func (s *State) String() string { return format(s.topo, s.data) }

func sum(data []int32) int64 {
	var total int64
	for _, v := range data {
		total += int64(v)
	}
	return total
}

func rowsOf(topo *topology.Topology, data []int32) ([][]int32, error) {
	shape := topo.Shape()
	if len(shape) != 2 {
		return nil, errors.Wrapf(core.ErrConfiguration, "shape %v is not two-dimensional", shape)
	}
	out := make([][]int32, shape[0])
	for r := range out {
		out[r] = append([]int32(nil), data[r*shape[1]:(r+1)*shape[1]]...)
	}
	return out, nil
}

// format lays 2-D values out as space separated rows; other shapes print flat.
func format(topo *topology.Topology, data []int32) string {
	cols := len(data)
	if shape := topo.Shape(); len(shape) == 2 {
		cols = shape[1]
	}
	var b strings.Builder
	for i, v := range data {
		if i > 0 {
			if i%cols == 0 {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(strconv.FormatInt(int64(v), 10))
	}
	return b.String()
}

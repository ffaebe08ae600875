package grid

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"sandlife/pkg/core"
	"sandlife/pkg/topology"
)

// Snapshot is an immutable copy of a State taken between steps. It carries
// an xxhash fingerprint of its values for cheap cycle detection.
type Snapshot struct {
	topo *topology.Topology
	data []int32
	hash uint64
}

func newSnapshot(topo *topology.Topology, data []int32) Snapshot {
	buf := make([]byte, 0, 4*len(data))
	for _, v := range data {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	return Snapshot{topo: topo, data: data, hash: xxhash.Sum64(buf)}
}

// Topology returns the topology the snapshot was taken over.
func (s Snapshot) Topology() *topology.Topology { return s.topo }

// Len returns the number of cells.
func (s Snapshot) Len() int { return len(s.data) }

// Hash returns the fingerprint of the values. Equal snapshots share a hash;
// use Equal to rule out collisions.
func (s Snapshot) Hash() uint64 { return s.hash }

// Get returns the value of cell.
func (s Snapshot) Get(cell int) (int32, error) {
	if cell < 0 || cell >= len(s.data) {
		return 0, errors.Wrapf(core.ErrInvalidCell, "cell %d outside [0,%d)", cell, len(s.data))
	}
	return s.data[cell], nil
}

// Values returns a copy of the dense value array.
func (s Snapshot) Values() []int32 { return append([]int32(nil), s.data...) }

// Equal reports whether both snapshots hold identical values.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.hash == o.hash && slices.Equal(s.data, o.data)
}

// Sum returns the total of all cell values.
func (s Snapshot) Sum() int64 { return sum(s.data) }

// Rows returns the values of a 2-D snapshot as rows.
func (s Snapshot) Rows() ([][]int32, error) { return rowsOf(s.topo, s.data) }

func (s Snapshot) String() string { return format(s.topo, s.data) }

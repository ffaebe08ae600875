package grid

import (
	"errors"
	"slices"
	"testing"

	"sandlife/pkg/core"
	"sandlife/pkg/topology"
)

func square(t *testing.T, rows, cols int, opts ...topology.Option) *topology.Topology {
	t.Helper()
	topo, err := topology.NewSquare(rows, cols, opts...)
	if err != nil {
		t.Fatalf("NewSquare: %v", err)
	}
	return topo
}

func TestGetSetBounds(t *testing.T) {
	s := New(square(t, 2, 3))
	if err := s.Set(5, 7); err != nil {
		t.Fatal(err)
	}
	if v, err := s.At(1, 2); err != nil || v != 7 {
		t.Fatalf("At(1,2) = %d, %v", v, err)
	}
	if err := s.Set(6, 1); !errors.Is(err, core.ErrInvalidCell) {
		t.Fatalf("Set(6) err = %v", err)
	}
	if _, err := s.Get(-1); !errors.Is(err, core.ErrInvalidCell) {
		t.Fatalf("Get(-1) err = %v", err)
	}
	if err := s.SetAt(1, 2, 0); !errors.Is(err, core.ErrInvalidCell) {
		t.Fatalf("SetAt(2,0) err = %v", err)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewFilled(square(t, 3, 3), 2)
	snap := s.Snapshot()
	s.Cells()[4] = 9

	if v, _ := snap.Get(4); v != 2 {
		t.Fatalf("snapshot aliased live grid: got %d", v)
	}
	other := s.Snapshot()
	if snap.Equal(other) {
		t.Fatal("snapshots with different values compare equal")
	}
	if err := s.Restore(snap); err != nil {
		t.Fatal(err)
	}
	again := s.Snapshot()
	if !snap.Equal(again) || snap.Hash() != again.Hash() {
		t.Fatal("restore did not reproduce snapshot")
	}

	values := snap.Values()
	values[0] = 100
	if v, _ := snap.Get(0); v != 2 {
		t.Fatal("Values leaked snapshot storage")
	}
}

func TestRestoreRejectsForeignTopology(t *testing.T) {
	a := New(square(t, 2, 2))
	b := New(square(t, 2, 2))
	if err := a.Restore(b.Snapshot()); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("Restore err = %v", err)
	}
}

func TestNeighborCount(t *testing.T) {
	topo := square(t, 3, 3, topology.WithNeighborhood(topology.Moore))
	s, err := FromRows(topo, [][]int32{
		{0, 0, 0},
		{1, 1, 1},
		{0, 0, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	counts := make([]int32, s.Len())
	s.NeighborCount(counts, func(v int32) bool { return v != 0 })
	want := []int32{2, 3, 2, 1, 2, 1, 2, 3, 2}
	if !slices.Equal(counts, want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
}

func TestMulAdjacencyParallelMatchesSerial(t *testing.T) {
	topo := square(t, 300, 300, topology.WithNeighborhood(topology.Moore), topology.WithBoundary(topology.BoundaryPeriodic))
	s := Random(topo, 42, 0, 5)

	got := make([]int32, s.Len())
	s.NeighborSum(got)

	offsets, adj := topo.Adjacency()
	want := make([]int32, s.Len())
	mulRows(offsets, adj, want, s.Cells(), 0, s.Len())
	if !slices.Equal(got, want) {
		t.Fatal("parallel adjacency product differs from serial")
	}
}

func TestBulkOps(t *testing.T) {
	s, err := FromValues(square(t, 2, 2), []int32{1, 5, 3, 7})
	if err != nil {
		t.Fatal(err)
	}
	big := func(v int32) bool { return v >= 4 }
	if n := s.CountWhere(big); n != 2 {
		t.Fatalf("CountWhere = %d", n)
	}
	if n := s.AddWhere(big, -4); n != 2 {
		t.Fatalf("AddWhere = %d", n)
	}
	if !slices.Equal(s.Values(), []int32{1, 1, 3, 3}) {
		t.Fatalf("values = %v", s.Values())
	}
	if s.Sum() != 8 {
		t.Fatalf("Sum = %d", s.Sum())
	}
	if _, err := FromValues(s.Topology(), []int32{1}); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("FromValues short err = %v", err)
	}
}

func TestRandomDeterministic(t *testing.T) {
	topo := square(t, 8, 8)
	a := RandomBinary(topo, 7, 0.5)
	b := RandomBinary(topo, 7, 0.5)
	if !a.Snapshot().Equal(b.Snapshot()) {
		t.Fatal("same seed produced different grids")
	}
	r := Random(topo, 3, 2, 4)
	for _, v := range r.Cells() {
		if v < 2 || v > 4 {
			t.Fatalf("value %d outside [2,4]", v)
		}
	}
}

func TestStringAndRows(t *testing.T) {
	s, _ := FromValues(square(t, 2, 3), []int32{1, 2, 3, 4, 5, 6})
	if got := s.String(); got != "1 2 3\n4 5 6" {
		t.Fatalf("String = %q", got)
	}
	rows, err := s.Snapshot().Rows()
	if err != nil || len(rows) != 2 || !slices.Equal(rows[1], []int32{4, 5, 6}) {
		t.Fatalf("Rows = %v, %v", rows, err)
	}
}

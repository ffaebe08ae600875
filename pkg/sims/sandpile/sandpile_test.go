package sandpile

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"sandlife/pkg/core"
	"sandlife/pkg/grid"
	"sandlife/pkg/topology"
)

func newEngine(t *testing.T, topo *topology.Topology, values []int32, opts ...Option) *Engine {
	t.Helper()
	state, err := grid.FromValues(topo, values)
	if err != nil {
		t.Fatalf("FromValues: %v", err)
	}
	e, err := New(state, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func square(t *testing.T, rows, cols int, opts ...topology.Option) *topology.Topology {
	t.Helper()
	topo, err := topology.NewSquare(rows, cols, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return topo
}

func TestSingleToppleCenter(t *testing.T) {
	e := newEngine(t, square(t, 3, 3), []int32{
		0, 0, 0,
		0, 4, 0,
		0, 0, 0,
	}, WithThreshold(4))

	res, err := e.RunUntilStable(10)
	if err != nil {
		t.Fatalf("RunUntilStable: %v", err)
	}
	if res.Steps != 1 || !res.Stable || res.Dissipated != 0 || res.Topples != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	want := []int32{0, 1, 0, 1, 0, 1, 0, 1, 0}
	if got := res.Final.Values(); !slices.Equal(got, want) {
		t.Fatalf("final = %v, want %v", got, want)
	}
	if e.Phase() != PhaseStable {
		t.Fatalf("phase = %s", e.Phase())
	}
}

func TestCornerDissipates(t *testing.T) {
	e := newEngine(t, square(t, 3, 3), []int32{4, 0, 0, 0, 0, 0, 0, 0, 0})
	res, err := e.RunUntilStable(10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Dissipated != 2 {
		t.Fatalf("dissipated = %d, want 2", res.Dissipated)
	}
	if got := res.Final.Values(); !slices.Equal(got, []int32{0, 1, 0, 1, 0, 0, 0, 0, 0}) {
		t.Fatalf("final = %v", got)
	}
}

func TestAlreadyStableIsNoop(t *testing.T) {
	values := []int32{3, 2, 1, 0, 3, 3, 1, 1, 2}
	e := newEngine(t, square(t, 3, 3), values)
	if e.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %s", e.Phase())
	}

	res, err := e.RunUntilStable(5)
	if err != nil || res.Steps != 0 || !res.Stable {
		t.Fatalf("RunUntilStable on stable grid = %+v, %v", res, err)
	}
	if n := e.Step(); n != 0 {
		t.Fatalf("Step toppled %d cells on stable grid", n)
	}
	if !slices.Equal(e.State().Values(), values) {
		t.Fatal("Step changed a stable grid")
	}
}

func TestZeroBudgetReportsNonConvergence(t *testing.T) {
	values := []int32{0, 0, 0, 0, 9, 0, 0, 0, 0}
	e := newEngine(t, square(t, 3, 3), values)

	res, err := e.RunUntilStable(0)
	if !errors.Is(err, core.ErrNonConvergence) {
		t.Fatalf("err = %v, want ErrNonConvergence", err)
	}
	if res.Steps != 0 || res.Stable {
		t.Fatalf("result = %+v", res)
	}
	if !slices.Equal(res.Final.Values(), values) {
		t.Fatal("grid modified under zero budget")
	}

	res, err = e.RunUntilStable(100)
	if err != nil || !res.Stable {
		t.Fatalf("continuing run = %+v, %v", res, err)
	}
}

func TestSynchronousPassDefersReceivedGrains(t *testing.T) {
	// The middle cell crosses the threshold only through grains received in
	// pass one, so it must not topple until pass two.
	e := newEngine(t, square(t, 1, 5), []int32{0, 2, 1, 2, 0}, WithThreshold(2))

	if n := e.Step(); n != 2 {
		t.Fatalf("first pass toppled %d cells, want 2", n)
	}
	if got := e.State().Values(); !slices.Equal(got, []int32{1, 0, 3, 0, 1}) {
		t.Fatalf("after pass one = %v", got)
	}
	if n := e.Step(); n != 1 {
		t.Fatalf("second pass toppled %d cells, want 1", n)
	}
	if got := e.State().Values(); !slices.Equal(got, []int32{1, 1, 1, 1, 1}) {
		t.Fatalf("after pass two = %v", got)
	}
}

func TestAbelianOrderIndependence(t *testing.T) {
	topo := square(t, 12, 12)
	initial := grid.Random(topo, 5, 0, 9).Values()

	sync := newEngine(t, topo, initial)
	want, err := sync.Stabilize()
	if err != nil {
		t.Fatal(err)
	}

	for seed := uint64(1); seed <= 3; seed++ {
		async := newEngine(t, topo, initial)
		rng := rand.New(rand.NewPCG(seed, 0))
		order := rng.Perm(topo.Size())
		for async.Unstable() {
			for _, c := range order {
				if _, err := async.Topple(c); err != nil {
					t.Fatal(err)
				}
			}
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		if !async.State().Snapshot().Equal(want.Final) {
			t.Fatalf("seed %d: asynchronous order reached a different stable grid", seed)
		}
		if async.Dissipated() != want.Dissipated || async.Topples() != want.Topples {
			t.Fatalf("seed %d: dissipated %d topples %d, want %d and %d",
				seed, async.Dissipated(), async.Topples(), want.Dissipated, want.Topples)
		}
	}
}

func TestAbelianSubPasses(t *testing.T) {
	topo := square(t, 9, 9)
	initial := grid.Random(topo, 11, 0, 12).Values()

	whole := newEngine(t, topo, initial)
	want, err := whole.Stabilize()
	if err != nil {
		t.Fatal(err)
	}

	// Split every pass into an even-cell and an odd-cell sub-pass.
	split := newEngine(t, topo, initial)
	for split.Unstable() {
		for parity := 0; parity < 2; parity++ {
			var ready []int
			for c, v := range split.State().Cells() {
				if c%2 == parity && v >= split.Threshold() {
					ready = append(ready, c)
				}
			}
			for _, c := range ready {
				if _, err := split.Topple(c); err != nil {
					t.Fatal(err)
				}
			}
		}
	}
	if !split.State().Snapshot().Equal(want.Final) || split.Dissipated() != want.Dissipated {
		t.Fatal("sub-pass grouping changed the stable configuration")
	}
}

func TestConservation(t *testing.T) {
	tests := []struct {
		name string
		topo func() (*topology.Topology, error)
	}{
		{"square", func() (*topology.Topology, error) { return topology.NewSquare(10, 7) }},
		{"cube", func() (*topology.Topology, error) { return topology.NewGrid([]int{4, 4, 4}) }},
		{"triangular", func() (*topology.Topology, error) { return topology.NewTriangular(6, 8, topology.WithNeighborhood(topology.TriangleEdge)) }},
		{"graph", func() (*topology.Topology, error) { return topology.NewGraph([][]int{{1}, {0, 2}, {1, 3}, {2}}) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			topo, err := tc.topo()
			if err != nil {
				t.Fatal(err)
			}
			state := grid.Random(topo, 3, 0, 3*int32(topo.MaxDegree()))
			before := state.Sum()
			e, err := New(state)
			if err != nil {
				t.Fatal(err)
			}
			for e.Unstable() {
				e.Step()
				if got := state.Sum() + e.Dissipated(); got != before {
					t.Fatalf("after step %d: grains %d + dissipated %d != %d", e.Steps(), state.Sum(), e.Dissipated(), before)
				}
			}
			for _, v := range state.Cells() {
				if v < 0 || v >= e.Threshold() {
					t.Fatalf("unstable or negative cell %d after relaxation", v)
				}
			}
		})
	}
}

func TestPeriodicNeverDissipates(t *testing.T) {
	topo := square(t, 3, 3, topology.WithBoundary(topology.BoundaryPeriodic))
	e := newEngine(t, topo, []int32{4, 4, 4, 4, 4, 4, 4, 4, 4})
	res, err := e.RunUntilStable(20)
	if !errors.Is(err, core.ErrNonConvergence) {
		t.Fatalf("err = %v", err)
	}
	if res.Dissipated != 0 || res.Final.Sum() != 36 || res.Steps != 20 {
		t.Fatalf("result = %+v sum=%d", res, res.Final.Sum())
	}
}

func TestConfigurationErrors(t *testing.T) {
	topo := square(t, 3, 3)
	state := grid.New(topo)
	if _, err := New(state, WithThreshold(3)); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("threshold below degree err = %v", err)
	}
	if _, err := New(state, WithThreshold(-1)); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("negative threshold err = %v", err)
	}
	_ = state.Set(0, -2)
	if _, err := New(state); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("negative grains err = %v", err)
	}
	if _, err := newEngine(t, topo, make([]int32, 9)).Topple(9); !errors.Is(err, core.ErrInvalidCell) {
		t.Fatalf("Topple(9) err = %v", err)
	}
}

func TestAutoThreshold(t *testing.T) {
	for _, tc := range []struct {
		rows, cols int
		opts       []topology.Option
	}{
		{4, 6, nil},
		{4, 4, []topology.Option{topology.WithBoundary(topology.BoundaryPeriodic)}},
	} {
		tri, err := topology.NewTriangular(tc.rows, tc.cols, tc.opts...)
		if err != nil {
			t.Fatal(err)
		}
		e, err := New(grid.New(tri))
		if err != nil {
			t.Fatal(err)
		}
		if e.Threshold() != int32(tri.MaxDegree()) || e.Threshold() != 12 {
			t.Fatalf("%dx%d: auto threshold = %d, max degree %d, want 12", tc.rows, tc.cols, e.Threshold(), tri.MaxDegree())
		}
	}

	narrow, err := topology.NewTriangular(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(grid.New(narrow))
	if err != nil {
		t.Fatal(err)
	}
	if e.Threshold() != int32(narrow.MaxDegree()) {
		t.Fatalf("auto threshold %d, want max degree %d", e.Threshold(), narrow.MaxDegree())
	}
}

func TestRelax(t *testing.T) {
	got, err := Relax([][]int32{
		{0, 0, 0},
		{0, 16, 0},
		{0, 0, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int32{
		{2, 1, 2},
		{1, 0, 1},
		{2, 1, 2},
	}
	for r := range want {
		if !slices.Equal(got[r], want[r]) {
			t.Fatalf("Relax = %v, want %v", got, want)
		}
	}
}

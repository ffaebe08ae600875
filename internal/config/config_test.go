package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"sandlife/pkg/core"
	"sandlife/pkg/sims/life"
	"sandlife/pkg/topology"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if !slices.Equal(c.Shape, []int{64, 64}) || c.Boundary != "fixed" || c.ToppleThreshold != ThresholdAuto {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.MaxSteps != 10000 || c.Seed != 1337 {
		t.Fatalf("unexpected run defaults %+v", c)
	}
}

func TestFromMapIgnoresInvalid(t *testing.T) {
	c := FromMap(map[string]string{
		"shape":            "8x6",
		"boundary":         "periodic",
		"topple_threshold": "nope",
		"density":          "2",
		"survival":         "2,3",
	})
	if !slices.Equal(c.Shape, []int{8, 6}) || c.Boundary != "periodic" {
		t.Fatalf("valid keys not applied: %+v", c)
	}
	if c.ToppleThreshold != ThresholdAuto || c.Density != 0.35 {
		t.Fatalf("invalid keys changed config: %+v", c)
	}
	if !slices.Equal(c.SurvivalThresholds, []int{2, 3}) {
		t.Fatalf("survival = %v", c.SurvivalThresholds)
	}
}

func TestApplyReportsErrors(t *testing.T) {
	c := DefaultConfig()
	if err := c.Apply(map[string]string{"colour": "red"}); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("unknown key err = %v", err)
	}
	if err := c.Apply(map[string]string{"topple_threshold": "-3"}); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("negative threshold err = %v", err)
	}
	if err := c.Apply(map[string]string{"w": "10", "h": "4"}); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(c.Shape, []int{4, 10}) {
		t.Fatalf("w/h shape = %v", c.Shape)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := `
kind: triangular
shape: [4, 6]
boundary: periodic
topple_threshold: 12
birth_thresholds: [4]
survival_thresholds: [4, 5, 6]
fill: explicit
values: [1, 2]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind != "triangular" || c.ToppleThreshold != 12 || !slices.Equal(c.Shape, []int{4, 6}) {
		t.Fatalf("loaded %+v", c)
	}
	if c.Seed != 1337 {
		t.Fatal("keys absent from the file should keep their base value")
	}

	topo, err := c.Topology()
	if err != nil {
		t.Fatal(err)
	}
	if topo.Kind() != topology.KindTriangular || topo.Boundary() != topology.BoundaryPeriodic {
		t.Fatalf("topology = %s", topo)
	}
	if _, err := c.InitialState(topo, 0); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("explicit fill with too few values err = %v", err)
	}

	rule, err := c.LifeRule(life.Classic())
	if err != nil || rule.String() != "B4/S456" {
		t.Fatalf("rule = %s, %v", rule, err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(bad, []byte("topple_threshold: sometimes\n"), 0o644)
	if _, err := Load(bad, DefaultConfig()); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("bad threshold err = %v", err)
	}
}

func TestInitialStateFills(t *testing.T) {
	c := DefaultConfig()
	c.Shape = []int{5, 5}
	topo, err := c.Topology()
	if err != nil {
		t.Fatal(err)
	}

	c.Fill, c.Value = FillCenter, 30
	state, err := c.InitialState(topo, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := state.At(2, 2); v != 30 || state.Sum() != 30 {
		t.Fatalf("center fill = %v", state.Values())
	}

	c.Fill, c.Value = FillConstant, 2
	state, _ = c.InitialState(topo, 0)
	if state.Sum() != 50 {
		t.Fatalf("constant fill sum = %d", state.Sum())
	}

	c.Fill = FillRandom
	a, _ := c.InitialState(topo, 9)
	b, _ := c.InitialState(topo, 9)
	if !a.Snapshot().Equal(b.Snapshot()) {
		t.Fatal("random fill not deterministic for a seed")
	}

	c.Fill = "spiral"
	if _, err := c.InitialState(topo, 0); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("unknown fill err = %v", err)
	}
}

func TestRandomFillFullInt32Range(t *testing.T) {
	c := DefaultConfig()
	c.Shape = []int{4, 4}
	if err := c.Apply(map[string]string{"min": "-2147483648", "max": "2147483647"}); err != nil {
		t.Fatal(err)
	}
	topo, err := c.Topology()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.InitialState(topo, 0); err != nil {
		t.Fatal(err)
	}
}

func TestGraphTopology(t *testing.T) {
	c := DefaultConfig()
	c.Kind = "graph"
	if _, err := c.Topology(); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("graph without adjacency err = %v", err)
	}
	c.Adjacency = [][]int{{1}, {0}}
	topo, err := c.Topology()
	if err != nil || topo.Size() != 2 {
		t.Fatalf("graph topology = %v, %v", topo, err)
	}
}

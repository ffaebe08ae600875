package main

import (
	"context"
	"errors"
	"testing"

	"sandlife/internal/core"
	pkgcore "sandlife/pkg/core"
)

func withFlags(t *testing.T, set []string, seed int64) {
	t.Helper()
	oldSet, oldSeed, oldConfig := flagSet, flagSeed, flagConfig
	flagSet, flagSeed, flagConfig = set, seed, ""
	t.Cleanup(func() { flagSet, flagSeed, flagConfig = oldSet, oldSeed, oldConfig })
}

func TestRegisteredSims(t *testing.T) {
	for _, name := range []string{"sandpile", "life", "lifetri", "briansbrain"} {
		if _, ok := core.Lookup(name); !ok {
			t.Errorf("sim %q not registered", name)
		}
	}
}

func TestResolveConfigOverrides(t *testing.T) {
	withFlags(t, []string{"shape=5x7", "boundary=periodic", "max_steps=12"}, 99)
	entry, _ := core.Lookup("life")
	cfg, err := resolveConfig(entry)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Shape) != 2 || cfg.Shape[0] != 5 || cfg.Shape[1] != 7 {
		t.Fatalf("shape = %v", cfg.Shape)
	}
	if cfg.Boundary != "periodic" || cfg.MaxSteps != 12 || cfg.Seed != 99 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestResolveConfigRejectsMalformedOverride(t *testing.T) {
	withFlags(t, []string{"shape"}, 0)
	entry, _ := core.Lookup("sandpile")
	if _, err := resolveConfig(entry); !errors.Is(err, pkgcore.ErrConfiguration) {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildSimUnknown(t *testing.T) {
	withFlags(t, nil, 0)
	if _, _, err := buildSim("nope"); err == nil {
		t.Fatal("expected error for unknown sim")
	}
}

func TestSweepIsDeterministicAndOrdered(t *testing.T) {
	withFlags(t, []string{"shape=8x8", "fill=random", "min=0", "max=7"}, 0)
	entry, _ := core.Lookup("sandpile")
	base, err := resolveConfig(entry)
	if err != nil {
		t.Fatal(err)
	}

	a, err := sweep(context.Background(), entry, base, 6, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sweep(context.Background(), entry, base, 6, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 6 || len(b) != 6 {
		t.Fatalf("got %d and %d results", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("worker count changed result %d: %+v vs %+v", i, a[i], b[i])
		}
		if !a[i].summary.Converged {
			t.Fatalf("seed %d did not settle", a[i].seed)
		}
		if i > 0 && a[i-1].summary.Steps < a[i].summary.Steps {
			t.Fatal("results not sorted by steps")
		}
	}
}

// Package life registers the Life-like simulations.
package life

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"sandlife/internal/config"
	"sandlife/internal/core"
	"sandlife/pkg/grid"
	"sandlife/pkg/sims/life"
	"sandlife/pkg/topology"
)

// DefaultConfig is classic Life on a toroidal square grid.
func DefaultConfig() config.Config {
	c := config.DefaultConfig()
	c.Boundary = "periodic"
	c.Neighborhood = "moore"
	c.Fill = config.FillBinary
	c.Density = 0.35
	return c
}

// TriangularConfig is B4/S456 on a triangular mesh with vertex neighbours.
func TriangularConfig() config.Config {
	c := DefaultConfig()
	c.Kind = "triangular"
	c.Neighborhood = "vertex"
	c.Rule = life.Triangle().String()
	return c
}

// Life adapts a life engine to core.Sim.
type Life struct {
	name     string
	cfg      config.Config
	fallback life.Rule
	topo     *topology.Topology
	engine   *life.Engine
	logger   *log.Logger
}

// New builds a Life sim. fallback is used when cfg names no rule.
func New(name string, cfg config.Config, fallback life.Rule, logger *log.Logger) (*Life, error) {
	topo, err := cfg.Topology()
	if err != nil {
		return nil, err
	}
	l := &Life{name: name, cfg: cfg, fallback: fallback, topo: topo, logger: logger}
	if err := l.Reset(0); err != nil {
		return nil, err
	}
	return l, nil
}

// Name returns the simulation identifier.
func (l *Life) Name() string { return l.name }

// Topology returns the mesh.
func (l *Life) Topology() *topology.Topology { return l.topo }

// State returns the cell grid.
func (l *Life) State() *grid.State { return l.engine.State() }

// Engine exposes the underlying engine.
func (l *Life) Engine() *life.Engine { return l.engine }

// Reset reseeds the board. A zero seed uses the configured one.
func (l *Life) Reset(seed int64) error {
	rule, err := l.cfg.LifeRule(l.fallback)
	if err != nil {
		return err
	}
	state, err := l.cfg.InitialState(l.topo, seed)
	if err != nil {
		return err
	}
	var opts []life.Option
	if l.logger != nil {
		opts = append(opts, life.WithLogger(l.logger))
	}
	engine, err := life.New(state, rule, opts...)
	if err != nil {
		return err
	}
	l.engine = engine
	return nil
}

// Step advances one generation.
func (l *Life) Step() bool {
	before := l.engine.State().Snapshot()
	l.engine.Step()
	return !before.Equal(l.engine.State().Snapshot())
}

// Run steps until a generation repeats or budget generations have run.
func (l *Life) Run(budget int) (core.Summary, error) {
	cycle, err := l.engine.RunUntilCycle(budget)
	return core.Summary{
		Steps:      cycle.Steps,
		Converged:  cycle.Found,
		CycleStart: cycle.Start,
		Period:     cycle.Period,
		Population: l.engine.Population(),
	}, err
}

// Parameters describes the configuration in effect.
func (l *Life) Parameters() core.ParameterSnapshot {
	rule := l.engine.Rule()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		core.MeshGroup(l.cfg, l.topo),
		{
			Name:    "Rule",
			Summary: rule.String(),
			Params: []core.Parameter{
				core.StringParam("birth_thresholds", "Birth", joinInts(rule.Birth())),
				core.StringParam("survival_thresholds", "Survival", joinInts(rule.Survival())),
				core.IntParam("states", "States", rule.States()),
			},
		},
		core.SeedGroup(l.cfg),
	}}
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func init() {
	core.Register(core.Entry{
		Name:     "life",
		Summary:  "Conway's Game of Life (B3/S23) on a square grid",
		Defaults: DefaultConfig,
		New: func(cfg config.Config) (core.Sim, error) {
			return New("life", cfg, life.Classic(), log.Default())
		},
	})
	core.Register(core.Entry{
		Name:     "lifetri",
		Summary:  "Game of Life (B4/S456) on a triangular mesh",
		Defaults: TriangularConfig,
		New: func(cfg config.Config) (core.Sim, error) {
			return New("lifetri", cfg, life.Triangle(), log.Default())
		},
	})
}

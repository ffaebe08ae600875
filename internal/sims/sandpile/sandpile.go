// Package sandpile registers the Abelian sandpile simulation.
package sandpile

import (
	"github.com/charmbracelet/log"

	"sandlife/internal/config"
	"sandlife/internal/core"
	"sandlife/pkg/grid"
	"sandlife/pkg/sims/sandpile"
	"sandlife/pkg/topology"
)

// DefaultConfig seeds a square grid with random grain counts up to 7.
func DefaultConfig() config.Config {
	c := config.DefaultConfig()
	c.Neighborhood = "von-neumann"
	c.Fill = config.FillRandom
	c.Min, c.Max = 0, 7
	return c
}

// Pile adapts a sandpile engine to core.Sim.
type Pile struct {
	cfg    config.Config
	topo   *topology.Topology
	engine *sandpile.Engine
	logger *log.Logger
}

// New builds the topology and an initial state from cfg.
func New(cfg config.Config, logger *log.Logger) (*Pile, error) {
	topo, err := cfg.Topology()
	if err != nil {
		return nil, err
	}
	p := &Pile{cfg: cfg, topo: topo, logger: logger}
	if err := p.Reset(0); err != nil {
		return nil, err
	}
	return p, nil
}

// Name returns the simulation identifier.
func (p *Pile) Name() string { return "sandpile" }

// Topology returns the mesh.
func (p *Pile) Topology() *topology.Topology { return p.topo }

// State returns the grain grid.
func (p *Pile) State() *grid.State { return p.engine.State() }

// Engine exposes the underlying engine.
func (p *Pile) Engine() *sandpile.Engine { return p.engine }

// Reset rebuilds the initial grid. A zero seed uses the configured one.
func (p *Pile) Reset(seed int64) error {
	state, err := p.cfg.InitialState(p.topo, seed)
	if err != nil {
		return err
	}
	opts := []sandpile.Option{sandpile.WithThreshold(int32(p.cfg.ToppleThreshold))}
	if p.logger != nil {
		opts = append(opts, sandpile.WithLogger(p.logger))
	}
	engine, err := sandpile.New(state, opts...)
	if err != nil {
		return err
	}
	p.engine = engine
	return nil
}

// Step applies one toppling pass.
func (p *Pile) Step() bool { return p.engine.Step() > 0 }

// Run relaxes the pile for at most budget passes.
func (p *Pile) Run(budget int) (core.Summary, error) {
	res, err := p.engine.RunUntilStable(budget)
	return core.Summary{
		Steps:      res.Steps,
		Converged:  res.Stable,
		Topples:    res.Topples,
		Dissipated: res.Dissipated,
	}, err
}

// Parameters describes the configuration in effect.
func (p *Pile) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		core.MeshGroup(p.cfg, p.topo),
		{
			Name: "Toppling",
			Params: []core.Parameter{
				core.StringParam("topple_threshold", "Topple threshold (configured)", p.cfg.ToppleThreshold.String()),
				core.IntParam("effective_threshold", "Topple threshold (effective)", int(p.engine.Threshold())),
			},
		},
		core.SeedGroup(p.cfg),
	}}
}

func init() {
	core.Register(core.Entry{
		Name:     "sandpile",
		Summary:  "Abelian sandpile relaxed to a stable configuration",
		Defaults: DefaultConfig,
		New: func(cfg config.Config) (core.Sim, error) {
			return New(cfg, log.Default())
		},
	})
}

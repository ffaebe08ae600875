package config

import (
	"github.com/pkg/errors"

	"sandlife/pkg/core"
	"sandlife/pkg/grid"
	"sandlife/pkg/sims/life"
	"sandlife/pkg/topology"
)

// Topology builds the mesh described by the config.
func (c Config) Topology() (*topology.Topology, error) {
	kind, err := topology.ParseKind(c.Kind)
	if err != nil {
		return nil, err
	}
	boundary, err := topology.ParseBoundary(c.Boundary)
	if err != nil {
		return nil, err
	}
	hood, err := topology.ParseNeighborhood(c.Neighborhood)
	if err != nil {
		return nil, err
	}
	opts := []topology.Option{topology.WithBoundary(boundary), topology.WithNeighborhood(hood)}

	switch kind {
	case topology.KindTriangular:
		if len(c.Shape) != 2 {
			return nil, errors.Wrapf(core.ErrConfiguration, "triangular mesh needs a 2-D shape, got %v", c.Shape)
		}
		return topology.NewTriangular(c.Shape[0], c.Shape[1], opts...)
	case topology.KindGraph:
		if len(c.Adjacency) == 0 {
			return nil, errors.Wrap(core.ErrConfiguration, "graph topology needs an adjacency list")
		}
		return topology.NewGraph(c.Adjacency)
	}
	return topology.NewGrid(c.Shape, opts...)
}

// InitialState seeds a grid over topo according to the fill mode. A non-zero
// seed replaces the configured one.
func (c Config) InitialState(topo *topology.Topology, seed int64) (*grid.State, error) {
	if seed == 0 {
		seed = c.Seed
	}
	switch c.Fill {
	case FillConstant:
		return grid.NewFilled(topo, c.Value), nil
	case "", FillRandom:
		return grid.Random(topo, seed, c.Min, c.Max), nil
	case FillBinary:
		return grid.RandomBinary(topo, seed, c.Density), nil
	case FillCenter:
		state := grid.New(topo)
		shape := topo.Shape()
		center := make([]int, len(shape))
		for d, n := range shape {
			center[d] = n / 2
		}
		if err := state.SetAt(c.Value, center...); err != nil {
			return nil, err
		}
		return state, nil
	case FillExplicit:
		return grid.FromValues(topo, c.Values)
	}
	return nil, errors.Wrapf(core.ErrConfiguration, "unknown fill %q", c.Fill)
}

// LifeRule resolves the Life rule: an explicit rule string wins, otherwise
// the threshold lists and state count are used, falling back to fallback
// when none are set.
func (c Config) LifeRule(fallback life.Rule) (life.Rule, error) {
	if c.Rule != "" {
		return life.ParseRule(c.Rule)
	}
	if len(c.BirthThresholds) == 0 && len(c.SurvivalThresholds) == 0 {
		return fallback, nil
	}
	states := c.States
	if states == 0 {
		states = 2
	}
	return life.NewRule(c.BirthThresholds, c.SurvivalThresholds, states), nil
}

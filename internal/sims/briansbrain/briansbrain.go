// Package briansbrain registers Brian's Brain, the three-state B2/S/3 rule
// where firing cells always become refractory for one generation.
package briansbrain

import (
	"github.com/charmbracelet/log"

	"sandlife/internal/config"
	"sandlife/internal/core"
	lifesim "sandlife/internal/sims/life"
	"sandlife/pkg/sims/life"
)

// DefaultConfig fires roughly one cell in eight on a toroidal grid.
func DefaultConfig() config.Config {
	c := lifesim.DefaultConfig()
	c.Rule = life.BriansBrain().String()
	c.Density = 0.125
	return c
}

func init() {
	core.Register(core.Entry{
		Name:     "briansbrain",
		Summary:  "Brian's Brain (B2/S/3) on a square grid",
		Defaults: DefaultConfig,
		New: func(cfg config.Config) (core.Sim, error) {
			return lifesim.New("briansbrain", cfg, life.BriansBrain(), log.Default())
		},
	})
}

package core

import (
	"sort"

	"sandlife/internal/config"
	"sandlife/pkg/grid"
	"sandlife/pkg/topology"
)

// Summary reports the outcome of Sim.Run.
type Summary struct {
	Steps     int
	Converged bool

	// Sandpile runs.
	Topples    int64
	Dissipated int64

	// Life runs.
	CycleStart int
	Period     int
	Population int
}

// Sim defines the minimal contract a cellular automaton must implement.
type Sim interface {
	Name() string
	Topology() *topology.Topology
	State() *grid.State
	Reset(seed int64) error
	// Step applies one update and reports whether any cell changed.
	Step() bool
	// Run iterates until the automaton settles or budget steps have run.
	Run(budget int) (Summary, error)
	Parameters() ParameterSnapshot
}

// Factory constructs a Sim from a configuration.
type Factory func(cfg config.Config) (Sim, error)

// Entry is a registered simulation.
type Entry struct {
	Name     string
	Summary  string
	Defaults func() config.Config
	New      Factory
}

var sims = map[string]Entry{}

// Register adds a simulation under the provided name.
func Register(e Entry) {
	if e.Name == "" || e.New == nil {
		return
	}
	if e.Defaults == nil {
		e.Defaults = config.DefaultConfig
	}
	sims[e.Name] = e
}

// Lookup returns the entry registered under name.
func Lookup(name string) (Entry, bool) {
	e, ok := sims[name]
	return e, ok
}

// Sims returns all registered entries sorted by name.
func Sims() []Entry {
	out := make([]Entry, 0, len(sims))
	for _, e := range sims {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

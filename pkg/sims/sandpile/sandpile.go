// Package sandpile relaxes Abelian sandpiles over any topology.
//
// A cell holding at least Threshold grains topples: it loses Threshold grains
// and each neighbour gains one. When a cell has fewer neighbours than the
// threshold (boundary cells under a fixed boundary, or low-degree graph
// vertices) the remaining grains leave the system and are counted as
// dissipated.
//
// Step is strictly synchronous. The set of toppling cells is decided from the
// values at the start of the pass, each of them topples exactly once, and
// grains received during the pass are only looked at by the next pass. The
// stable configuration and total dissipation do not depend on this schedule;
// Topple applies single topples in any order and reaches the same result.
package sandpile

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"sandlife/pkg/core"
	"sandlife/pkg/grid"
)

// Phase is the engine's position in its Idle → Toppling → Stable lifecycle.
type Phase uint8

const (
	// PhaseIdle means no step has run yet.
	PhaseIdle Phase = iota
	// PhaseToppling means at least one cell is at or above threshold.
	PhaseToppling
	// PhaseStable means every cell is below threshold.
	PhaseStable
)

func (p Phase) String() string {
	switch p {
	case PhaseToppling:
		return "toppling"
	case PhaseStable:
		return "stable"
	}
	return "idle"
}

// ThresholdAuto selects the topology's maximum degree as topple threshold.
const ThresholdAuto int32 = 0

// Option customises an Engine.
type Option func(*Engine)

// WithThreshold fixes the topple threshold. ThresholdAuto uses the
// topology's maximum degree (4 on a 2-D von Neumann grid).
func WithThreshold(t int32) Option {
	return func(e *Engine) { e.threshold = t }
}

// WithLogger enables step logging.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Result summarises a RunUntilStable call.
type Result struct {
	// Steps is the number of synchronous passes applied by this call.
	Steps int
	// Topples counts individual cell topples during this call.
	Topples int64
	// Dissipated counts grains lost off the boundary during this call.
	Dissipated int64
	// Stable reports whether the grid ended below threshold everywhere.
	Stable bool
	// Final is the grid after the last applied pass.
	Final grid.Snapshot
}

// Engine owns a grid state while it relaxes it.
type Engine struct {
	state     *grid.State
	threshold int32
	logger    *log.Logger

	// loss[c] grains vanish each time c topples.
	loss     []int32
	fire     []int32
	incoming []int32

	phase      Phase
	steps      int
	topples    int64
	dissipated int64
}

// New validates the configuration against the state's topology and returns
// an engine in PhaseIdle. Grain counts must be non-negative and the threshold
// must be at least the maximum degree, otherwise toppling would create grains.
func New(state *grid.State, opts ...Option) (*Engine, error) {
	e := &Engine{state: state}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	topo := state.Topology()
	maxDeg := int32(topo.MaxDegree())
	if e.threshold == ThresholdAuto {
		e.threshold = max(maxDeg, 1)
	}
	if e.threshold < 0 {
		return nil, errors.Wrapf(core.ErrConfiguration, "topple threshold %d is negative", e.threshold)
	}
	if e.threshold < maxDeg {
		return nil, errors.Wrapf(core.ErrConfiguration, "topple threshold %d is below maximum degree %d", e.threshold, maxDeg)
	}
	if n := state.CountWhere(func(v int32) bool { return v < 0 }); n > 0 {
		return nil, errors.Wrapf(core.ErrConfiguration, "%d cells hold negative grain counts", n)
	}

	n := state.Len()
	offsets, _ := topo.Adjacency()
	e.loss = make([]int32, n)
	for c := 0; c < n; c++ {
		e.loss[c] = e.threshold - (offsets[c+1] - offsets[c])
	}
	e.fire = make([]int32, n)
	e.incoming = make([]int32, n)
	return e, nil
}

// State returns the grid being relaxed.
func (e *Engine) State() *grid.State { return e.state }

// Threshold returns the effective topple threshold.
func (e *Engine) Threshold() int32 { return e.threshold }

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// Steps returns the total number of passes applied so far.
func (e *Engine) Steps() int { return e.steps }

// Topples returns the total number of cell topples so far.
func (e *Engine) Topples() int64 { return e.topples }

// Dissipated returns the total number of grains lost so far.
func (e *Engine) Dissipated() int64 { return e.dissipated }

// Unstable reports whether any cell is at or above threshold.
func (e *Engine) Unstable() bool {
	t := e.threshold
	for _, v := range e.state.Cells() {
		if v >= t {
			return true
		}
	}
	return false
}

// Step applies one synchronous toppling pass and returns how many cells
// toppled. On a stable grid it changes nothing and returns 0.
func (e *Engine) Step() int {
	t := e.threshold
	cells := e.state.Cells()
	e.state.Mask(e.fire, func(v int32) bool { return v >= t })
	grid.MulAdjacency(e.state.Topology(), e.incoming, e.fire)

	toppled := 0
	var lost int64
	for i, f := range e.fire {
		cells[i] += e.incoming[i] - t*f
		if f != 0 {
			toppled++
			lost += int64(e.loss[i])
		}
	}

	if toppled == 0 {
		e.phase = PhaseStable
		return 0
	}
	e.steps++
	e.topples += int64(toppled)
	e.dissipated += lost
	e.phase = PhaseStable
	if e.Unstable() {
		e.phase = PhaseToppling
	}
	if e.logger != nil {
		e.logger.Debug("sandpile pass", "step", e.steps, "toppled", toppled, "dissipated", lost, "phase", e.phase)
	}
	return toppled
}

// Topple fires a single cell if it is at or above threshold and reports
// whether it did. Topple is the asynchronous counterpart of Step and can be
// applied in any order.
func (e *Engine) Topple(cell int) (bool, error) {
	v, err := e.state.Get(cell)
	if err != nil {
		return false, err
	}
	if v < e.threshold {
		return false, nil
	}
	cells := e.state.Cells()
	offsets, adj := e.state.Topology().Adjacency()
	cells[cell] -= e.threshold
	for _, nb := range adj[offsets[cell]:offsets[cell+1]] {
		cells[nb]++
	}
	e.topples++
	e.dissipated += int64(e.loss[cell])
	e.phase = PhaseStable
	if e.Unstable() {
		e.phase = PhaseToppling
	}
	return true, nil
}

// RunUntilStable applies passes until no cell is at or above threshold or
// maxSteps passes have run. When the budget runs out first the returned
// Result still describes the partial progress and the error wraps
// core.ErrNonConvergence; the caller may call again to continue.
func (e *Engine) RunUntilStable(maxSteps int) (Result, error) {
	startTopples, startLost := e.topples, e.dissipated
	res := Result{}
	for e.Unstable() {
		if res.Steps >= maxSteps {
			e.phase = PhaseToppling
			res.Topples = e.topples - startTopples
			res.Dissipated = e.dissipated - startLost
			res.Final = e.state.Snapshot()
			if e.logger != nil {
				e.logger.Info("sandpile budget exhausted", "steps", res.Steps, "topples", res.Topples)
			}
			return res, errors.Wrapf(core.ErrNonConvergence, "sandpile still toppling after %d steps", res.Steps)
		}
		e.Step()
		res.Steps++
	}
	e.phase = PhaseStable
	res.Stable = true
	res.Topples = e.topples - startTopples
	res.Dissipated = e.dissipated - startLost
	res.Final = e.state.Snapshot()
	if e.logger != nil {
		e.logger.Info("sandpile stable", "steps", res.Steps, "topples", res.Topples, "dissipated", res.Dissipated)
	}
	return res, nil
}

// Stabilize runs without a step budget. It only terminates when some grains
// can dissipate, which holds for any fixed-boundary grid or triangular mesh.
func (e *Engine) Stabilize() (Result, error) {
	return e.RunUntilStable(math.MaxInt)
}

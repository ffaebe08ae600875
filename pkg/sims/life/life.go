// Package life runs Life-like automata over any topology.
//
// Every step is synchronous: neighbour counts for all cells come from the
// previous generation as a whole, and the new generation is committed in one
// go. Which cells sit outside a finite mesh is decided by the topology's
// boundary policy; under a fixed boundary everything beyond the edge counts
// as dead.
package life

import (
	"iter"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"sandlife/pkg/core"
	"sandlife/pkg/grid"
)

const (
	dead  int32 = 0
	alive int32 = 1
)

// Option customises an Engine.
type Option func(*Engine)

// WithLogger enables generation logging.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine steps a grid state under a Rule.
type Engine struct {
	state *grid.State
	rule  Rule

	// birth[n] / survive[n] report whether n live neighbours trigger the transition.
	birth   []bool
	survive []bool

	mask   []int32
	counts []int32
	next   []int32

	generation int
	logger     *log.Logger
}

// New validates rule and the initial values against the state's topology.
// Values must lie in [0, rule.States()).
func New(state *grid.State, rule Rule, opts ...Option) (*Engine, error) {
	maxDeg := state.Topology().MaxDegree()
	if err := rule.Validate(maxDeg); err != nil {
		return nil, err
	}
	states := int32(rule.States())
	if n := state.CountWhere(func(v int32) bool { return v < 0 || v >= states }); n > 0 {
		return nil, errors.Wrapf(core.ErrConfiguration, "%d cells hold values outside [0,%d)", n, states)
	}

	e := &Engine{
		state:   state,
		rule:    rule,
		birth:   make([]bool, maxDeg+1),
		survive: make([]bool, maxDeg+1),
		mask:    make([]int32, state.Len()),
		counts:  make([]int32, state.Len()),
		next:    make([]int32, state.Len()),
	}
	for _, n := range rule.Birth() {
		e.birth[n] = true
	}
	for _, n := range rule.Survival() {
		e.survive[n] = true
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// State returns the grid being evolved.
func (e *Engine) State() *grid.State { return e.state }

// Rule returns the rule the engine was built with.
func (e *Engine) Rule() Rule { return e.rule }

// Generation returns how many steps have been applied since construction or
// the last Restore.
func (e *Engine) Generation() int { return e.generation }

// Population returns the number of live (state 1) cells.
func (e *Engine) Population() int {
	return e.state.CountWhere(func(v int32) bool { return v == alive })
}

// Step advances every cell by one generation.
func (e *Engine) Step() {
	cells := e.state.Cells()
	e.state.Mask(e.mask, func(v int32) bool { return v == alive })
	grid.MulAdjacency(e.state.Topology(), e.counts, e.mask)

	states := int32(e.rule.States())
	for i, v := range cells {
		n := e.counts[i]
		switch {
		case v == dead:
			e.next[i] = dead
			if e.birth[n] {
				e.next[i] = alive
			}
		case v == alive:
			switch {
			case e.survive[n]:
				e.next[i] = alive
			case states > 2:
				e.next[i] = 2
			default:
				e.next[i] = dead
			}
		default:
			e.next[i] = v + 1
			if e.next[i] >= states {
				e.next[i] = dead
			}
		}
	}
	copy(cells, e.next)
	e.generation++
	if e.debugEnabled() {
		e.logger.Debug("life generation", "generation", e.generation, "population", e.Population())
	}
}

func (e *Engine) debugEnabled() bool {
	return e.logger != nil && e.logger.GetLevel() <= log.DebugLevel
}

// Run lazily applies up to generations steps, yielding a snapshot after each
// one. Stopping the iteration early stops stepping. The engine mutates its
// state in place, so ranging over Run again continues from the current
// generation; Restore an earlier snapshot to replay.
func (e *Engine) Run(generations int) iter.Seq[grid.Snapshot] {
	return func(yield func(grid.Snapshot) bool) {
		for i := 0; i < generations; i++ {
			e.Step()
			if !yield(e.state.Snapshot()) {
				return
			}
		}
	}
}

// Restore resets the state to snap and the generation counter to zero.
func (e *Engine) Restore(snap grid.Snapshot) error {
	if err := e.state.Restore(snap); err != nil {
		return err
	}
	e.generation = 0
	return nil
}

// Cycle describes the periodic orbit found by RunUntilCycle.
type Cycle struct {
	// Start is the index of the first generation on the cycle, counted from
	// the state at the time RunUntilCycle was called (generation 0).
	Start int
	// Period is the cycle length; 1 means a still life.
	Period int
	// Steps is the number of steps applied by the call.
	Steps int
	// Transient holds generations 0..Start-1, the states before the cycle.
	Transient []grid.Snapshot
	// Final is the state after the last applied step.
	Final grid.Snapshot
	// Found reports whether a recurrence was detected.
	Found bool
}

// RunUntilCycle steps until a generation repeats an earlier one or
// maxGenerations steps have run. Generations are compared by xxhash
// fingerprint and confirmed value by value. When the budget runs out the
// returned Cycle carries the partial run and the error wraps
// core.ErrNonConvergence.
func (e *Engine) RunUntilCycle(maxGenerations int) (Cycle, error) {
	cur := e.state.Snapshot()
	history := []grid.Snapshot{cur}
	seen := map[uint64][]int{cur.Hash(): {0}}

	steps := 0
	for steps < maxGenerations {
		e.Step()
		steps++
		cur = e.state.Snapshot()
		for _, i := range seen[cur.Hash()] {
			if history[i].Equal(cur) {
				c := Cycle{
					Start:     i,
					Period:    len(history) - i,
					Steps:     steps,
					Transient: history[:i],
					Final:     cur,
					Found:     true,
				}
				if e.logger != nil {
					e.logger.Info("life cycle detected", "start", c.Start, "period", c.Period, "steps", steps)
				}
				return c, nil
			}
		}
		seen[cur.Hash()] = append(seen[cur.Hash()], len(history))
		history = append(history, cur)
	}

	if e.logger != nil {
		e.logger.Info("life budget exhausted", "steps", steps)
	}
	return Cycle{Steps: steps, Transient: history, Final: cur}, errors.Wrapf(core.ErrNonConvergence, "no repeated generation within %d steps", steps)
}

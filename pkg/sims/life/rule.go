package life

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/pkg/errors"

	"sandlife/pkg/core"
)

// Rule holds the birth and survival neighbour counts of a Life-like
// automaton and its number of cell states.
//
// With States == 2 the rule is plain two-state Life. Larger values give the
// "Generations" family: state 1 is alive and is the only state counted as a
// neighbour, a live cell that fails to survive enters state 2, and states
// 2..States-1 age by one each step before returning to 0. Brian's Brain is
// B2/S/3.
type Rule struct {
	birth    *treeset.Set
	survival *treeset.Set
	states   int
}

// NewRule builds a rule from birth counts, survival counts and a state count.
func NewRule(birth, survival []int, states int) Rule {
	r := Rule{
		birth:    treeset.NewWithIntComparator(),
		survival: treeset.NewWithIntComparator(),
		states:   states,
	}
	for _, b := range birth {
		r.birth.Add(b)
	}
	for _, s := range survival {
		r.survival.Add(s)
	}
	return r
}

// Classic is Conway's B3/S23.
func Classic() Rule { return NewRule([]int{3}, []int{2, 3}, 2) }

// Triangle is B4/S456, the usual Life rule on the 12-neighbour triangular mesh.
func Triangle() Rule { return NewRule([]int{4}, []int{4, 5, 6}, 2) }

// BriansBrain is B2/S/3.
func BriansBrain() Rule { return NewRule([]int{2}, nil, 3) }

// Birth returns the birth counts in ascending order.
func (r Rule) Birth() []int { return ints(r.birth) }

// Survival returns the survival counts in ascending order.
func (r Rule) Survival() []int { return ints(r.survival) }

// States returns the number of cell states.
func (r Rule) States() int { return r.states }

// Validate checks the rule against the largest neighbour count a cell can have.
func (r Rule) Validate(maxDegree int) error {
	if r.birth == nil || r.survival == nil {
		return errors.Wrap(core.ErrConfiguration, "rule not initialised")
	}
	if r.states < 2 {
		return errors.Wrapf(core.ErrConfiguration, "rule needs at least 2 states, got %d", r.states)
	}
	for _, set := range [][]int{r.Birth(), r.Survival()} {
		for _, n := range set {
			if n < 0 || n > maxDegree {
				return errors.Wrapf(core.ErrConfiguration, "rule %s uses neighbour count %d, topology allows 0..%d", r, n, maxDegree)
			}
		}
	}
	return nil
}

// String formats the rule as B…/S… with a trailing /N for Generations rules.
// Counts above 9 switch the lists to comma separated form.
func (r Rule) String() string {
	s := "B" + join(r.Birth()) + "/S" + join(r.Survival())
	if r.states > 2 {
		s += "/" + strconv.Itoa(r.states)
	}
	return s
}

// ParseRule reads "B3/S23", "b36/s23", "B2/S/3" or, for counts above 9,
// "B4/S4,5,6,10". A bare number or C/G prefixed number sets the state count.
func ParseRule(s string) (Rule, error) {
	var birth, survival []int
	states := 2
	seenB := false
	for _, part := range strings.Split(strings.TrimSpace(s), "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var err error
		switch part[0] {
		case 'B', 'b':
			birth, err = counts(part[1:])
			seenB = true
		case 'S', 's':
			survival, err = counts(part[1:])
		case 'C', 'c', 'G', 'g':
			states, err = strconv.Atoi(part[1:])
		default:
			states, err = strconv.Atoi(part)
		}
		if err != nil {
			return Rule{}, errors.Wrapf(core.ErrConfiguration, "rule %q: %v", s, err)
		}
	}
	if !seenB {
		return Rule{}, errors.Wrapf(core.ErrConfiguration, "rule %q has no birth section", s)
	}
	return NewRule(birth, survival, states), nil
}

func counts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ",") {
		var out []int
		for _, f := range strings.Split(s, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	}
	out := make([]int, 0, len(s))
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return nil, errors.Errorf("unexpected %q in count list", ch)
		}
		out = append(out, int(ch-'0'))
	}
	return out, nil
}

func ints(set *treeset.Set) []int {
	if set == nil {
		return nil
	}
	vals := set.Values()
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = v.(int)
	}
	return out
}

func join(ns []int) string {
	wide := false
	for _, n := range ns {
		if n > 9 {
			wide = true
		}
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	if wide {
		return strings.Join(parts, ",")
	}
	return strings.Join(parts, "")
}

package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// FillBinary sets each value to 1 with probability p and 0 otherwise.
func (r *RNG) FillBinary(buf []int32, p float64) {
	for i := range buf {
		buf[i] = 0
		if r.r.Float64() < p {
			buf[i] = 1
		}
	}
}

// FillUniform draws every value uniformly from [lo, hi]. The whole int32
// range is allowed.
func (r *RNG) FillUniform(buf []int32, lo, hi int32) {
	if hi < lo {
		lo, hi = hi, lo
	}
	span := int64(hi) - int64(lo) + 1
	for i := range buf {
		buf[i] = int32(int64(lo) + r.r.Int64N(span))
	}
}

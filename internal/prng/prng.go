// Package prng provides the seeded linear congruential generator used to
// pick initial and replacement centroids. It is deliberately tiny and
// reproducible: the same seed always yields the same sequence.
package prng

const (
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// LCG is a linear congruential generator. The zero value is ready to use
// and starts from seed 0. An LCG is not safe for concurrent use; give each
// run its own.
type LCG struct {
	seed int64
}

// New returns a generator starting at seed, reduced into [0, modulus).
func New(seed int64) *LCG {
	seed %= modulus
	if seed < 0 {
		seed += modulus
	}
	return &LCG{seed: seed}
}

// Next advances the state and returns a value in [0, 1).
func (g *LCG) Next() float64 {
	g.seed = (g.seed*multiplier + increment) % modulus
	return float64(g.seed) / modulus
}

// Intn returns floor(Next() * n). n must be positive.
func (g *LCG) Intn(n int) int {
	return int(g.Next() * float64(n))
}

// Seed reports the current state.
func (g *LCG) Seed() int64 {
	return g.seed
}

package engine

import "math/rand"

// RNG is the session's deterministic random source. Nothing in the
// simulation depends on it; it only varies presentation such as which
// footstep sample plays.
type RNG struct {
	seed int64
	src  *rand.Rand
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.src.Intn(sides) + 1
}

// Pick returns a random element of options. options must be non-empty.
func (r *RNG) Pick(options []string) string {
	return options[r.Roll(len(options))-1]
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 { return r.seed }

package random

import (
	"math/rand"

	"github.com/db47h/rand64/v3/xoshiro"
)

// NewSource returns a xoshiro256** source seeded with seed. A zero seed is
// replaced with a cryptographically random one.
func NewSource(seed int64) rand.Source64 {
	if seed == 0 {
		seed = NewSeed()
	}
	src := &xoshiro.Rng256SS{}
	src.Seed(seed)
	return src
}

// NewRand wraps NewSource in a *rand.Rand.
func NewRand(seed int64) *rand.Rand {
	return rand.New(NewSource(seed))
}

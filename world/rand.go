package world

import "math/rand/v2"

// newRand returns a PCG source seeded from a single value so that a seed
// reproduces a world exactly.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

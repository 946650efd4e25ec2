package util

import "math/rand"

// New returns a seeded source. Seed 0 is remapped to 1 so "unset" still replays.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Derive spreads batch runs across distinct seeds.
func Derive(seed int64, worker, run int) int64 {
	return seed + int64(worker)*7919 + int64(run)
}

// Range draws uniformly from [lo, hi). hi <= lo returns lo.
func Range(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

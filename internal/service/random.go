package service

import "math/rand/v2"

// Rand is the random source used by the generators. Float64 returns a value in [0, 1).
type Rand interface {
	Float64() float64
}

// math/rand/v2 전역 함수는 goroutine-safe
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// uniform draws from [lo, hi).
func uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// signedUnit draws from [-1, 1).
func signedUnit(r Rand) float64 {
	return 2*r.Float64() - 1
}

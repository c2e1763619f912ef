// Package dice provides the randomness abstraction shared by the combat core,
// the enemy policy and content generation.
package dice

import "math"

// Source is the randomness provider for every draw made by the engine.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int

	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// Uniform returns lo + u*span where u is drawn from src.
//
// Precondition: src must be non-nil; span >= 0.
// Postcondition: lo <= result < lo+span (result == lo when span == 0).
func Uniform(src Source, lo, span float64) float64 {
	return lo + src.Float64()*span
}

// Chance draws once from src and reports whether the draw fell below p.
//
// Precondition: src must be non-nil.
// Postcondition: exactly one value is drawn from src, regardless of p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Floor truncates v toward negative infinity and returns it as an int.
func Floor(v float64) int {
	return int(math.Floor(v))
}

// Between returns a random int in [lo, hi].
//
// Precondition: hi >= lo.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

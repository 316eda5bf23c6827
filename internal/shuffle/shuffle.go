// Package shuffle provides the per-session randomization used for question
// and option order. The rand source is injected so shuffle behavior is
// deterministic under test.
package shuffle

import "math/rand"

// Permute returns a uniformly random permutation of in (Fisher–Yates). The
// input slice is never mutated; a session keeps the returned order for its
// whole lifetime.
func Permute[T any](rng *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

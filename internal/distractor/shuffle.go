package distractor

import "math/rand/v2"

// Shuffle returns a new slice holding a uniform random permutation of s.
// The input is never modified.
func Shuffle[T any](s []T) []T {
	return shuffleWith(rand.IntN, s)
}

// shuffleWith runs a Fisher-Yates shuffle using intn as the random source.
// intn(n) must return a value in [0, n).
func shuffleWith[T any](intn func(int) int, s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

package mutator

import "math/rand"

// choose picks one element from a sequence of unknown length, seen one item
// at a time via next (which returns ok=false once exhausted), using
// reservoir sampling (1-in-n replacement) so the whole sequence need not be
// materialised and exactly one RNG draw is spent per element. ok is false
// if the sequence was empty.
func choose[T any](rng *rand.Rand, next func() (T, bool)) (T, bool) {
	var picked T
	var ok bool
	n := 0
	for {
		v, more := next()
		if !more {
			break
		}
		n++
		if rng.Intn(n) == 0 {
			picked = v
			ok = true
		}
	}
	return picked, ok
}

// chooseSlice is choose specialised to an in-memory slice.
func chooseSlice[T any](rng *rand.Rand, items []T) (T, bool) {
	i := 0
	return choose(rng, func() (T, bool) {
		if i >= len(items) {
			var zero T
			return zero, false
		}
		v := items[i]
		i++
		return v, true
	})
}

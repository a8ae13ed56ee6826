package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// Result is the outcome of a single Mutate call.
type Result int

const (
	Mutated Result = iota
	Skipped
)

// Mutator takes (rng, chain) and either mutates chain in place and reports
// Mutated, or reports Skipped when it finds nothing to act on — it never
// returns an error for "nothing to do", only for a genuinely invalid chain.
type Mutator interface {
	Mutate(rng *rand.Rand, chain *input.Chain) (Result, error)
}

// MutateFunc adapts a plain function to the Mutator interface.
type MutateFunc func(rng *rand.Rand, chain *input.Chain) (Result, error)

// Mutate implements Mutator.
func (f MutateFunc) Mutate(rng *rand.Rand, chain *input.Chain) (Result, error) { return f(rng, chain) }

// Apply runs m against chain and, on a successful mutation, repairs any
// reference broken by the edit (fixBrokenReferences) before returning.
// Debug builds additionally call chain.AssertValid(name) to catch an
// invariant breach immediately rather than downstream.
func Apply(name string, m Mutator, rng *rand.Rand, chain *input.Chain) (Result, error) {
	result, err := m.Mutate(rng, chain)
	if err != nil || result == Skipped {
		return result, err
	}
	fixBrokenReferences(rng, chain)
	assertValidDebug(chain, name)
	return Mutated, nil
}

package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// DuplicateRequest clones request i and inserts the clone at i+1; every
// Reference{r, a} with r > i is incremented so it keeps pointing at the same
// logical request, satisfying P6.
func DuplicateRequest() Mutator {
	return MutateFunc(func(rng *rand.Rand, chain *input.Chain) (Result, error) {
		if len(chain.Requests) == 0 {
			return Skipped, nil
		}
		i := rng.Intn(len(chain.Requests))
		shiftReferences(chain, func(r int) (int, bool) {
			if r > i {
				return r + 1, true
			}
			return r, true
		})

		clone := chain.Requests[i].Clone()
		requests := make([]*input.Request, 0, len(chain.Requests)+1)
		requests = append(requests, chain.Requests[:i+1]...)
		requests = append(requests, clone)
		requests = append(requests, chain.Requests[i+1:]...)
		chain.Requests = requests
		return Mutated, nil
	})
}

// shiftReferences rewrites every Reference{r, a} in the chain's parameter
// and body values to Reference{remap(r), a}; remap returning keep=false
// leaves the reference untouched (used by mutators that only shift a subset
// of indices).
func shiftReferences(chain *input.Chain, remap func(r int) (newR int, keep bool)) {
	for _, req := range chain.Requests {
		input.MapRequestReferences(req, func(ref input.Reference) input.Value {
			newR, keep := remap(ref.RequestIndex)
			if !keep {
				return input.RefValue(ref.RequestIndex, ref.Access)
			}
			return input.RefValue(newR, ref.Access)
		})
	}
}

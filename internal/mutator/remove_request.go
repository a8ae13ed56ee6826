package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// RemoveRequest removes request i (only when the chain has at least two
// requests): References to i are broken (replaced by random bytes) and
// references with r > i are decremented, satisfying P7.
func RemoveRequest() Mutator {
	return MutateFunc(func(rng *rand.Rand, chain *input.Chain) (Result, error) {
		if len(chain.Requests) < 2 {
			return Skipped, nil
		}
		i := rng.Intn(len(chain.Requests))

		for _, req := range chain.Requests {
			input.MapRequestReferences(req, func(ref input.Reference) input.Value {
				switch {
				case ref.RequestIndex == i:
					return input.Bytes(randomBytes(rng, 8))
				case ref.RequestIndex > i:
					return input.RefValue(ref.RequestIndex-1, ref.Access)
				default:
					return input.RefValue(ref.RequestIndex, ref.Access)
				}
			})
		}

		chain.Requests = append(chain.Requests[:i:i], chain.Requests[i+1:]...)
		return Mutated, nil
	})
}

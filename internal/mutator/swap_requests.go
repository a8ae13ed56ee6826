package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// SwapRequests swaps requests i and j: references targeting i or j swap
// with them, and any reference that would become forward-pointing as a
// result is broken.
func SwapRequests() Mutator {
	return MutateFunc(func(rng *rand.Rand, chain *input.Chain) (Result, error) {
		if len(chain.Requests) < 2 {
			return Skipped, nil
		}
		i := rng.Intn(len(chain.Requests))
		j := rng.Intn(len(chain.Requests))
		if i == j {
			return Skipped, nil
		}

		for _, req := range chain.Requests {
			input.MapRequestReferences(req, func(ref input.Reference) input.Value {
				switch ref.RequestIndex {
				case i:
					return input.RefValue(j, ref.Access)
				case j:
					return input.RefValue(i, ref.Access)
				default:
					return input.RefValue(ref.RequestIndex, ref.Access)
				}
			})
		}

		chain.Requests[i], chain.Requests[j] = chain.Requests[j], chain.Requests[i]

		for pos, req := range chain.Requests {
			input.MapRequestReferences(req, func(ref input.Reference) input.Value {
				if ref.RequestIndex >= pos {
					return input.Bytes(randomBytes(rng, 8))
				}
				return input.RefValue(ref.RequestIndex, ref.Access)
			})
		}
		return Mutated, nil
	})
}

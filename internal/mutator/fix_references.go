package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// fixBrokenReferences walks every Reference in chain and replaces any whose
// target index is no longer a valid backward reference (out of range, or
// pointing at or after its own containing request) with random bytes,
// restoring invariant I1 after a structural edit.
func fixBrokenReferences(rng *rand.Rand, chain *input.Chain) {
	for i, r := range chain.Requests {
		input.MapRequestReferences(r, func(ref input.Reference) input.Value {
			if ref.RequestIndex < 0 || ref.RequestIndex >= i || ref.RequestIndex >= len(chain.Requests) {
				return input.Bytes(randomBytes(rng, 8))
			}
			return input.RefValue(ref.RequestIndex, ref.Access)
		})
	}
}

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/examples"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// AddRequest appends a randomly-chosen operation from doc to the chain,
// with its parameters filled from the example synthesiser.
func AddRequest(doc *openapi.Document) Mutator {
	return MutateFunc(func(rng *rand.Rand, chain *input.Chain) (Result, error) {
		ops := doc.Operations()
		if len(ops) == 0 {
			return Skipped, nil
		}
		op := ops[rng.Intn(len(ops))]
		reqs, err := examples.Synthesize(op, doc.Components, nil)
		if err != nil || len(reqs) == 0 {
			return Skipped, nil
		}
		chain.Requests = append(chain.Requests, reqs[rng.Intn(len(reqs))])
		return Mutated, nil
	})
}

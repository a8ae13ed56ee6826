package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/examples"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// DifferentPath replaces one request's (path, method) with another valid
// pair from the spec, re-deriving its parameter set: values are reused when
// the (kind, name) key matches the new operation, otherwise freshly
// randomised.
func DifferentPath(doc *openapi.Document) Mutator {
	return MutateFunc(func(rng *rand.Rand, chain *input.Chain) (Result, error) {
		ops := doc.Operations()
		if len(chain.Requests) == 0 || len(ops) < 2 {
			return Skipped, nil
		}
		idx := rng.Intn(len(chain.Requests))
		old := chain.Requests[idx]

		candidates := make([]*openapi.Operation, 0, len(ops))
		for _, op := range ops {
			if op.PathTemplate != old.PathTemplate {
				candidates = append(candidates, op)
			}
		}
		if len(candidates) == 0 {
			return Skipped, nil
		}
		op := candidates[rng.Intn(len(candidates))]

		reqs, err := examples.Synthesize(op, doc.Components, nil)
		if err != nil || len(reqs) == 0 {
			return Skipped, nil
		}
		replacement := reqs[rng.Intn(len(reqs))]
		for key, v := range old.Parameters {
			if _, ok := replacement.Parameters[key]; ok {
				replacement.Parameters[key] = v
			}
		}
		chain.Requests[idx] = replacement
		return Mutated, nil
	})
}

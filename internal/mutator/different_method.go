package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// MethodMutationStrategy selects how DifferentMethod picks a replacement
// method for a request's existing path.
type MethodMutationStrategy int

const (
	FollowSpec MethodMutationStrategy = iota
	Common5
	Common7
)

var common5 = []openapi.Method{
	openapi.MethodGet, openapi.MethodPost, openapi.MethodPut,
	openapi.MethodDelete, openapi.MethodPatch,
}

var common7 = append(append([]openapi.Method{}, common5...),
	openapi.MethodHead, openapi.MethodOptions)

// DifferentMethod replaces one request's method in place, keeping its path
// template, according to strategy:
//   - FollowSpec picks among methods the spec actually declares for that path.
//   - Common5/Common7 pick among a fixed common-verb set regardless of spec
//     declaration, exercising undeclared-method handling in the validator.
func DifferentMethod(doc *openapi.Document, strategy MethodMutationStrategy) Mutator {
	return MutateFunc(func(rng *rand.Rand, chain *input.Chain) (Result, error) {
		if len(chain.Requests) == 0 {
			return Skipped, nil
		}
		idx := rng.Intn(len(chain.Requests))
		req := chain.Requests[idx]

		var pool []openapi.Method
		switch strategy {
		case Common5:
			pool = common5
		case Common7:
			pool = common7
		default:
			for _, op := range doc.OperationsForPath(req.PathTemplate) {
				pool = append(pool, op.Method)
			}
		}

		candidates := make([]openapi.Method, 0, len(pool))
		for _, m := range pool {
			if m != req.Method {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) == 0 {
			return Skipped, nil
		}
		req.Method = candidates[rng.Intn(len(candidates))]
		return Mutated, nil
	})
}

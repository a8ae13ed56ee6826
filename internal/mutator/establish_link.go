package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramaccess"
)

type linkCandidate struct {
	requestIndex int
	key          input.ParameterKey
	source       int
	access       paramaccess.ParameterAccess
}

// EstablishLink enumerates (request, parameter) pairs whose parameter name
// matches a field declared in some earlier request's operation's JSON
// response schema, picks one uniformly, and installs a Reference there.
func EstablishLink(doc *openapi.Document) Mutator {
	return MutateFunc(func(rng *rand.Rand, chain *input.Chain) (Result, error) {
		var candidates []linkCandidate
		for i, req := range chain.Requests {
			for key, v := range req.Parameters {
				if v.Kind == input.KindReference {
					continue
				}
				for earlier := 0; earlier < i; earlier++ {
					earlierReq := chain.Requests[earlier]
					if !responseDeclaresField(doc, earlierReq.Method, earlierReq.PathTemplate, key.Name) {
						continue
					}
					candidates = append(candidates, linkCandidate{
						requestIndex: i,
						key:          key,
						source:       earlier,
						access:       paramaccess.NewBody(paramaccess.Name(key.Name)),
					})
				}
			}
		}

		chosen, ok := chooseSlice(rng, candidates)
		if !ok {
			return Skipped, nil
		}
		chain.Requests[chosen.requestIndex].Parameters[chosen.key] = input.RefValue(chosen.source, chosen.access)
		return Mutated, nil
	})
}

// responseDeclaresField reports whether the operation at (method,
// pathTemplate) declares a JSON response (any status code) whose top-level
// schema has a property named field.
func responseDeclaresField(doc *openapi.Document, method openapi.Method, pathTemplate, field string) bool {
	op, ok := doc.FindOperation(method, pathTemplate)
	if !ok || op.Responses == nil {
		return false
	}
	for _, status := range op.Responses.Keys() {
		resp, ok := op.Responses.Get(status)
		if !ok || resp == nil || resp.Content == nil {
			continue
		}
		media, ok := resp.Content.Get("application/json")
		if !ok || media == nil || media.Schema == nil || media.Schema.Properties == nil {
			continue
		}
		if _, ok := media.Schema.Properties.Get(field); ok {
			return true
		}
	}
	return false
}

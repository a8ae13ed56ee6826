package examples

import (
	"sort"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

const BodyKey = "\x00body"

// Synthesize produces the bounded Cartesian product of concrete requests for
// op forcedSingleValued holds the ParameterKey.String (or BodyKey) of
// parameters the dependency graph has marked as reference targets for this
// operation; those are forced to a single variant because their concrete
// value will be overwritten by InstallReferences.
func Synthesize(op *openapi.Operation, components *openapi.Components, forcedSingleValued map[string]bool) ([]*input.Request, error) {
	variantsByKey := make(map[string][]any)
	accessByKey := make(map[string]input.ParameterKey)

	for _, p := range op.Parameters {
		resolved, err := components.ResolveParameter(p)
		if err != nil {
			return nil, err
		}
		key := input.ParameterKey{In: resolved.In, Name: resolved.Name}
		keyStr := key.In.String() + "|" + key.Name
		values, err := GenerateValues(resolved.Schema, components)
		if err != nil {
			return nil, err
		}
		if forcedSingleValued[keyStr] && len(values) > 1 {
			values = values[:1]
		}
		generic := make([]any, len(values))
		for i, v := range values {
			generic[i] = v
		}
		variantsByKey[keyStr] = generic
		accessByKey[keyStr] = key
	}

	variant, bodyValue, bodyErr := bodyVariantAndValues(op, components, forcedSingleValued[BodyKey])
	if bodyErr != nil {
		return nil, bodyErr
	}
	if len(bodyValue) > 0 {
		generic := make([]any, len(bodyValue))
		for i, v := range bodyValue {
			generic[i] = v
		}
		variantsByKey[BodyKey] = generic
	}

	bounded := boundVariants(variantsByKey)
	keys := sortedKeys(bounded)

	if totalCombinations(bounded) > maxChainCombinations {
		fallback := make(map[string][]any, len(bounded))
		for k, vs := range bounded {
			if len(vs) > 0 {
				fallback[k] = vs[:1]
			}
		}
		bounded = fallback
	}

	combos := cartesianProduct(keys, bounded)

	requests := make([]*input.Request, 0, len(combos))
	for _, combo := range combos {
		req := input.NewRequest(op.Method, op.PathTemplate)
		req.Body = variant
		if v, ok := combo[BodyKey]; ok {
			req.BodyValue = v.(input.Value)
		}
		for keyStr, key := range accessByKey {
			if v, ok := combo[keyStr]; ok {
				req.Parameters[key] = v.(input.Value)
			}
		}
		requests = append(requests, req)
	}
	if len(requests) == 0 {
		requests = append(requests, input.NewRequest(op.Method, op.PathTemplate))
	}
	return requests, nil
}

func bodyVariantAndValues(op *openapi.Operation, components *openapi.Components, forcedSingle bool) (input.BodyVariant, []input.Value, error) {
	if op.RequestBody == nil || op.RequestBody.Content == nil || op.RequestBody.Content.Len() == 0 {
		return input.BodyEmpty, nil, nil
	}
	for _, kv := range op.RequestBody.Content.Items {
		variant := mediaTypeVariant(kv.Key)
		values, err := GenerateValues(kv.Value.Schema, components)
		if err != nil {
			return input.BodyEmpty, nil, err
		}
		if forcedSingle && len(values) > 1 {
			values = values[:1]
		}
		return variant, values, nil
	}
	return input.BodyEmpty, nil, nil
}

func mediaTypeVariant(contentType string) input.BodyVariant {
	switch contentType {
	case "application/json":
		return input.BodyApplicationJSON
	case "application/x-www-form-urlencoded":
		return input.BodyFormURLEncoded
	case "text/plain":
		return input.BodyTextPlain
	default:
		return input.BodyApplicationJSON
	}
}

func sortedKeys(m map[string][]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

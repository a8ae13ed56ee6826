package examples

import "math"

// maxChainCombinations is the chain-wide cap: above this many total
// combinations, synthesis falls back to one example per operation.
const maxChainCombinations = 10000

// MaxChainCombinations exposes maxChainCombinations for callers outside
// this package that compute the same cap over a different key space (the
// seed-chain generator applies it across a component's operations, rather
// than across one operation's own parameters).
const MaxChainCombinations = maxChainCombinations

// TotalCombinations exports totalCombinations for reuse by callers that
// need the identical saturating-product cap check over their own
// variantsByKey.
func TotalCombinations(variantsByKey map[string][]any) int {
	return totalCombinations(variantsByKey)
}

// CartesianProduct exports cartesianProduct for reuse by callers that need
// the identical combination expansion over their own variantsByKey.
func CartesianProduct(keys []string, variantsByKey map[string][]any) []map[string]any {
	return cartesianProduct(keys, variantsByKey)
}

// perParameterCap returns the per-parameter variant cap floor(100^(1/m))
// for m non-single-valued parameters. m<=0 returns 1 without evaluating the
// exponent, avoiding a divide-by-zero.
func perParameterCap(m int) int {
	if m <= 0 {
		return 1
	}
	cap := math.Floor(math.Pow(100, 1/float64(m)))
	if cap < 1 {
		cap = 1
	}
	return int(cap)
}

// boundVariants truncates each variant slice in variantsByKey to at most
// perParameterCap(m) entries, where m is the number of keys whose slice has
// more than one variant (non-single-valued).
func boundVariants(variantsByKey map[string][]any) map[string][]any {
	m := 0
	for _, vs := range variantsByKey {
		if len(vs) > 1 {
			m++
		}
	}
	cap := perParameterCap(m)
	out := make(map[string][]any, len(variantsByKey))
	for k, vs := range variantsByKey {
		if len(vs) > cap {
			vs = vs[:cap]
		}
		out[k] = vs
	}
	return out
}

// totalCombinations is the product of len(vs) over variantsByKey. It stops
// multiplying as soon as the running product exceeds maxChainCombinations and
// returns that partial product, which avoids overflow on wide operations; the
// result is exact only up to the cap.
func totalCombinations(variantsByKey map[string][]any) int {
	total := 1
	for _, vs := range variantsByKey {
		if len(vs) == 0 {
			continue
		}
		total *= len(vs)
		if total > maxChainCombinations {
			return total
		}
	}
	return total
}

// cartesianProduct expands variantsByKey into every combination, each
// represented as a map from key to the chosen variant. Key iteration order
// is stabilised by the caller-supplied keys slice so results are
// deterministic across runs.
func cartesianProduct(keys []string, variantsByKey map[string][]any) []map[string]any {
	combos := []map[string]any{{}}
	for _, k := range keys {
		values := variantsByKey[k]
		if len(values) == 0 {
			continue
		}
		var next []map[string]any
		for _, combo := range combos {
			for _, v := range values {
				extended := make(map[string]any, len(combo)+1)
				for ck, cv := range combo {
					extended[ck] = cv
				}
				extended[k] = v
				next = append(next, extended)
			}
		}
		combos = next
	}
	return combos
}

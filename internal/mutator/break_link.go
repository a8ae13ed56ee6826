package mutator

import (
	"math/rand"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

type refSite struct {
	requestIndex int
	set          func(input.Value)
}

func collectReferenceSites(chain *input.Chain) []refSite {
	var sites []refSite
	for i, req := range chain.Requests {
		idx := i
		for key := range req.Parameters {
			k := key
			if req.Parameters[k].Kind == input.KindReference {
				sites = append(sites, refSite{requestIndex: idx, set: func(v input.Value) { req.Parameters[k] = v }})
			}
		}
		collectBodyReferenceSites(&req.BodyValue, idx, &sites)
	}
	return sites
}

func collectBodyReferenceSites(v *input.Value, requestIndex int, sites *[]refSite) {
	switch v.Kind {
	case input.KindReference:
		target := v
		*sites = append(*sites, refSite{requestIndex: requestIndex, set: func(nv input.Value) { *target = nv }})
	case input.KindObject:
		if v.Object == nil {
			return
		}
		for i := range v.Object.Values {
			collectBodyReferenceSites(&v.Object.Values[i], requestIndex, sites)
		}
	case input.KindArray:
		for i := range v.Array {
			collectBodyReferenceSites(&v.Array[i], requestIndex, sites)
		}
	}
}

// BreakLink picks one Reference uniformly across the whole chain and
// replaces it with random bytes.
func BreakLink() Mutator {
	return MutateFunc(func(rng *rand.Rand, chain *input.Chain) (Result, error) {
		sites := collectReferenceSites(chain)
		site, ok := chooseSlice(rng, sites)
		if !ok {
			return Skipped, nil
		}
		site.set(input.Bytes(randomBytes(rng, 8)))
		return Mutated, nil
	})
}

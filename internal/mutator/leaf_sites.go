package mutator

import "github.com/TNO-S3/wuppiefuzz/internal/input"

// leafSite is a mutable handle to one scalar leaf value (Null, Bool,
// Number, String or Bytes) reachable from a chain — never a Reference,
// which byte-level mutators must leave alone.
type leafSite struct {
	get func() input.Value
	set func(input.Value)
}

func collectLeafSites(chain *input.Chain) []leafSite {
	var sites []leafSite
	for _, req := range chain.Requests {
		for key := range req.Parameters {
			k := key
			if isLeaf(req.Parameters[k]) {
				sites = append(sites, leafSite{
					get: func() input.Value { return req.Parameters[k] },
					set: func(v input.Value) { req.Parameters[k] = v },
				})
			}
		}
		collectBodyLeafSites(&req.BodyValue, &sites)
	}
	return sites
}

func collectBodyLeafSites(v *input.Value, sites *[]leafSite) {
	switch v.Kind {
	case input.KindObject:
		if v.Object == nil {
			return
		}
		for i := range v.Object.Values {
			collectBodyLeafSites(&v.Object.Values[i], sites)
		}
	case input.KindArray:
		for i := range v.Array {
			collectBodyLeafSites(&v.Array[i], sites)
		}
	case input.KindReference:
		return
	default:
		target := v
		*sites = append(*sites, leafSite{
			get: func() input.Value { return *target },
			set: func(nv input.Value) { *target = nv },
		})
	}
}

func isLeaf(v input.Value) bool {
	switch v.Kind {
	case input.KindNull, input.KindBool, input.KindNumber, input.KindString, input.KindBytes:
		return true
	default:
		return false
	}
}

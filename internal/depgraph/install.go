package depgraph

import (
	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// InstallReferences walks every edge in the component whose source strictly
// precedes its target in positions (the request-index map built by the
// caller from Component.Order) and overwrites the target request's
// parameter at the matching input access with a back-Reference to the
// source, guaranteeing invariant I1 by construction. positions maps a graph
// node index to its index in chain.Requests; it is supplied by the caller
// (the seed-chain builder in internal/fuzzer) once concrete requests have
// been synthesised for every node in Component.Order.
func (g *Graph) InstallReferences(chain *input.Chain, component Component, positions map[int]int) {
	for _, srcNode := range component.Order {
		srcPos, ok := positions[srcNode]
		if !ok {
			continue
		}
		for _, e := range g.adj[srcNode] {
			tgtPos, ok := positions[e.To]
			if !ok || tgtPos <= srcPos {
				continue
			}
			installOne(chain, srcPos, tgtPos, e.Matching)
		}
	}
}

func installOne(chain *input.Chain, srcPos, tgtPos int, m ParameterMatching) {
	target := chain.Requests[tgtPos]
	ref := input.RefValue(srcPos, m.OutputAccess)

	if m.InputAccess.IsLeaf() {
		for key := range target.Parameters {
			if inToKind(key.In) == m.InputAccess.Kind && key.Name == m.InputAccess.Name {
				target.Parameters[key] = ref
				return
			}
		}
		return
	}

	if cursor, ok := input.ResolveMut(&target.BodyValue, m.InputAccess); ok {
		cursor.Set(ref)
	}
}

package fuzzer

import (
	"strconv"

	"github.com/TNO-S3/wuppiefuzz/internal/depgraph"
	"github.com/TNO-S3/wuppiefuzz/internal/examples"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramaccess"
)

// BuildSeedChains assembles the initial corpus: one dependency graph per
// doc, and for each connected component the full Cartesian product of its
// operations' synthesised requests, one chain per combination. A component
// whose combination count exceeds examples.MaxChainCombinations falls back
// to a single chain built from each operation's first synthesised request.
func BuildSeedChains(doc *openapi.Document) ([]*input.Chain, error) {
	g := depgraph.Build(doc)

	var chains []*input.Chain
	for _, component := range g.Components() {
		componentChains, err := buildComponentChains(g, doc, component)
		if err != nil {
			return nil, err
		}
		chains = append(chains, componentChains...)
	}
	return chains, nil
}

func buildComponentChains(g *depgraph.Graph, doc *openapi.Document, component depgraph.Component) ([]*input.Chain, error) {
	positions := make(map[int]int, len(component.Order))
	for pos, nodeIdx := range component.Order {
		positions[nodeIdx] = pos
	}

	variantsByNode := make(map[int][]*input.Request, len(component.Order))
	for _, nodeIdx := range component.Order {
		node := g.Nodes[nodeIdx]
		forced := forcedSingleValued(g, nodeIdx)
		requests, err := examples.Synthesize(node.Operation, doc.Components, forced)
		if err != nil {
			return nil, err
		}
		variantsByNode[nodeIdx] = requests
	}

	keys := make([]string, len(component.Order))
	variantsByKey := make(map[string][]any, len(component.Order))
	for i, nodeIdx := range component.Order {
		key := nodeKey(nodeIdx)
		keys[i] = key
		requests := variantsByNode[nodeIdx]
		values := make([]any, len(requests))
		for j, r := range requests {
			values[j] = r
		}
		variantsByKey[key] = values
	}

	if examples.TotalCombinations(variantsByKey) > examples.MaxChainCombinations {
		canonical := input.NewChain(requestsAtIndex(component.Order, variantsByNode, 0)...)
		g.InstallReferences(canonical, component, positions)
		return []*input.Chain{canonical}, nil
	}

	combos := examples.CartesianProduct(keys, variantsByKey)
	chains := make([]*input.Chain, 0, len(combos))
	for _, combo := range combos {
		requests := make([]*input.Request, len(component.Order))
		for pos, nodeIdx := range component.Order {
			req := combo[nodeKey(nodeIdx)].(*input.Request)
			requests[pos] = req.Clone()
		}
		chain := input.NewChain(requests...)
		g.InstallReferences(chain, component, positions)
		chains = append(chains, chain)
	}
	return chains, nil
}

func nodeKey(nodeIdx int) string { return strconv.Itoa(nodeIdx) }

func requestsAtIndex(order []int, variantsByNode map[int][]*input.Request, idx int) []*input.Request {
	requests := make([]*input.Request, len(order))
	for pos, nodeIdx := range order {
		variants := variantsByNode[nodeIdx]
		chosen := variants[0]
		if idx < len(variants) {
			chosen = variants[idx]
		}
		requests[pos] = chosen.Clone()
	}
	return requests
}

// forcedSingleValued marks every parameter (or the body, as a whole) that
// some edge in g targets on nodeIdx, so examples.Synthesize does not waste
// combinatorial budget on a value InstallReferences will overwrite anyway.
func forcedSingleValued(g *depgraph.Graph, nodeIdx int) map[string]bool {
	forced := make(map[string]bool)
	for _, e := range g.Edges {
		if e.To != nodeIdx {
			continue
		}
		access := e.Matching.InputAccess
		if access.IsLeaf() {
			forced[nonBodyKeyString(access)] = true
		} else {
			forced[examples.BodyKey] = true
		}
	}
	return forced
}

func nonBodyKeyString(access paramaccess.ParameterAccess) string {
	return string(kindToIn(access.Kind)) + "|" + access.Name
}

func kindToIn(k paramaccess.Kind) openapi.In {
	switch k {
	case paramaccess.KindPath:
		return openapi.InPath
	case paramaccess.KindHeader:
		return openapi.InHeader
	case paramaccess.KindCookie:
		return openapi.InCookie
	default:
		return openapi.InQuery
	}
}

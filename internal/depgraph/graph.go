package depgraph

import (
	"github.com/rs/zerolog/log"

	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// Graph is the operation dependency graph built from a Document: one Node
// per operation plus the matching edges between them.
type Graph struct {
	Nodes []*Node
	Edges []Edge

	adj map[int][]Edge
}

// Build constructs the dependency graph for every operation in doc,
// following normalisation and edge-construction rules.
func Build(doc *openapi.Document) *Graph {
	ops := doc.Operations()
	g := &Graph{
		Nodes: make([]*Node, len(ops)),
		adj:   make(map[int][]Edge),
	}
	for i, op := range ops {
		g.Nodes[i] = buildNode(i, op, doc.Components)
	}

	for left := 0; left < len(g.Nodes); left++ {
		for right := 0; right < len(g.Nodes); right++ {
			if left == right {
				continue
			}
			if g.Nodes[right].Operation.Method.LessCRUD(g.Nodes[left].Operation.Method) {
				continue
			}
			for _, out := range g.Nodes[left].Outputs {
				for _, in := range g.Nodes[right].Inputs {
					if out.Key != in.Key {
						continue
					}
					e := Edge{
						From: left,
						To:   right,
						Matching: ParameterMatching{
							OutputAccess: out.Access,
							InputAccess:  in.Access,
							Normalized:   out.Key,
						},
					}
					g.Edges = append(g.Edges, e)
					g.adj[left] = append(g.adj[left], e)
				}
			}
		}
	}

	return g
}

// Component is one connected set of nodes, topologically sorted so that a
// provider always precedes every node it feeds.
type Component struct {
	Order []int // node indices, provider-before-consumer
}

// Components partitions the graph into connected components via union-find
// and topologically sorts each one. Components containing a cycle are
// logged and skipped
func (g *Graph) Components() []Component {
	uf := newUnionFind(len(g.Nodes))
	for _, e := range g.Edges {
		uf.union(e.From, e.To)
	}

	var out []Component
	for _, group := range uf.components(len(g.Nodes)) {
		order, err := topoSort(g.Nodes, group, g.adj)
		if err != nil {
			log.Warn().Err(err).Ints("component", group).Msg("depgraph: skipping cyclic component")
			continue
		}
		out = append(out, Component{Order: order})
	}
	return out
}

package depgraph

import (
	"fmt"
	"sort"
)

// CycleError reports a self-cycle detected during toposort; the containing
// component is skipped rather than failing the whole build.
type CycleError struct {
	Node int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("depgraph: cycle detected at node %d", e.Node)
}

// color marks a node's DFS visitation state for cycle detection: white
// (unvisited), gray (on the current path), black (finished).
type color int

const (
	white color = iota
	gray
	black
)

// topoSort orders the nodes in component (a slice of node indices) so that
// every edge among them points from earlier to later, breaking ties between
// equally-unordered nodes by CRUD method order. It returns a *CycleError if
// a self-cycle is found; the caller should log it and skip the component.
func topoSort(nodes []*Node, component []int, adj map[int][]Edge) ([]int, error) {
	in := make(map[int]bool, len(component))
	for _, idx := range component {
		in[idx] = true
	}

	colors := make(map[int]color, len(component))
	var order []int
	var err error

	var visit func(n int)
	visit = func(n int) {
		if err != nil {
			return
		}
		colors[n] = gray

		neighbors := append([]Edge(nil), adj[n]...)
		sort.SliceStable(neighbors, func(i, j int) bool {
			return nodes[neighbors[i].To].Operation.Method.LessCRUD(nodes[neighbors[j].To].Operation.Method)
		})

		for _, e := range neighbors {
			if !in[e.To] {
				continue
			}
			switch colors[e.To] {
			case white:
				visit(e.To)
				if err != nil {
					return
				}
			case gray:
				err = &CycleError{Node: e.To}
				return
			case black:
				continue
			}
		}
		colors[n] = black
		order = append(order, n)
	}

	sortedComponent := append([]int(nil), component...)
	sort.SliceStable(sortedComponent, func(i, j int) bool {
		return nodes[sortedComponent[i]].Operation.Method.LessCRUD(nodes[sortedComponent[j]].Operation.Method)
	})

	for _, n := range sortedComponent {
		if colors[n] == white {
			visit(n)
			if err != nil {
				return nil, err
			}
		}
	}

	// visit appends a node once all its dependencies are visited (post-order),
	// which is the reverse of a valid topological order.
	reversed := make([]int, len(order))
	for i, n := range order {
		reversed[len(order)-1-i] = n
	}
	return reversed, nil
}

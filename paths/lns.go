// Package paths - route-level large neighborhood search.
//
// RouteLNS relaxes one whole route per neighbor: every successor variable on
// the route is deactivated, and re-optimization of the freed nodes is left
// to the engine's nested sub-search wired by the orchestration layer.
package paths

import (
	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
	"github.com/katalvlaran/lvlsearch/operators"
)

// RouteLNS is a fragment-LNS operator whose fragments are whole routes of
// the synchronized solution, visited in path-start order.
type RouteLNS struct {
	*operators.FragmentLNS
	routes [][]int
	cursor int
}

// NewRouteLNS builds a route-relaxing LNS operator over the successor
// variables.
func NewRouteLNS(nexts []*engine.IntVar) *RouteLNS {
	r := &RouteLNS{}
	r.FragmentLNS = operators.NewFragmentLNS(nexts, r.nextRoute)

	return r
}

// Start synchronizes and rebuilds the route fragments from the snapshot.
func (r *RouteLNS) Start(snapshot *assignment.Assignment) {
	r.FragmentLNS.Start(snapshot)
	r.cursor = 0
	r.routes = r.routes[:0]

	n := r.Size()
	hasPred := make([]bool, n)
	var i int
	for i = 0; i < n; i++ {
		nxt := int(r.OldValue(i))
		if nxt != i && nxt < n {
			hasPred[nxt] = true
		}
	}
	var node, steps int
	for i = 0; i < n; i++ {
		if int(r.OldValue(i)) == i || hasPred[i] {
			continue
		}
		route := []int{}
		for node, steps = i, 0; node < n && steps <= n; steps++ {
			route = append(route, node)
			node = int(r.OldValue(node))
		}
		r.routes = append(r.routes, route)
	}
}

// nextRoute yields the successor-variable indices of the next route.
func (r *RouteLNS) nextRoute() ([]int, bool) {
	if r.cursor >= len(r.routes) {
		return nil, false
	}
	route := r.routes[r.cursor]
	r.cursor++

	return route, true
}

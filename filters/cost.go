// Package filters - incremental route-cost filter.
//
// PathCostFilter maintains the synchronized arc-cost total per route and
// accepts a delta only when the recomputed total over touched routes does
// not worsen the overall cost. It is the acceptance half of greedy descent
// factored as a filter; metaheuristics that accept worsening moves simply
// do not register it.
package filters

import (
	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
)

// PathCostFilter incrementally bounds the total arc cost of a solution.
type PathCostFilter struct {
	state     pathState
	arcCost   TransitFn
	routeCost map[int]int64 // start node -> synchronized route cost
	total     int64
}

// NewPathCostFilter builds a cost filter over the successor variables.
// A nil cost function panics.
func NewPathCostFilter(nexts []*engine.IntVar, arcCost TransitFn) *PathCostFilter {
	if arcCost == nil {
		panic("filters: nil cost function")
	}

	return &PathCostFilter{
		state:     newPathState(nexts),
		arcCost:   arcCost,
		routeCost: make(map[int]int64),
	}
}

// Total returns the synchronized total arc cost.
func (f *PathCostFilter) Total() int64 { return f.total }

// Synchronize rebuilds route structure and per-route cost totals.
func (f *PathCostFilter) Synchronize(snapshot *assignment.Assignment) {
	f.state.synchronize(snapshot)
	clear(f.routeCost)
	f.total = 0
	var start int
	for _, start = range f.state.starts {
		c := f.syncRouteCost(start)
		f.routeCost[start] = c
		f.total += c
	}
}

// Accept recomputes the cost of touched routes under the delta and accepts
// strict improvements only. Unknown successors (present-but-unbound) make
// the route - and hence the delta - conservatively acceptable.
//
// Complexity: O(total length of touched routes + touched-route-count²).
func (f *PathCostFilter) Accept(delta, deltadelta *assignment.Assignment) bool {
	touched := f.state.touchedRoutes(delta)
	if len(touched) == 0 {
		return true
	}
	newTotal := f.total
	var start int
	for _, start = range touched {
		c, known := f.deltaRouteCost(start, delta)
		if !known {
			return true
		}
		newTotal += c - f.routeCost[start]
	}

	return newTotal < f.total
}

// syncRouteCost sums arc costs along one synchronized route.
func (f *PathCostFilter) syncRouteCost(start int) int64 {
	n := len(f.state.nexts)
	cost := int64(0)
	node := start
	var steps int
	for steps = 0; steps <= n; steps++ {
		next := f.state.syncNext[node]
		cost += f.arcCost(int64(node), next)
		if next >= int64(n) {
			return cost
		}
		node = int(next)
	}

	return cost
}

// deltaRouteCost sums arc costs along one route under the delta.
func (f *PathCostFilter) deltaRouteCost(start int, delta *assignment.Assignment) (int64, bool) {
	n := len(f.state.nexts)
	cost := int64(0)
	node := start
	var steps int
	for steps = 0; steps <= n; steps++ {
		next, known := f.state.deltaNext(node, delta)
		if !known {
			return 0, false
		}
		if next == int64(node) {
			return cost, true
		}
		cost += f.arcCost(int64(node), next)
		if next >= int64(n) {
			return cost, true
		}
		node = int(next)
	}

	return cost, true
}

// Package filters - cumulative-quantity path filter.
//
// PathCumulFilter checks a per-node running aggregate (load, time, ...)
// along every route the delta touches. The running total is clamped upward
// to the node's allowed minimum at each step - this mirrors a
// constraint-propagation cumul relation, not a plain sum - and the route is
// rejected as soon as the total exceeds a node's allowed maximum.
//
// A touched successor that appears in the delta but is not bound (a
// partial/LNS-style delta) stops the walk with an accept: the route cannot
// yet be disproved, and the engine's confirmation pass has the final word.
package filters

import (
	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
)

// TransitFn returns the quantity accumulated when traversing the arc
// from -> to. It must be pure and side-effect free.
type TransitFn func(from, to int64) int64

// PathCumulFilter incrementally checks a cumulative quantity against
// per-node [min,max] bounds along touched routes.
type PathCumulFilter struct {
	state    pathState
	cumulMin []int64
	cumulMax []int64
	transit  TransitFn
}

// NewPathCumulFilter builds a cumulative filter over the successor
// variables. cumulMin/cumulMax are per-node bounds on the running quantity;
// mismatched array sizes or a nil transit function panic.
func NewPathCumulFilter(nexts []*engine.IntVar, cumulMin, cumulMax []int64, transit TransitFn) *PathCumulFilter {
	if transit == nil {
		panic("filters: nil TransitFn")
	}
	checkSizes("cumulMin", len(nexts), len(cumulMin))
	checkSizes("cumulMax", len(nexts), len(cumulMax))

	return &PathCumulFilter{
		state:    newPathState(nexts),
		cumulMin: cumulMin,
		cumulMax: cumulMax,
		transit:  transit,
	}
}

// Synchronize rebuilds route membership and synchronized successors from a
// known-good solution.
func (f *PathCumulFilter) Synchronize(snapshot *assignment.Assignment) {
	f.state.synchronize(snapshot)
}

// Accept walks every route the delta touches, following delta-proposed
// successors where bound and synchronized ones elsewhere, and rejects on the
// first node whose running quantity exceeds its maximum. Rejection leaves no
// retained state - all walk state is local.
//
// Complexity: O(total length of touched routes + touched-route-count²).
func (f *PathCumulFilter) Accept(delta, deltadelta *assignment.Assignment) bool {
	var start int
	for _, start = range f.state.touchedRoutes(delta) {
		if !f.acceptRoute(start, delta) {
			return false
		}
	}

	return true
}

// acceptRoute checks one route from its start node.
func (f *PathCumulFilter) acceptRoute(start int, delta *assignment.Assignment) bool {
	n := len(f.state.nexts)
	cum := int64(0)
	node := start
	var steps int
	for steps = 0; steps <= n; steps++ {
		if cum < f.cumulMin[node] {
			cum = f.cumulMin[node]
		}
		if cum > f.cumulMax[node] {
			return false
		}
		next, known := f.state.deltaNext(node, delta)
		if !known {
			// Present but unbound: conservatively not-yet-falsifiable.
			return true
		}
		if next >= int64(n) || next == int64(node) {
			// Path end, or a node the delta removed from every route.
			return true
		}
		cum += f.transit(int64(node), next)
		node = int(next)
	}

	// Step guard tripped: the proposed successors loop. The engine's
	// confirmation pass rejects such deltas; stay conservative here.
	return true
}

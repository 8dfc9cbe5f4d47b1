// Package search - operator wiring helpers.
//
// BuildPathOperators turns the Config neighborhood toggles into concrete
// path operators over one successor array, in a fixed canonical order, and
// NewGreedyRouteReoptimizer supplies a cheapest-arc nested sub-search for
// LNS fragment repair.
package search

import (
	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
	"github.com/katalvlaran/lvlsearch/filters"
	"github.com/katalvlaran/lvlsearch/operators"
	"github.com/katalvlaran/lvlsearch/paths"
)

// BuildPathOperators instantiates the neighborhoods cfg enables over the
// successor variables, in the fixed order relocate, 2-opt, exchange, cross,
// make-active, make-inactive, route-LNS.
func BuildPathOperators(nexts []*engine.IntVar, cfg Config) []operators.Operator {
	var ops []operators.Operator
	if cfg.EnableRelocate {
		ops = append(ops, paths.NewRelocate(nexts, cfg.RelocateChainLength))
	}
	if cfg.EnableTwoOpt {
		ops = append(ops, paths.NewTwoOpt(nexts))
	}
	if cfg.EnableExchange {
		ops = append(ops, paths.NewExchange(nexts))
	}
	if cfg.EnableCross {
		ops = append(ops, paths.NewCross(nexts))
	}
	if cfg.EnableMakeActive {
		ops = append(ops, paths.NewMakeActiveOperator(nexts))
	}
	if cfg.EnableMakeInactive {
		ops = append(ops, paths.NewMakeInactiveOperator(nexts))
	}
	if cfg.EnableLNS {
		ops = append(ops, paths.NewRouteLNS(nexts))
	}

	return ops
}

// NewGreedyRouteReoptimizer returns a ReoptimizeFn that rebuilds a relaxed
// route by cheapest-arc chaining: starting from the route head, it always
// appends the cheapest remaining relaxed node, then reconnects the original
// route end. It is the bounded nested sub-search stand-in for fragment
// repair; arcCost must match the filter/objective costs for the repair to
// be meaningful.
func NewGreedyRouteReoptimizer(nexts []*engine.IntVar, arcCost filters.TransitFn) ReoptimizeFn {
	index := make(map[*engine.IntVar]int, len(nexts))
	var i int
	for i = range nexts {
		index[nexts[i]] = i
	}

	return func(cand *assignment.Assignment, relaxed []*engine.IntVar) bool {
		n := len(nexts)
		// Map relaxed vars to node indices and recover the fragment's
		// original ordering via the candidate's recorded successors.
		nodes := make([]int, 0, len(relaxed))
		inFrag := make(map[int]bool, len(relaxed))
		var v *engine.IntVar
		for _, v = range relaxed {
			idx, ok := index[v]
			if !ok {
				return false
			}
			nodes = append(nodes, idx)
			inFrag[idx] = true
		}

		// The head is the relaxed node no other relaxed node points at; the
		// tail successor is wherever the fragment originally ended.
		head, tail := -1, int64(n)
		pointed := make(map[int]bool, len(nodes))
		var node int
		for _, node = range nodes {
			nxt := cand.Element(nexts[node]).Value()
			if nxt < int64(n) && inFrag[int(nxt)] {
				pointed[int(nxt)] = true
			} else {
				tail = nxt
			}
		}
		for _, node = range nodes {
			if !pointed[node] {
				head = node

				break
			}
		}
		if head < 0 {
			return false
		}

		// Cheapest-arc chaining from the head.
		remaining := make([]int, 0, len(nodes)-1)
		for _, node = range nodes {
			if node != head {
				remaining = append(remaining, node)
			}
		}
		cur := head
		for len(remaining) > 0 {
			bestAt := 0
			var k int
			for k = 1; k < len(remaining); k++ {
				if arcCost(int64(cur), int64(remaining[k])) < arcCost(int64(cur), int64(remaining[bestAt])) {
					bestAt = k
				}
			}
			nxt := remaining[bestAt]
			e := cand.Element(nexts[cur])
			e.SetValue(int64(nxt))
			e.Activate()
			remaining = append(remaining[:bestAt], remaining[bestAt+1:]...)
			cur = nxt
		}
		last := cand.Element(nexts[cur])
		last.SetValue(tail)
		last.Activate()
		// Reactivate the head in case nothing rewired it above.
		cand.Element(nexts[head]).Activate()

		return true
	}
}

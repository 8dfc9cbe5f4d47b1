// Package filters provides the local-search filter framework: given a
// sparse delta proposed by an operator, a filter accepts or rejects it in
// time proportional to the delta and the routes it touches, by maintaining
// incremental aggregates rebuilt only on Synchronize.
//
// Contract:
//
//	Synchronize(snapshot)  - rebuild the aggregate from a known-good
//	                         solution; called once per accepted move, so an
//	                         amortized O(n) rebuild is acceptable.
//	Accept(delta, dd)      - sub-linear verdict; must be side-effect-free on
//	                         rejection (scratch state only, recomputed on
//	                         the next Accept).
//
// Filters never mutate the variables under test. The search loop evaluates
// registered filters in a fixed order with short-circuit on first rejection.
package filters

import (
	"fmt"

	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
)

// Unassigned marks a node that belongs to no route.
const Unassigned = -1

// Filter is the acceptance contract consumed by the search loop.
type Filter interface {
	Synchronize(snapshot *assignment.Assignment)
	Accept(delta, deltadelta *assignment.Assignment) bool
}

// pathState is the synchronized route structure shared by path filters:
// per-node route membership (keyed by the route's start node) and the
// successor recorded at last synchronization.
type pathState struct {
	nexts    []*engine.IntVar
	index    map[*engine.IntVar]int
	syncNext []int64
	routeOf  []int // node -> start node of its route, Unassigned otherwise
	starts   []int
	touched  []int // scratch, reused across Accept calls
	hasPred  []bool
}

func newPathState(nexts []*engine.IntVar) pathState {
	n := len(nexts)
	if n == 0 {
		panic("filters: empty successor array")
	}
	index := make(map[*engine.IntVar]int, n)
	var i int
	for i = 0; i < n; i++ {
		index[nexts[i]] = i
	}

	return pathState{
		nexts:    nexts,
		index:    index,
		syncNext: make([]int64, n),
		routeOf:  make([]int, n),
		hasPred:  make([]bool, n),
	}
}

// synchronize rebuilds successor copies, route starts and membership from
// the snapshot.
//
// Complexity: O(n + total route length).
func (s *pathState) synchronize(snapshot *assignment.Assignment) {
	n := len(s.nexts)
	clear(s.hasPred)
	s.starts = s.starts[:0]

	var i int
	for i = 0; i < n; i++ {
		s.syncNext[i] = snapshot.Element(s.nexts[i]).Value()
		s.routeOf[i] = Unassigned
	}
	for i = 0; i < n; i++ {
		nxt := s.syncNext[i]
		if nxt != int64(i) && nxt < int64(n) {
			s.hasPred[nxt] = true
		}
	}
	for i = 0; i < n; i++ {
		if s.syncNext[i] != int64(i) && !s.hasPred[i] {
			s.starts = append(s.starts, i)
		}
	}

	var start, node, steps int
	for _, start = range s.starts {
		for node, steps = start, 0; node < n && steps <= n; steps++ {
			s.routeOf[node] = start
			node = int(s.syncNext[node])
		}
	}
}

// touchedRoutes collects the distinct route starts whose successors appear
// in the delta, deduplicated by linear scan. Elements for variables outside
// the successor array (objective, foreign vars) are ignored, as are nodes on
// no synchronized route: their new predecessor's changed successor puts the
// receiving route in the set.
//
// Complexity: O(|delta| * touched-route-count).
func (s *pathState) touchedRoutes(delta *assignment.Assignment) []int {
	s.touched = s.touched[:0]
	var i int
	for i = 0; i < delta.NumElements(); i++ {
		idx, ok := s.index[delta.ElementAt(i).Var()]
		if !ok {
			continue
		}
		start := s.routeOf[idx]
		if start == Unassigned {
			continue
		}
		dup := false
		var t int
		for _, t = range s.touched {
			if t == start {
				dup = true

				break
			}
		}
		if !dup {
			s.touched = append(s.touched, start)
		}
	}

	return s.touched
}

// deltaNext resolves the successor of node under the delta: the proposed
// value when the node's successor variable appears bound and active in the
// delta, the synchronized value when absent. known=false flags a
// present-but-unbound (or relaxed) successor - the conservative
// cannot-yet-disprove case.
func (s *pathState) deltaNext(node int, delta *assignment.Assignment) (next int64, known bool) {
	v := s.nexts[node]
	if delta.Contains(v) {
		e := delta.Element(v)
		if !e.Activated() || !e.Bound() {
			return 0, false
		}

		return e.Value(), true
	}

	return s.syncNext[node], true
}

// checkSizes panics on mismatched parallel arrays - a caller bug, not a
// data condition.
func checkSizes(what string, n, got int) {
	if n != got {
		panic(fmt.Sprintf("filters: %s size %d does not match successor count %d", what, got, n))
	}
}

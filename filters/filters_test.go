// Package filters_test covers the cumulative-quantity and route-cost filters,
// including a randomized cross-check against full recomputation.
package filters_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
	"github.com/katalvlaran/lvlsearch/filters"
	"github.com/katalvlaran/lvlsearch/paths"
)

// newSuccessors builds successor variables holding the given values plus the
// snapshot binding them.
func newSuccessors(t *testing.T, succ []int64) ([]*engine.IntVar, *assignment.Assignment) {
	t.Helper()
	s := engine.NewSession()
	vars := make([]*engine.IntVar, len(succ))
	snap := assignment.New()
	var i int
	for i = range succ {
		vars[i] = s.NewIntVar(fmt.Sprintf("next_%d", i), 0, int64(2*len(succ)))
		snap.Add(vars[i]).SetValue(succ[i])
	}

	return vars, snap
}

// deltaOf builds a sparse delta assigning the given successor values.
func deltaOf(vars []*engine.IntVar, changes map[int]int64) *assignment.Assignment {
	d := assignment.New()
	var i int
	var v int64
	for i, v = range changes {
		d.FastAdd(vars[i]).SetValue(v)
	}

	return d
}

func uniform(n int, v int64) []int64 {
	out := make([]int64, n)
	var i int
	for i = range out {
		out[i] = v
	}

	return out
}

// -----------------------------------------------------------------------------
// 1) Cumulative filter: bounded overload scenario.
// -----------------------------------------------------------------------------

// One route 0 -> 1 -> 2 -> 3 -> 4, one unit per arc, every node capped at 3.
// The running quantity reaches 4 at node 4, so any delta touching the route
// is rejected while a delta touching nothing is trivially accepted.
func TestCumul_OverloadedRouteRejectsTouchingDeltas(t *testing.T) {
	vars, snap := newSuccessors(t, []int64{1, 2, 3, 4, 5})
	f := filters.NewPathCumulFilter(vars, uniform(5, 0), uniform(5, 3),
		func(_, _ int64) int64 { return 1 })
	f.Synchronize(snap)

	empty := assignment.New()
	require.True(t, f.Accept(empty, empty), "an untouching delta cannot be disproved")

	// Rerouting node 1 after node 3 keeps five nodes on the route; the
	// quantity still overflows and the touch exposes it.
	move := deltaOf(vars, map[int]int64{0: 2, 3: 1, 1: 4})
	require.False(t, f.Accept(move, empty))
}

func TestCumul_AcceptsWithinBounds(t *testing.T) {
	vars, snap := newSuccessors(t, []int64{1, 2, 3})
	f := filters.NewPathCumulFilter(vars, uniform(3, 0), uniform(3, 2),
		func(_, _ int64) int64 { return 1 })
	f.Synchronize(snap)

	// Swap nodes 1 and 2: 0 -> 2 -> 1; quantity peaks at 2.
	swap := deltaOf(vars, map[int]int64{0: 2, 2: 1, 1: 3})
	require.True(t, f.Accept(swap, assignment.New()))
}

func TestCumul_RejectsShorteningThatStillOverflows(t *testing.T) {
	demand := []int64{0, 1, 3, 1}
	vars, snap := newSuccessors(t, []int64{1, 2, 3, 4})
	f := filters.NewPathCumulFilter(vars, uniform(4, 0), uniform(4, 3),
		func(_, to int64) int64 {
			if to < 4 {
				return demand[to]
			}

			return 0
		})
	f.Synchronize(snap)

	// Removing node 1 keeps 0 -> 2 -> 3 with quantity 3 + 1 = 4 > 3.
	drop := deltaOf(vars, map[int]int64{0: 2, 1: 1})
	require.False(t, f.Accept(drop, assignment.New()))

	// Removing node 2 instead leaves 0 -> 1 -> 3 with quantity 2.
	drop = deltaOf(vars, map[int]int64{1: 3, 2: 2})
	require.True(t, f.Accept(drop, assignment.New()))
}

func TestCumul_ClampRaisesRunningQuantity(t *testing.T) {
	// Node 1 requires the quantity to be at least 5 on arrival; node 2 caps
	// it at 4. The clamp at node 1 forces the rejection.
	vars, snap := newSuccessors(t, []int64{1, 2, 3})
	cumulMin := []int64{0, 5, 0}
	cumulMax := []int64{9, 9, 4}
	f := filters.NewPathCumulFilter(vars, cumulMin, cumulMax,
		func(_, _ int64) int64 { return 0 })
	f.Synchronize(snap)

	touch := deltaOf(vars, map[int]int64{0: 1})
	require.False(t, f.Accept(touch, assignment.New()))
}

// -----------------------------------------------------------------------------
// 2) Cumulative filter: conservative accepts.
// -----------------------------------------------------------------------------

func TestCumul_UnboundSuccessorIsNotDisprovable(t *testing.T) {
	vars, snap := newSuccessors(t, []int64{1, 2, 3, 4, 5})
	f := filters.NewPathCumulFilter(vars, uniform(5, 0), uniform(5, 1),
		func(_, _ int64) int64 { return 1 })
	f.Synchronize(snap)

	// The successor of node 1 is relaxed, not rebound: the walk must stop
	// there and accept even though the synchronized route overflows.
	d := assignment.New()
	d.FastAdd(vars[1]).SetRange(0, 9)
	require.True(t, f.Accept(d, assignment.New()))
}

func TestCumul_DeactivatedSuccessorIsNotDisprovable(t *testing.T) {
	vars, snap := newSuccessors(t, []int64{1, 2, 3, 4, 5})
	f := filters.NewPathCumulFilter(vars, uniform(5, 0), uniform(5, 2),
		func(_, _ int64) int64 { return 1 })
	f.Synchronize(snap)

	d := assignment.New()
	e := d.FastAdd(vars[2])
	e.SetValue(3)
	e.Deactivate()
	require.True(t, f.Accept(d, assignment.New()))
}

func TestCumul_ForeignVariablesIgnored(t *testing.T) {
	vars, snap := newSuccessors(t, []int64{1, 2})
	f := filters.NewPathCumulFilter(vars, uniform(2, 0), uniform(2, 10),
		func(_, _ int64) int64 { return 1 })
	f.Synchronize(snap)

	s := engine.NewSession()
	alien := s.NewIntVar("objective", 0, 100)
	d := assignment.New()
	d.FastAdd(alien).SetValue(7)
	require.True(t, f.Accept(d, assignment.New()))
}

func TestCumul_SizeMismatchPanics(t *testing.T) {
	vars, _ := newSuccessors(t, []int64{1, 2})
	require.Panics(t, func() {
		filters.NewPathCumulFilter(vars, uniform(1, 0), uniform(2, 3), func(_, _ int64) int64 { return 0 })
	})
	require.Panics(t, func() {
		filters.NewPathCumulFilter(vars, uniform(2, 0), uniform(2, 3), nil)
	})
}

// -----------------------------------------------------------------------------
// 3) Cumulative filter vs full recomputation on random relocations.
// -----------------------------------------------------------------------------

// feasible recomputes the quantity walk over every route of succ from
// scratch, mirroring the filter's arrival accounting.
func feasible(succ []int64, demand []int64, cap int64) bool {
	n := len(succ)
	hasPred := make([]bool, n)
	var i int
	for i = 0; i < n; i++ {
		if succ[i] != int64(i) && succ[i] < int64(n) {
			hasPred[int(succ[i])] = true
		}
	}
	for i = 0; i < n; i++ {
		if succ[i] == int64(i) || hasPred[i] {
			continue
		}
		cum := int64(0)
		for node, steps := i, 0; steps <= n; steps++ {
			if cum > cap {
				return false
			}
			next := succ[node]
			if next >= int64(n) || next == int64(node) {
				break
			}
			cum += demand[int(next)]
			node = int(next)
		}
	}

	return true
}

func TestCumul_MatchesRecomputationOnRandomRelocations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 8

	var trial int
	for trial = 0; trial < 40; trial++ {
		// Random 2-route instance: a permutation split in two.
		perm := rng.Perm(n)
		cut := 2 + rng.Intn(n-3)
		succ := make([]int64, n)
		var i int
		for i = 0; i < n; i++ {
			if i == cut-1 || i == n-1 {
				succ[perm[i]] = int64(n + i) // route ends
			} else {
				succ[perm[i]] = int64(perm[i+1])
			}
		}
		demand := make([]int64, n)
		var total int64
		for i = 0; i < n; i++ {
			demand[i] = rng.Int63n(4)
			total += demand[i]
		}
		cap := total/2 + rng.Int63n(total+1)

		vars, snap := newSuccessors(t, succ)
		f := filters.NewPathCumulFilter(vars, uniform(n, 0), uniform(n, cap),
			func(_, to int64) int64 {
				if to < n {
					return demand[int(to)]
				}

				return 0
			})
		f.Synchronize(snap)

		op := paths.NewRelocate(vars, 1)
		op.Start(snap)
		delta, dd := assignment.New(), assignment.New()
		for op.MakeNextNeighbor(delta, dd) {
			applied := make([]int64, n)
			for i = 0; i < n; i++ {
				applied[i] = succ[i]
				if delta.Contains(vars[i]) {
					applied[i] = delta.Element(vars[i]).Value()
				}
			}
			want := feasible(applied, demand, cap)
			// The filter may only reject what recomputation also rejects,
			// and must reject everything recomputation rejects on routes it
			// can fully walk. Relocation deltas are always fully bound, so
			// the verdicts must coincide whenever the start solution itself
			// is feasible.
			if feasible(succ, demand, cap) {
				require.Equal(t, want, f.Accept(delta, dd),
					"trial %d: succ=%v applied=%v cap=%d demand=%v", trial, succ, applied, cap, demand)
			}
		}
	}
}

// -----------------------------------------------------------------------------
// 4) Route-cost filter.
// -----------------------------------------------------------------------------

func TestCost_TotalAfterSynchronize(t *testing.T) {
	// Route 0 -> 1 -> 2, unit arcs: two interior arcs plus the closing arc.
	vars, snap := newSuccessors(t, []int64{1, 2, 3})
	f := filters.NewPathCostFilter(vars, func(_, _ int64) int64 { return 1 })
	f.Synchronize(snap)
	require.Equal(t, int64(3), f.Total())
}

func TestCost_AcceptsStrictImprovementOnly(t *testing.T) {
	// Arc cost is the gap between node ids; sentinel arcs are free.
	cost := func(from, to int64) int64 {
		if to >= 4 {
			return 0
		}
		d := to - from
		if d < 0 {
			d = -d
		}

		return d
	}
	// Route 0 -> 2 -> 1 -> 3: cost 2 + 1 + 2 = 5.
	vars, snap := newSuccessors(t, []int64{2, 3, 1, 4})
	f := filters.NewPathCostFilter(vars, cost)
	f.Synchronize(snap)
	require.Equal(t, int64(5), f.Total())

	// Reordering to 0 -> 1 -> 2 -> 3 costs 3: improvement, accepted.
	improve := deltaOf(vars, map[int]int64{0: 1, 1: 2, 2: 3})
	require.True(t, f.Accept(improve, assignment.New()))

	// Swapping 1 and 2 back is the synchronized order: equal cost, rejected.
	same := deltaOf(vars, map[int]int64{0: 2})
	require.False(t, f.Accept(same, assignment.New()))
}

func TestCost_RejectsWorseningMove(t *testing.T) {
	cost := func(from, to int64) int64 {
		if to >= 4 {
			return 0
		}
		d := to - from
		if d < 0 {
			d = -d
		}

		return d
	}
	// Route 0 -> 1 -> 2 -> 3: cost 3.
	vars, snap := newSuccessors(t, []int64{1, 2, 3, 4})
	f := filters.NewPathCostFilter(vars, cost)
	f.Synchronize(snap)

	// 0 -> 2 -> 1 -> 3 costs 5.
	worse := deltaOf(vars, map[int]int64{0: 2, 2: 1, 1: 3})
	require.False(t, f.Accept(worse, assignment.New()))
}

func TestCost_UnknownSuccessorIsNotDisprovable(t *testing.T) {
	vars, snap := newSuccessors(t, []int64{1, 2, 3})
	f := filters.NewPathCostFilter(vars, func(_, _ int64) int64 { return 1 })
	f.Synchronize(snap)

	d := assignment.New()
	e := d.FastAdd(vars[1])
	e.SetValue(2)
	e.Deactivate()
	require.True(t, f.Accept(d, assignment.New()))
}

// Package search - metaheuristic acceptance rules.
//
// The filters decide feasibility; the metaheuristic decides whether a
// feasible, engine-confirmed neighbor replaces the current solution.
// All randomness flows through the Config.Seed-driven generator, so a run
// is reproducible for a fixed seed.
package search

import (
	"math"

	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
)

// featureKey identifies one (variable,value) pair, the unit of both tabu
// bookkeeping and guided-local-search penalties.
type featureKey struct {
	v   *engine.IntVar
	val int64
}

// ruleAccepts applies the configured acceptance rule to a confirmed
// candidate of cost candCost against the current solution and cost.
func (ls *LocalSearch) ruleAccepts(current *assignment.Assignment, curCost, candCost, bestCost int64, temp float64) bool {
	switch ls.cfg.Metaheuristic {
	case GreedyDescent:
		return candCost < curCost

	case SimulatedAnnealing:
		if candCost < curCost {
			return true
		}
		if temp <= 0 {
			return false
		}

		return ls.rng.Float64() < math.Exp(-float64(candCost-curCost)/temp)

	case TabuSearch:
		// Aspiration: a new global best overrides any tabu mark.
		if candCost < bestCost {
			return true
		}

		return !ls.deltaIsTabu()

	case GuidedLocalSearch:
		return candCost+ls.cfg.PenaltyFactor*ls.deltaPenalty() <
			curCost+ls.cfg.PenaltyFactor*ls.currentPenalty(current)
	}

	return false
}

// deltaIsTabu reports whether the delta reassigns any (variable,value) pair
// whose tabu mark has not expired.
func (ls *LocalSearch) deltaIsTabu() bool {
	var i int
	for i = 0; i < ls.delta.NumElements(); i++ {
		e := ls.delta.ElementAt(i)
		if !e.Bound() {
			continue
		}
		if _, tabu := ls.tabu[featureKey{v: e.Var(), val: e.Value()}]; tabu {
			return true
		}
	}

	return false
}

// recordTabu marks the reversal of the committed move - the (variable,
// previous value) pairs the delta overwrites - tabu for TabuTenure
// iterations, and expires stale marks.
func (ls *LocalSearch) recordTabu(current *assignment.Assignment, iter int) {
	if ls.cfg.Metaheuristic != TabuSearch {
		return
	}
	var i int
	for i = 0; i < ls.delta.NumElements(); i++ {
		e := ls.delta.ElementAt(i)
		v := e.Var()
		if !current.Contains(v) {
			continue
		}
		ls.tabu[featureKey{v: v, val: current.Element(v).Value()}] = iter + ls.cfg.TabuTenure
	}
	var k featureKey
	var expiry int
	for k, expiry = range ls.tabu {
		if expiry <= iter {
			delete(ls.tabu, k)
		}
	}
}

// deltaPenalty sums the penalties of the delta's (variable,value) pairs -
// the features the candidate would introduce.
func (ls *LocalSearch) deltaPenalty() int64 {
	total := int64(0)
	var i int
	for i = 0; i < ls.delta.NumElements(); i++ {
		e := ls.delta.ElementAt(i)
		if !e.Bound() {
			continue
		}
		total += ls.penalties[featureKey{v: e.Var(), val: e.Value()}]
	}

	return total
}

// currentPenalty sums the penalties of the pairs the current solution holds
// for the same variables the delta touches - the features the move removes.
func (ls *LocalSearch) currentPenalty(current *assignment.Assignment) int64 {
	total := int64(0)
	var i int
	for i = 0; i < ls.delta.NumElements(); i++ {
		v := ls.delta.ElementAt(i).Var()
		if !current.Contains(v) {
			continue
		}
		total += ls.penalties[featureKey{v: v, val: current.Element(v).Value()}]
	}

	return total
}

// penalize increments the penalty of every (variable,value) feature of the
// local optimum, steering the augmented cost away from it.
func (ls *LocalSearch) penalize(current *assignment.Assignment) {
	var i int
	for i = 0; i < current.NumElements(); i++ {
		e := current.ElementAt(i)
		if !e.Bound() || !e.Activated() {
			continue
		}
		ls.penalties[featureKey{v: e.Var(), val: e.Value()}]++
	}
}

// Package search drives the improve/accept/reject loop of the local-search
// layer: it synchronizes a set of operators and filters to one solution,
// pulls neighbors, evaluates every registered filter in registration order
// with short-circuit on first rejection, and hands surviving deltas to the
// engine for confirmation before committing them.
//
// Single-threaded, cooperative: no operator or filter is ever invoked
// concurrently, and cancellation is limited to the iteration/time budgets
// checked between neighbors. An engine rejection during confirmation is a
// routine "neighbor rejected" outcome, never an error.
package search

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
	"github.com/katalvlaran/lvlsearch/filters"
	"github.com/katalvlaran/lvlsearch/operators"
)

// CostFn evaluates the integer cost of a full candidate solution.
type CostFn func(candidate *assignment.Assignment) int64

/// ReoptimizeFn is the hand-off to the engine's nested bounded sub-search:
// it receives a candidate whose relaxed variables are deactivated and must
// rebuild and reactivate them, returning false when no repair exists.
type ReoptimizeFn func(candidate *assignment.Assignment, relaxed []*engine.IntVar) bool

// Result reports the outcome of one Solve run.
type Result struct {
	// Best is a snapshot of the best solution found.
	Best *assignment.Assignment

	// Cost is Best's cost.
	Cost int64

	// Iterations counts completed improve rounds.
	Iterations int

	// Neighbors counts all neighbors generated across operators.
	Neighbors int

	// Accepted counts committed moves.
	Accepted int
}

// LocalSearch owns the operator/filter registry and the loop state.
type LocalSearch struct {
	cfg   Config
	sess  *engine.Session
	cost  CostFn
	reopt ReoptimizeFn

	ops  []operators.Operator
	fils []filters.Filter

	delta      *assignment.Assignment
	deltadelta *assignment.Assignment

	rng *rand.Rand
	log *slog.Logger

	tabu      map[featureKey]int
	penalties map[featureKey]int64
}

// New validates cfg and builds an empty LocalSearch over the Session whose
// variables the registered operators will mutate.
func New(sess *engine.Session, cost CostFn, cfg Config) (*LocalSearch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &LocalSearch{
		cfg:        cfg,
		sess:       sess,
		cost:       cost,
		delta:      assignment.New(),
		deltadelta: assignment.New(),
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		log:        log,
		tabu:       make(map[featureKey]int),
		penalties:  make(map[featureKey]int64),
	}, nil
}

// AddOperator registers op; operators are polled in registration order.
func (ls *LocalSearch) AddOperator(op operators.Operator) {
	ls.ops = append(ls.ops, op)
}

// AddFilter registers f; filters are evaluated in registration order with
// short-circuit on first rejection.
func (ls *LocalSearch) AddFilter(f filters.Filter) {
	ls.fils = append(ls.fils, f)
}

// SetReoptimizer wires the nested sub-search used to repair LNS fragments.
// Without one, fragment neighbors are rejected.
func (ls *LocalSearch) SetReoptimizer(fn ReoptimizeFn) {
	ls.reopt = fn
}

// Solve runs the improve loop from initial until the neighborhoods cannot
// produce an acceptable move (greedy), or the iteration/time budgets run
// out. The returned Result.Best is independent of initial.
func (ls *LocalSearch) Solve(initial *assignment.Assignment) (Result, error) {
	current := initial.Clone()
	curCost := ls.cost(current)
	res := Result{Best: initial.Clone(), Cost: curCost}

	started := time.Now()
	temp := ls.cfg.InitialTemperature
	iter := 0
	for ls.cfg.MaxIterations == 0 || iter < ls.cfg.MaxIterations {
		if ls.overBudget(started) {
			break
		}

		accepted, generated := ls.improveOnce(&current, &curCost, &res, iter, temp, started)
		iter++
		res.Iterations = iter
		temp *= ls.cfg.CoolingRate

		if accepted {
			continue
		}
		if generated == 0 {
			// Every neighborhood is exhausted; no rule can unlock new moves.
			break
		}
		switch ls.cfg.Metaheuristic {
		case GreedyDescent:
			// Local optimum is terminal for pure descent.
			return res, nil
		case GuidedLocalSearch:
			ls.penalize(current)
		case TabuSearch, SimulatedAnnealing:
			// Budgets alone decide when to stop retrying.
		}
	}

	return res, nil
}

// improveOnce runs one pass over all operators, committing at most one move.
// Returns whether a move was committed and how many neighbors were generated.
func (ls *LocalSearch) improveOnce(current **assignment.Assignment, curCost *int64, res *Result, iter int, temp float64, started time.Time) (bool, int) {
	generated := 0
	var op operators.Operator
	for _, op = range ls.ops {
		op.Start(*current)
		var f filters.Filter
		for _, f = range ls.fils {
			f.Synchronize(*current)
		}

		count := 0
		for (ls.cfg.MaxNeighbors == 0 || count < ls.cfg.MaxNeighbors) && op.MakeNextNeighbor(ls.delta, ls.deltadelta) {
			count++
			generated++
			res.Neighbors++
			if ls.overBudget(started) {
				return false, generated
			}
			if !ls.filtersAccept() {
				continue
			}
			cand, candCost, ok := ls.confirm(*current)
			if !ok {
				continue
			}
			if !ls.ruleAccepts(*current, *curCost, candCost, res.Cost, temp) {
				continue
			}

			ls.recordTabu(*current, iter)
			*current = cand
			*curCost = candCost
			res.Accepted++
			if candCost < res.Cost {
				res.Best = cand.Clone()
				res.Cost = candCost
				ls.log.Debug("search: new best", "cost", candCost, "iteration", iter)
			}

			return true, generated
		}
	}

	return false, generated
}

// filtersAccept evaluates registered filters in order, short-circuiting on
// the first rejection.
func (ls *LocalSearch) filtersAccept() bool {
	var f filters.Filter
	for _, f = range ls.fils {
		if !f.Accept(ls.delta, ls.deltadelta) {
			return false
		}
	}

	return true
}

// confirm builds the candidate solution for the current delta, repairs LNS
// fragments through the nested sub-search, and validates the result against
// the engine under a checkpoint. Engine failure rolls back implicitly and
// rejects the neighbor.
func (ls *LocalSearch) confirm(current *assignment.Assignment) (*assignment.Assignment, int64, bool) {
	cand := current.Clone()
	cand.Copy(ls.delta)

	relaxed := relaxedVars(ls.delta)
	if len(relaxed) > 0 {
		if ls.reopt == nil || !ls.reopt(cand, relaxed) {
			return nil, 0, false
		}
	}

	cp := ls.sess.Checkpoint()
	cand.Restore()
	failed := ls.sess.Failed()
	ls.sess.Rollback(cp)
	if failed {
		return nil, 0, false
	}

	return cand, ls.cost(cand), true
}

// overBudget reports whether the soft time budget is exhausted.
func (ls *LocalSearch) overBudget(started time.Time) bool {
	return ls.cfg.TimeLimit > 0 && time.Since(started) >= ls.cfg.TimeLimit
}

// relaxedVars collects the variables the delta deactivated.
func relaxedVars(delta *assignment.Assignment) []*engine.IntVar {
	var relaxed []*engine.IntVar
	var i int
	for i = 0; i < delta.NumElements(); i++ {
		if e := delta.ElementAt(i); !e.Activated() {
			relaxed = append(relaxed, e.Var())
		}
	}

	return relaxed
}

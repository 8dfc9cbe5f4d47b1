// Package lvlsearch is the incremental local-search layer for assignment
// and routing problems — mutate a candidate solution one delta at a time
// and check feasibility/cost without ever recomputing it from scratch.
//
// 🚀 What is lvlsearch?
//
//	A deterministic, single-threaded local-search toolkit that brings together:
//		• Solution containers: named scalar & interval elements, save/restore,
//		  sparse deltas, YAML snapshot persistence
//		• Operator framework: change tracking, delta + delta-of-the-delta
//		  materialization, value-changing and fragment-LNS neighborhoods
//		• Path operators: successor-linked routes with validating chain
//		  surgery - relocate, 2-opt reversal, exchange, cross,
//		  activate/deactivate - enumerated one neighbor per call
//		• Filters: sub-linear acceptance via incremental aggregates
//		  (cumulative capacity/time, route cost)
//		• Orchestration: explicit Config, pluggable metaheuristics
//		  (greedy descent, tabu, simulated annealing, guided local search)
//
// ✨ Why choose lvlsearch?
//
//   - Delta discipline - every neighbor is a sparse assignment, filters run
//     in time proportional to what actually changed
//   - Validating primitives - path surgery either fully succeeds or leaves
//     state untouched; an invalid neighbor is a routine skip, never an error
//   - Deterministic - fixed seed, fixed run; budgets are explicit
//
// Everything is organized under flat subpackages:
//
//	engine/     — decision variables, demons, checkpoint/rollback trail
//	assignment/ — solution containers, deltas, snapshot persistence
//	operators/  — operator base, value-changing & fragment-LNS neighborhoods
//	paths/      — successor-array route operators & chain surgery
//	filters/    — cumulative-quantity and route-cost acceptance
//	search/     — configuration, metaheuristics, the improve loop
//
// Quick ASCII example — one relocate neighbor:
//
//	before: 0──1──2──3──4──▣        ▣ = end-of-route sentinel
//	after:  0──1──3──4──2──▣        MoveChain(1, 2, 4)
//
// Dive into examples/ for runnable scenarios and cmd/lvlsolve for a small
// capacitated-routing CLI.
//
//	go get github.com/katalvlaran/lvlsearch
package lvlsearch

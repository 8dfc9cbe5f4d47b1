// Package search - orchestration configuration.
//
// All feature toggles are explicit Config fields passed at construction; no
// global flags. Each neighborhood toggle maps to one path operator, and the
// metaheuristic enum selects the acceptance rule applied on top of the
// registered filters.
//
// Errors:
//
//	ErrBadMetaheuristic - Metaheuristic outside the enum.
//	ErrBadLimit         - negative iteration/neighbor/time budget.
//	ErrBadCooling       - simulated-annealing temperature/cooling out of range.
//	ErrBadTenure        - non-positive tabu tenure.
package search

import (
	"errors"
	"log/slog"
	"time"
)

// Sentinel errors for configuration validation.
var (
	// ErrBadMetaheuristic indicates a Metaheuristic value outside the enum.
	ErrBadMetaheuristic = errors.New("search: unknown metaheuristic")

	// ErrBadLimit indicates a negative iteration, neighbor or time budget.
	ErrBadLimit = errors.New("search: negative budget")

	// ErrBadCooling indicates an annealing temperature or cooling rate out of range.
	ErrBadCooling = errors.New("search: annealing parameters out of range")

	// ErrBadTenure indicates a non-positive tabu tenure.
	ErrBadTenure = errors.New("search: tabu tenure must be positive")
)

// Metaheuristic selects the acceptance rule of the improve loop.
type Metaheuristic int

const (
	// GreedyDescent accepts strict improvements only and stops at the first
	// local optimum.
	GreedyDescent Metaheuristic = iota

	// TabuSearch accepts the first neighbor not reassigning a recently
	// reverted (variable,value) pair, with aspiration on a new best.
	TabuSearch

	// SimulatedAnnealing accepts worsening neighbors with Metropolis
	// probability under a geometrically cooled temperature.
	SimulatedAnnealing

	// GuidedLocalSearch penalizes features of each local optimum and accepts
	// against the penalty-augmented cost.
	GuidedLocalSearch
)

// String returns the metaheuristic name.
func (m Metaheuristic) String() string {
	switch m {
	case GreedyDescent:
		return "GreedyDescent"
	case TabuSearch:
		return "TabuSearch"
	case SimulatedAnnealing:
		return "SimulatedAnnealing"
	case GuidedLocalSearch:
		return "GuidedLocalSearch"
	default:
		return "Unknown"
	}
}

// Config enumerates every orchestration option and its effect.
type Config struct {
	// Neighborhood toggles; each enabled toggle registers one path operator
	// in BuildPathOperators order.
	EnableRelocate     bool
	EnableTwoOpt       bool
	EnableExchange     bool
	EnableCross        bool
	EnableMakeActive   bool
	EnableMakeInactive bool
	EnableLNS          bool

	// RelocateChainLength is the chain length moved by the relocate
	// neighborhood.
	RelocateChainLength int

	// Metaheuristic selects the acceptance rule.
	Metaheuristic Metaheuristic

	// MaxIterations bounds accepted-move rounds; 0 means unlimited.
	MaxIterations int

	// MaxNeighbors bounds neighbors pulled per operator synchronization;
	// 0 means unlimited.
	MaxNeighbors int

	// TimeLimit is a soft budget checked between neighbors; 0 disables it.
	TimeLimit time.Duration

	// Seed drives every stochastic acceptance decision; fixed seed, fixed run.
	Seed int64

	// TabuTenure is the number of iterations a reverted (variable,value)
	// pair stays tabu.
	TabuTenure int

	// InitialTemperature and CoolingRate parameterize simulated annealing;
	// temperature is multiplied by CoolingRate after every iteration.
	InitialTemperature float64
	CoolingRate        float64

	// PenaltyFactor scales guided-local-search penalties in the augmented
	// cost.
	PenaltyFactor int64

	// Logger receives progress lines at Debug level; nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the canonical configuration: relocate + 2-opt +
// exchange, greedy descent, 1000 iterations, no time limit.
func DefaultConfig() Config {
	return Config{
		EnableRelocate:      true,
		EnableTwoOpt:        true,
		EnableExchange:      true,
		RelocateChainLength: 1,
		Metaheuristic:       GreedyDescent,
		MaxIterations:       1000,
		TabuTenure:          8,
		InitialTemperature:  100,
		CoolingRate:         0.95,
		PenaltyFactor:       1,
	}
}

// Validate checks internal consistency of the Config.
//
// Complexity: O(1).
func (c Config) Validate() error {
	if c.Metaheuristic < GreedyDescent || c.Metaheuristic > GuidedLocalSearch {
		return ErrBadMetaheuristic
	}
	if c.MaxIterations < 0 || c.MaxNeighbors < 0 || c.TimeLimit < 0 {
		return ErrBadLimit
	}
	if c.EnableRelocate && c.RelocateChainLength < 1 {
		return ErrBadLimit
	}
	if c.Metaheuristic == SimulatedAnnealing {
		if c.InitialTemperature <= 0 || c.CoolingRate <= 0 || c.CoolingRate >= 1 {
			return ErrBadCooling
		}
	}
	if c.Metaheuristic == TabuSearch && c.TabuTenure < 1 {
		return ErrBadTenure
	}

	return nil
}

// Command lvlsolve loads a capacitated routing problem from a YAML file and
// improves a round-robin initial solution with the lvlsearch local-search
// layer, printing the resulting routes and cost.
//
// Problem file layout (viper/YAML):
//
//	vehicles: 2
//	capacity: 10
//	demands: [3, 1, 4, 1, 5]
//	costs:             # (n+1) x (n+1), depot last
//	  - [0, 2, 9, ...]
//	  - ...
//	search:
//	  metaheuristic: greedy   # greedy|tabu|annealing|guided
//	  max_iterations: 500
//	  seed: 1
//
// Node model: customers 0..n-1 plus one route-start slot per vehicle; any
// successor value past the last slot is an end-of-route sentinel.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
	"github.com/katalvlaran/lvlsearch/filters"
	"github.com/katalvlaran/lvlsearch/operators"
	"github.com/katalvlaran/lvlsearch/search"
)

// problemSpec is the viper-decoded problem file.
type problemSpec struct {
	Vehicles int       `mapstructure:"vehicles"`
	Capacity int64     `mapstructure:"capacity"`
	Demands  []int64   `mapstructure:"demands"`
	Costs    [][]int64 `mapstructure:"costs"`
	Search   struct {
		Metaheuristic string `mapstructure:"metaheuristic"`
		MaxIterations int    `mapstructure:"max_iterations"`
		TimeLimitMS   int    `mapstructure:"time_limit_ms"`
		Seed          int64  `mapstructure:"seed"`
	} `mapstructure:"search"`
}

func main() {
	var (
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:   "lvlsolve",
		Short: "Incremental local search for assignment and routing problems",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Improve a routing problem read from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			spec, err := loadProblem(configPath)
			if err != nil {
				return err
			}

			return solve(spec, logger)
		},
	}
	solveCmd.Flags().StringVarP(&configPath, "config", "c", "problem.yaml", "problem file")
	root.AddCommand(solveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadProblem reads and sanity-checks the problem file.
func loadProblem(path string) (problemSpec, error) {
	v := viper.New()
	v.SetConfigFile(path)
	var spec problemSpec
	if err := v.ReadInConfig(); err != nil {
		return spec, fmt.Errorf("lvlsolve: reading %s: %w", path, err)
	}
	if err := v.Unmarshal(&spec); err != nil {
		return spec, fmt.Errorf("lvlsolve: decoding %s: %w", path, err)
	}
	n := len(spec.Demands)
	if n == 0 || spec.Vehicles < 1 {
		return spec, fmt.Errorf("lvlsolve: %s: need at least one customer and one vehicle", path)
	}
	if len(spec.Costs) != n+1 {
		return spec, fmt.Errorf("lvlsolve: %s: costs must be %dx%d (depot last)", path, n+1, n+1)
	}

	return spec, nil
}

// solve builds the successor model, runs the local search, prints routes.
func solve(spec problemSpec, logger *slog.Logger) error {
	n := len(spec.Demands)
	m := n + spec.Vehicles // customers + route-start slots; >= m is a sentinel

	sess := engine.NewSession()
	nexts := make([]*engine.IntVar, m)
	var i int
	for i = 0; i < m; i++ {
		nexts[i] = sess.NewIntVar(fmt.Sprintf("next_%d", i), 0, int64(m+spec.Vehicles))
	}

	// Round-robin initial solution: vehicle k serves customers k, k+V, ...
	initial := assignment.New(assignment.WithLogger(logger))
	values := make([]int64, m)
	for i = 0; i < m; i++ {
		values[i] = int64(m) // default: immediate end of route
	}
	var k, prev, c int
	for k = 0; k < spec.Vehicles; k++ {
		prev = n + k
		for c = k; c < n; c += spec.Vehicles {
			values[prev] = int64(c)
			prev = c
		}
		values[prev] = int64(m)
	}
	for i = 0; i < m; i++ {
		initial.Add(nexts[i]).SetValue(values[i])
	}

	arcCost := func(from, to int64) int64 {
		return spec.Costs[costIdx(from, n)][costIdx(to, n)]
	}
	demand := func(from, to int64) int64 {
		if to < int64(n) {
			return spec.Demands[to]
		}

		return 0
	}
	totalCost := func(a *assignment.Assignment) int64 {
		total := int64(0)
		for i := 0; i < m; i++ {
			e := a.Element(nexts[i])
			if !e.Activated() || e.Value() == int64(i) {
				continue
			}
			total += arcCost(int64(i), e.Value())
		}

		return total
	}

	cfg := search.DefaultConfig()
	cfg.EnableCross = spec.Vehicles > 1
	cfg.Metaheuristic = parseMetaheuristic(spec.Search.Metaheuristic)
	if spec.Search.MaxIterations > 0 {
		cfg.MaxIterations = spec.Search.MaxIterations
	}
	if spec.Search.TimeLimitMS > 0 {
		cfg.TimeLimit = time.Duration(spec.Search.TimeLimitMS) * time.Millisecond
	}
	cfg.Seed = spec.Search.Seed
	cfg.Logger = logger

	ls, err := search.New(sess, totalCost, cfg)
	if err != nil {
		return err
	}
	var op operators.Operator
	for _, op = range search.BuildPathOperators(nexts, cfg) {
		ls.AddOperator(op)
	}

	cumulMin := make([]int64, m)
	cumulMax := make([]int64, m)
	for i = 0; i < m; i++ {
		cumulMax[i] = spec.Capacity
	}
	ls.AddFilter(filters.NewPathCumulFilter(nexts, cumulMin, cumulMax, demand))
	if cfg.Metaheuristic == search.GreedyDescent {
		ls.AddFilter(filters.NewPathCostFilter(nexts, arcCost))
	}
	ls.SetReoptimizer(search.NewGreedyRouteReoptimizer(nexts, arcCost))

	res, err := ls.Solve(initial)
	if err != nil {
		return err
	}

	logger.Info("lvlsolve: search finished",
		"cost", res.Cost, "iterations", res.Iterations,
		"neighbors", res.Neighbors, "accepted", res.Accepted)
	printRoutes(res.Best, nexts, n, spec.Vehicles)

	return nil
}

// costIdx maps a slot index to a cost-matrix row: customers map to
// themselves, start slots and sentinels to the depot row.
func costIdx(slot int64, n int) int {
	if slot < int64(n) {
		return int(slot)
	}

	return n
}

// parseMetaheuristic maps the YAML name to the enum, defaulting to greedy.
func parseMetaheuristic(name string) search.Metaheuristic {
	switch strings.ToLower(name) {
	case "tabu":
		return search.TabuSearch
	case "annealing", "sa":
		return search.SimulatedAnnealing
	case "guided", "gls":
		return search.GuidedLocalSearch
	default:
		return search.GreedyDescent
	}
}

// printRoutes writes one line per vehicle route to stdout.
func printRoutes(best *assignment.Assignment, nexts []*engine.IntVar, n, vehicles int) {
	m := len(nexts)
	var k int
	for k = 0; k < vehicles; k++ {
		var sb strings.Builder
		fmt.Fprintf(&sb, "vehicle %d: depot", k)
		node := int(best.Element(nexts[n+k]).Value())
		steps := 0
		for node < m && steps <= m {
			fmt.Fprintf(&sb, " -> %d", node)
			node = int(best.Element(nexts[node]).Value())
			steps++
		}
		sb.WriteString(" -> depot")
		fmt.Println(sb.String())
	}
}

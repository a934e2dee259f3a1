// Package main is a small command-line front end over pkg/cpkernel,
// solving a symmetric TSP instance either to first feasibility or to
// proven optimality. See SPEC_FULL.md for the full model.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/vertexcp/vertexcp/internal/telemetry"
	"github.com/vertexcp/vertexcp/pkg/cpkernel"
)

func main() {
	var (
		nodes     = flag.IntP("nodes", "n", 5, "number of cities (5 uses the built-in demo matrix; any other value a synthetic ring-plus-chord instance)")
		optimize  = flag.BoolP("optimize", "o", true, "run branch-and-bound to proven optimality instead of stopping at the first tour")
		verbose   = flag.BoolP("verbose", "v", false, "trace propagation and search events via logrus")
		mstAlgo   = flag.String("mst-algo", string(cpkernel.MSTDensePrim), "Held-Karp MST algorithm: dense_prim or kruskal")
		hkMode    = flag.Int("hk-mode", int(cpkernel.HKFromRoot), "Held-Karp activation: 0=disabled, 1=from root, 2=after first solution")
		hkIters   = flag.Int("hk-iterations", 30, "Held-Karp subgradient iterations per wake-up")
		failLimit = flag.Int64("fail-limit", 0, "stop search after this many contradictions (0 = unlimited)")
		timeLimit = flag.Int64("time-limit-ms", 0, "stop search after this many milliseconds (0 = unlimited)")
	)
	flag.Parse()

	w := buildInstance(*nodes)
	n := len(w)

	cfg := cpkernel.DefaultConfig()
	cfg.MSTAlgorithm = cpkernel.MSTAlgorithm(*mstAlgo)
	cfg.FailLimit = *failLimit
	cfg.TimeLimitMs = *timeLimit

	model := cpkernel.NewModelWithConfig(cfg)
	if *verbose {
		logger := logrus.StandardLogger()
		logger.SetLevel(logrus.DebugLevel)
		model.SetTracer(telemetry.NewLogrusTracer(logger))
	}

	g := model.GraphVar("tour", n, false, cpkernel.NeighborhoodMatrix)
	maxCost := 0
	for i := range w {
		for _, c := range w[i] {
			maxCost += c
		}
	}
	cost := model.IntVar("cost", 0, maxCost)

	tsp := cpkernel.TSP(model.Engine(), g, w, cost, *hkIters, cfg.MSTAlgorithm, cpkernel.HKActivation(*hkMode))
	if err := model.Post(tsp); err != nil {
		fmt.Fprintf(os.Stderr, "post error: %v\n", err)
		os.Exit(1)
	}

	searcher := cpkernel.NewSearcher(model, cpkernel.NewFirstFailStrategy())

	var sol *cpkernel.Solution
	var err error
	if *optimize {
		sol, err = searcher.Minimize(cost)
	} else {
		sol, err = searcher.FindFirst()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "search error: %v\n", err)
		os.Exit(1)
	}
	if sol == nil {
		fmt.Println("no tour found")
		return
	}
	fmt.Printf("tour found, cost=%d, fails=%d, solutions=%d\n", sol.Objective, searcher.FailCount(), searcher.SolutionCount())
}

// buildInstance returns an n x n symmetric distance matrix: the fixed
// 5-city demo instance when n == 5, otherwise a synthetic ring-plus-chord
// instance whose optimal tour is the ring itself (cost 3(n-1) + 2 +
// (n-1) mod 3), useful for
// sanity-checking larger n without shipping a second static matrix.
func buildInstance(n int) [][]int {
	if n == 5 {
		return [][]int{
			{0, 2, 9, 10, 7},
			{2, 0, 6, 4, 3},
			{9, 6, 0, 8, 5},
			{10, 4, 8, 0, 6},
			{7, 3, 5, 6, 0},
		}
	}
	w := make([][]int, n)
	for i := range w {
		w[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := j - i
			ring := d
			if n-d < ring {
				ring = n - d
			}
			cost := ring*2 + (j-i)%3
			w[i][j] = cost
			w[j][i] = cost
		}
	}
	return w
}

package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// This file encodes the "Concrete scenarios" list verbatim, with their
// literal parameters, separately from the more general-purpose tests
// elsewhere in this package.

// Scenario 1: cycle, n=4, all edges possible, uniform weight 1 -> tsp
// finds optimum 4 with exactly 3 solutions (rotational symmetries
// identified by fixing node 0).
func TestScenarioUniformK4CycleHasThreeOptimalTours(t *testing.T) {
	n := 4
	w := make([][]int, n)
	for i := range w {
		w[i] = make([]int, n)
		for j := range w[i] {
			if i != j {
				w[i][j] = 1
			}
		}
	}

	model := NewModel()
	g := model.GraphVar("tour", n, false, NeighborhoodMatrix)
	cost := model.IntVar("cost", 0, 100)
	// hk_mode=0: every edge already costs the same, so the Held-Karp bound
	// has nothing to contribute and this also exercises the disabled path.
	tsp := TSP(model.Engine(), g, w, cost, 0, MSTDensePrim, HKDisabled)
	require.NoError(t, model.Post(tsp))

	searcher := NewSearcher(model, NewFirstFailStrategy())
	sol, err := searcher.Minimize(cost)
	require.NoError(t, err)
	require.NotNil(t, sol)
	require.Equal(t, 4, sol.Objective)

	// Every feasible Hamiltonian cycle on uniform weights already costs 4,
	// so enumerating every solution at all (no further objective cut) counts
	// every distinct cycle: K4 has exactly 3, up to direction/rotation.
	model2 := NewModel()
	g2 := model2.GraphVar("tour", n, false, NeighborhoodMatrix)
	cost2 := model2.IntVar("cost", 0, 100)
	tsp2 := TSP(model2.Engine(), g2, w, cost2, 0, MSTDensePrim, HKDisabled)
	require.NoError(t, model2.Post(tsp2))

	searcher2 := NewSearcher(model2, NewInputOrderStrategy())
	solutions, err := searcher2.FindAll(0)
	require.NoError(t, err)
	require.Len(t, solutions, 3)
	for _, s := range solutions {
		require.Equal(t, 4, s.IntValues["cost"])
	}
}

// Scenario 2: path, n=5, ORIGIN=0, DESTINATION=4, complete directed graph,
// arc cost = |i-j| -> ATSP optimum = 4 with unique path 0->1->2->3->4.
func TestScenarioDirectedAbsoluteDifferencePathHasUniqueOptimum(t *testing.T) {
	n := 5
	w := make([][]int, n)
	for i := range w {
		w[i] = make([]int, n)
		for j := range w[i] {
			d := i - j
			if d < 0 {
				d = -d
			}
			w[i][j] = d
		}
	}

	model := NewModel()
	g := model.GraphVar("path", n, true, NeighborhoodMatrix)
	cost := model.IntVar("cost", 0, 100)
	atsp := ATSP(model.Engine(), g, 0, n-1, w, cost)
	require.NoError(t, model.Post(atsp))

	searcher := NewSearcher(model, NewFirstFailStrategy())
	sol, err := searcher.Minimize(cost)
	require.NoError(t, err)
	require.NotNil(t, sol)
	require.Equal(t, 4, sol.Objective, "sum of |consecutive differences| over any permutation spanning [0,4] is >= the range, with equality only for the monotone order")

	// Fixing cost<=4 before the search starts and enumerating every
	// solution isolates exactly the optimal paths: the triangle inequality
	// makes 0-1-2-3-4 the only one.
	model2 := NewModel()
	g2 := model2.GraphVar("path", n, true, NeighborhoodMatrix)
	cost2 := model2.IntVar("cost", 0, 100)
	require.NoError(t, cost2.UpdateUB(4, testCause))
	atsp2 := ATSP(model2.Engine(), g2, 0, n-1, w, cost2)
	require.NoError(t, model2.Post(atsp2))

	searcher2 := NewSearcher(model2, NewInputOrderStrategy())
	solutions, err := searcher2.FindAll(0)
	require.NoError(t, err)
	require.Len(t, solutions, 1, "0-1-2-3-4 must be the unique path achieving cost 4")
}

// Scenario 3: nCliques on n=6 with edges {(0,1),(1,2),(0,2),(3,4),(4,5),
// (3,5)} all mandatory and every other pair forbidden, K free -> K
// instantiated to 2.
func TestScenarioNCliquesOnTwoTrianglesInstantiatesKToTwo(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 6, false, NeighborhoodMatrix)

	mandatory := map[[2]int]bool{
		{0, 1}: true, {1, 2}: true, {0, 2}: true,
		{3, 4}: true, {4, 5}: true, {3, 5}: true,
	}
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			if mandatory[[2]int{i, j}] {
				require.NoError(t, g.EnforceArc(i, j, testCause))
			} else {
				require.NoError(t, g.RemoveArc(i, j, testCause))
			}
		}
	}

	k := NewBoundedIntVar(eng, "k", 1, 6)
	p := NewKComponentsPropagator(eng, g, k)
	require.NoError(t, eng.Post(p))

	require.True(t, k.IsInstantiated(), "the two triangles are already closed cliques with nothing left to merge them")
	require.Equal(t, 2, k.LB())
}

// Scenario 4: nTrees on n=4 directed, all self-loops in envelope, no
// other arc mandatory, K=2 -> at most 2 roots; any envelope state with 3
// forced self-loops must fail.
func TestScenarioNTreesKEqualsTwoRejectsAThirdRoot(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, true, NeighborhoodMatrix)
	k := NewBoundedIntVar(eng, "k", 2, 2)
	p := NewKTreesPropagator(eng, g, k)
	require.NoError(t, eng.Post(p))

	require.NoError(t, g.EnforceArc(0, 0, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.EnforceArc(1, 1, testCause))
	require.NoError(t, eng.Run())

	// 2 confirmed roots against K=[2,2] is still consistent.
	require.Equal(t, 2, k.LB())
	require.Equal(t, 2, k.UB())

	// A third forced self-loop would make 3 roots, exceeding K=2.
	err := g.EnforceArc(2, 2, testCause)
	if err == nil {
		err = eng.Run()
	}
	require.Error(t, err)
}

// Scenario 5 (Held-Karp on gr17) lives in prop_heldkarp_test.go, next to
// the rest of that propagator's coverage.

// Scenario 6: backtrack correctness. post x in [0,5], y = x+1; push world;
// x.update_lb(3); y.lb must become 4; pop; y.lb must return to 1.
func TestScenarioBacktrackRestoresDerivedViewBound(t *testing.T) {
	eng := newTestEngine()
	env := eng.Env()
	x := NewBoundedIntVar(eng, "x", 0, 5)
	one := NewBoundedIntVar(eng, "one", 1, 1)
	y, err := NewSumView(eng, "y", x, one)
	require.NoError(t, err)
	require.Equal(t, 1, y.LB(), "y = x+1, x.lb=0")

	env.PushWorld()
	require.NoError(t, x.UpdateLB(3, testCause))
	require.NoError(t, eng.Run())
	require.Equal(t, 4, y.LB())

	env.PopWorld()
	require.Equal(t, 1, y.LB())
}

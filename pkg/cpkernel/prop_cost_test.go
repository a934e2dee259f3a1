package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func weights4() [][]int {
	return [][]int{
		{0, 1, 4, 6},
		{1, 0, 2, 5},
		{4, 2, 0, 3},
		{6, 5, 3, 0},
	}
}

func TestCostPropagatorAccumulatesKernelWeight(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)
	cost := NewBoundedIntVar(eng, "cost", 0, 100)
	target := []int{2, 2, 2, 2}

	p := NewCostPropagator(eng, g, cost, weights4(), target)
	require.NoError(t, eng.Post(p))

	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.NoError(t, eng.Run())
	require.GreaterOrEqual(t, cost.LB(), 1, "edge (0,1) weight 1 must be charged into cost.lb")

	require.NoError(t, g.EnforceArc(1, 2, testCause))
	require.NoError(t, eng.Run())
	require.GreaterOrEqual(t, cost.LB(), 3, "edges (0,1)+(1,2) = 1+2 = 3 charged so far")
}

func TestCostPropagatorFailsWhenMandatoryWeightExceedsBudget(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)
	cost := NewBoundedIntVar(eng, "cost", 0, 2)
	target := []int{0, 0, 0, 0}

	p := NewCostPropagator(eng, g, cost, weights4(), target)
	require.NoError(t, eng.Post(p))

	err := g.EnforceArc(2, 3, testCause)
	if err == nil {
		err = eng.Run()
	}
	require.Error(t, err, "edge (2,3) alone costs 3, already over the budget of 2")
}

func TestCostPropagatorCollapsesUBOnceGraphFullyFixed(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)
	cost := NewBoundedIntVar(eng, "cost", 0, 100)
	target := []int{1, 1, 1, 1}

	p := NewCostPropagator(eng, g, cost, weights4(), target)
	require.NoError(t, eng.Post(p))

	// Fix a perfect matching: (0,1) and (2,3), every other arc removed.
	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.EnforceArc(2, 3, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.RemoveArc(0, 2, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.RemoveArc(0, 3, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.RemoveArc(1, 2, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.RemoveArc(1, 3, testCause))
	require.NoError(t, eng.Run())

	require.True(t, cost.IsInstantiated())
	require.Equal(t, 1+3, cost.LB())
}

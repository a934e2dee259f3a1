package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearcherFindAllEnumeratesEveryCombination(t *testing.T) {
	model := NewModel()
	model.IntVar("x", 0, 2)
	model.IntVar("y", 0, 1)

	searcher := NewSearcher(model, NewInputOrderStrategy())
	solutions, err := searcher.FindAll(0)
	require.NoError(t, err)
	require.Len(t, solutions, 6, "3 values for x times 2 for y, no constraint between them")
}

func TestSearcherFindFirstReturnsOneSolution(t *testing.T) {
	model := NewModel()
	model.IntVar("x", 0, 3)

	searcher := NewSearcher(model, NewFirstFailStrategy())
	sol, err := searcher.FindFirst()
	require.NoError(t, err)
	require.NotNil(t, sol)
	require.Equal(t, 0, sol.IntValues["x"], "first-fail assigns the smallest value first")
}

func TestSearcherFailLimitStopsWithResourceExhausted(t *testing.T) {
	model := NewModelWithConfig(&Config{FailLimit: 1})
	x := model.IntVar("x", 0, 1)
	y := model.IntVar("y", 0, 1)
	sum, err := model.Sum("sum", x, y)
	require.NoError(t, err)
	require.NoError(t, sum.UpdateUB(1, testCause), "forbid x=1,y=1: the only branch that fails")

	searcher := NewSearcher(model, NewInputOrderStrategy())
	solutions, err := searcher.FindAll(0)
	require.Error(t, err)
	re, ok := err.(*ResourceExhausted)
	require.True(t, ok)
	require.Equal(t, LimitFail, re.Kind)
	require.Len(t, solutions, 3, "(0,0),(0,1),(1,0) are all found before the (1,1) failure trips the limit")
	require.Equal(t, int64(1), searcher.FailCount())
	require.Equal(t, 0, model.Env().Depth(), "a limit trip must unwind back to the root world")
}

func TestSearcherSolutionLimitStopsEarly(t *testing.T) {
	model := NewModelWithConfig(&Config{SolutionLimit: 2})
	model.IntVar("x", 0, 5)

	searcher := NewSearcher(model, NewInputOrderStrategy())
	_, err := searcher.FindAll(0)
	require.Error(t, err)
	re, ok := err.(*ResourceExhausted)
	require.True(t, ok)
	require.Equal(t, LimitSolution, re.Kind)
	require.Equal(t, int64(2), searcher.SolutionCount())
	require.Equal(t, 0, model.Env().Depth(), "a limit trip must unwind back to the root world")
}

func TestSearcherMinimizeAppliesObjectiveCutoffAcrossBacktracks(t *testing.T) {
	model := NewModel()
	x := model.IntVarEnumFromValues("x", []int{5, 1, 3})

	searcher := NewSearcher(model, NewInputOrderStrategy())
	sol, err := searcher.Minimize(x)
	require.NoError(t, err)
	require.NotNil(t, sol)
	require.Equal(t, 1, sol.Objective)
}

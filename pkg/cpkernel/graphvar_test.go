package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraphVarKernelEnvelopeContainment(t *testing.T) {
	eng := newTestEngine()
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)

	require.True(t, g.ArcPossible(0, 1))
	require.False(t, g.ArcExists(0, 1))

	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.True(t, g.ArcExists(0, 1))
	require.True(t, g.ArcExists(1, 0), "undirected EnforceArc is symmetric")

	require.NoError(t, g.RemoveArc(2, 3, testCause))
	require.False(t, g.ArcPossible(2, 3))
	require.False(t, g.ArcPossible(3, 2))
}

func TestGraphVarEnforceThenRemoveIsContradiction(t *testing.T) {
	eng := newTestEngine()
	g := NewGraphVar(eng, "g", 3, false, NeighborhoodMatrix)

	require.NoError(t, g.EnforceArc(0, 1, testCause))
	err := g.RemoveArc(0, 1, testCause)
	require.Error(t, err)
}

func TestGraphVarBacktrackRestoresKernel(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 3, false, NeighborhoodMatrix)

	env.PushWorld()
	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.True(t, g.ArcExists(0, 1))

	env.PopWorld()
	require.False(t, g.ArcExists(0, 1))
}

func TestDirectedGraphVarArcsAreAsymmetric(t *testing.T) {
	eng := newTestEngine()
	g := NewGraphVar(eng, "g", 3, true, NeighborhoodMatrix)

	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.True(t, g.ArcExists(0, 1))
	require.False(t, g.ArcExists(1, 0))
}

func TestDegreeBoundsPropagatorPromotesAndForbids(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)

	dmin := []int{1, 1, 1, 1}
	dmax := []int{1, 1, 1, 1}
	p := NewDegreeBoundsPropagator(eng, g, dmin, dmax)
	require.NoError(t, eng.Post(p))

	// A perfect matching on 4 nodes: fixing 0-1 must strip every other
	// edge at 0 and 1, which in turn forces the only remaining option for
	// 2 and 3 (the edge 2-3) to become mandatory.
	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.NoError(t, eng.Run())

	require.False(t, g.ArcPossible(0, 2))
	require.False(t, g.ArcPossible(0, 3))
	require.False(t, g.ArcPossible(1, 2))
	require.False(t, g.ArcPossible(1, 3))
	require.True(t, g.ArcExists(2, 3), "2's only remaining possible edge must be promoted")
	require.Equal(t, EntailmentTrue, p.IsEntailed())
}


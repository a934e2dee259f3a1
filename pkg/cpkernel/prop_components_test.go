package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKComponentsClosesCliqueAndTightensBounds(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 5, false, NeighborhoodMatrix)
	k := NewBoundedIntVar(eng, "k", 1, 5)

	p := NewKComponentsPropagator(eng, g, k)
	require.NoError(t, eng.Post(p))
	require.Equal(t, 5, k.UB(), "no edges yet: 5 isolated components is the tightest kernel-side bound")

	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.EnforceArc(1, 2, testCause))
	require.NoError(t, eng.Run())

	// {0,1,2} is now one kernel component: the clique closure must have
	// enforced the direct 0-2 edge too.
	require.True(t, g.ArcExists(0, 2))
	require.Equal(t, 3, k.UB(), "3 components remain: {0,1,2}, {3}, {4}")
}

func TestKComponentsEnvelopeLowerBound(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)
	k := NewBoundedIntVar(eng, "k", 1, 4)

	p := NewKComponentsPropagator(eng, g, k)
	require.NoError(t, eng.Post(p))

	require.NoError(t, g.RemoveArc(0, 1, testCause))
	require.NoError(t, g.RemoveArc(0, 2, testCause))
	require.NoError(t, g.RemoveArc(0, 3, testCause))
	require.NoError(t, eng.Run())

	// 0 is now isolated from 1,2,3 in the envelope: even merging 1,2,3
	// maximally leaves at least 2 components.
	require.GreaterOrEqual(t, k.LB(), 2)
}

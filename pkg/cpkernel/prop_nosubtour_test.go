package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoSubtourPropagatorRemovesPrematureClosingEdgeFromEnvelope(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)
	p := NewNoSubtourPropagator(eng, g)
	require.NoError(t, eng.Post(p))

	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.EnforceArc(1, 2, testCause))
	require.NoError(t, eng.Run())

	// The chain 0-1-2 spans 3 of 4 nodes: closing it into a 0-1-2 triangle
	// now would strand node 3, so the splice step must have already pulled
	// the would-be closing edge 0-2 out of the envelope.
	require.False(t, g.ArcPossible(0, 2), "premature closing edge must be forbidden, not merely un-enforced")
	err := g.EnforceArc(0, 2, testCause)
	require.Error(t, err)
}

func TestNoSubtourPropagatorAcceptsFinalClosure(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)
	p := NewNoSubtourPropagator(eng, g)
	require.NoError(t, eng.Post(p))

	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.EnforceArc(1, 2, testCause))
	require.NoError(t, eng.Run())
	require.NoError(t, g.EnforceArc(2, 3, testCause))
	require.NoError(t, eng.Run())
	// Closing the chain 0-1-2-3 back to 0 spans all 4 nodes: legal.
	require.NoError(t, g.EnforceArc(3, 0, testCause))
	require.NoError(t, eng.Run())
	require.Equal(t, EntailmentTrue, p.IsEntailed())
}

func TestNoSubtourPropagatorIsEntailedOnlyOnceAllNodesChained(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)
	p := NewNoSubtourPropagator(eng, g)
	require.NoError(t, eng.Post(p))
	require.Equal(t, EntailmentUndefined, p.IsEntailed())

	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.NoError(t, eng.Run())
	require.Equal(t, EntailmentUndefined, p.IsEntailed(), "one mandatory edge is nowhere near a Hamiltonian cycle")
}

func TestNoSubtourPropagatorInitialPropagateReplaysPreSeededKernelEdges(t *testing.T) {
	env := NewEnv()
	eng := NewEngine(env)
	g := NewGraphVar(eng, "g", 4, false, NeighborhoodMatrix)

	// Seed a chain before the propagator is even posted, exercising
	// InitialPropagate's replay loop rather than the incremental path.
	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.NoError(t, g.EnforceArc(1, 2, testCause))

	p := NewNoSubtourPropagator(eng, g)
	require.NoError(t, eng.Post(p))

	require.False(t, g.ArcPossible(0, 2), "replay must still forbid the premature closing edge")
}

package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTSPFactoryOmitsHeldKarpOnlyWhenDisabled is the direct regression test
// for the hk_mode/hkMode split: HKDisabled must produce a bundle with no
// Held-Karp propagator at all, while every other mode still posts one.
func TestTSPFactoryOmitsHeldKarpOnlyWhenDisabled(t *testing.T) {
	w := tspDistances5()
	n := len(w)

	for _, tc := range []struct {
		name         string
		mode         HKActivation
		wantHeldKarp bool
	}{
		{"disabled", HKDisabled, false},
		{"fromRoot", HKFromRoot, true},
		{"afterFirstSolution", HKAfterFirstSolution, true},
	} {
		eng := newTestEngine()
		g := NewGraphVar(eng, "g", n, false, NeighborhoodMatrix)
		cost := NewBoundedIntVar(eng, "cost", 0, 1000)

		c := TSP(eng, g, w, cost, 30, MSTDensePrim, tc.mode)

		hasHeldKarp := false
		for _, p := range c.Propagators() {
			if _, ok := p.(*HeldKarpPropagator); ok {
				hasHeldKarp = true
			}
		}
		require.Equal(t, tc.wantHeldKarp, hasHeldKarp, "mode=%s", tc.name)
	}
}

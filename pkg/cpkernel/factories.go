package cpkernel

// This file is the model-facing layer of spec §4.8: each function bundles
// the graph propagators above into a single postable Constraint, the way
// the teacher's global constraints (pkg/minikanren/constraints.go) hand
// callers one named object instead of a loose list of propagators.

// HamiltonianCycle posts degree bounds (every node degree 2) and
// sub-tour elimination over undirected graph variable g.
func HamiltonianCycle(engine *Engine, g *GraphVar) *Constraint {
	n := g.NumNodes()
	dmin := make([]int, n)
	dmax := make([]int, n)
	for i := range dmin {
		dmin[i], dmax[i] = 2, 2
	}
	degree := NewDegreeBoundsPropagator(engine, g, dmin, dmax)
	subtour := NewNoSubtourPropagator(engine, g)
	return NewConstraint("HamiltonianCycle", degree, subtour)
}

// HamiltonianPath posts out-degree bounds (1 at every node except
// destination, which has 0) and path-no-cycle elimination over directed
// graph variable g, so the path ends at destination. origin is not
// constrained: the path starts at whichever node is left without a
// predecessor. DegreeBoundsPropagator only reasons over out-degree
// (GraphVar.KernelDegree is successor count); the in-degree half of the
// invariant is carried by PathNoCyclePropagator, which rejects a mandatory
// arc into a node that already has a predecessor.
func HamiltonianPath(engine *Engine, g *GraphVar, origin, destination int) *Constraint {
	n := g.NumNodes()
	dmin := make([]int, n)
	dmax := make([]int, n)
	for i := range dmin {
		dmin[i], dmax[i] = 1, 1
	}
	dmin[destination], dmax[destination] = 0, 0
	_ = origin
	degree := NewDegreeBoundsPropagator(engine, g, dmin, dmax)
	nocycle := NewPathNoCyclePropagator(engine, g)
	return NewConstraint("HamiltonianPath", degree, nocycle)
}

// TSP posts a full symmetric travelling-salesman bundle over undirected
// graph variable g with edge-weight matrix w and cost variable cost:
// Hamiltonian cycle, cost evaluation, and (per hkMode) the Held-Karp
// one-tree bound — spec's tsp(g, cost, W, hk_mode ∈ {0,1,2}). hkMode
// HKDisabled omits the Held-Karp propagator entirely; HKFromRoot posts it
// active immediately; HKAfterFirstSolution posts it dormant, to be turned
// on by the searcher once a first solution is found (see
// Model.ActivateDeferredPropagators).
func TSP(engine *Engine, g *GraphVar, w [][]int, cost *IntVar, hkIterations int, mstAlgo MSTAlgorithm, hkMode HKActivation) *Constraint {
	n := g.NumNodes()
	target := make([]int, n)
	for i := range target {
		target[i] = 2
	}
	degree := NewDegreeBoundsPropagator(engine, g, target, target)
	subtour := NewNoSubtourPropagator(engine, g)
	costProp := NewCostPropagator(engine, g, cost, w, target)
	if hkMode == HKDisabled {
		return NewConstraint("TSP", degree, subtour, costProp)
	}
	heldKarp := NewHeldKarpPropagator(engine, g, cost, w, mstAlgo, hkMode, hkIterations)
	return NewConstraint("TSP", degree, subtour, costProp, heldKarp)
}

// ATSP posts the asymmetric-TSP bundle over directed graph variable g: a
// Hamiltonian path ending at destination (origin is not constrained, as in
// HamiltonianPath) plus cost evaluation (no Held-Karp one-tree, which
// assumes symmetric weights).
func ATSP(engine *Engine, g *GraphVar, origin, destination int, w [][]int, cost *IntVar) *Constraint {
	n := g.NumNodes()
	target := make([]int, n)
	for i := range target {
		target[i] = 1
	}
	target[destination] = 0
	_ = origin
	degree := NewDegreeBoundsPropagator(engine, g, target, target)
	nocycle := NewPathNoCyclePropagator(engine, g)
	costProp := NewCostPropagator(engine, g, cost, w, target)
	return NewConstraint("ATSP", degree, nocycle, costProp)
}

// NCliques posts the K-connected-components/K-cliques bundle linking
// undirected graph variable g to count variable k.
func NCliques(engine *Engine, g *GraphVar, k *IntVar) *Constraint {
	return NewConstraint("NCliques", NewKComponentsPropagator(engine, g, k))
}

// NTrees posts the K anti-arborescences bundle linking directed graph
// variable g to count variable k.
func NTrees(engine *Engine, g *GraphVar, k *IntVar) *Constraint {
	return NewConstraint("NTrees", NewKTreesPropagator(engine, g, k))
}

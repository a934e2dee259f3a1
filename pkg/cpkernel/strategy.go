package cpkernel

// BranchingStrategy chooses the next Decision to explore (spec §4.7 step
// (1): "at READY, invoke the strategy for a decision; null => solution
// found"). Implementations must be deterministic in variable and value
// order: per spec §8 invariant 6, a fixed post order and fixed strategy
// must enumerate the same decision tree on every run, which rules out
// strategies backed by map iteration or randomness.
type BranchingStrategy interface {
	// NextDecision returns the next decision to branch on, or (nil, false)
	// if every variable is already fixed (kernel == envelope for every
	// graph variable, every int/bool variable instantiated) and the
	// current assignment is therefore a solution.
	NextDecision(m *Model) (Decision, bool)
}

// FirstFailStrategy branches on the first open graph-variable arc it
// finds, then, once every graph variable is fixed, on the unbound integer
// variable with the smallest remaining domain (breaking ties by creation
// order), assigning its smallest value first. Named for the classic
// "first-fail" heuristic: branch on the variable most likely to fail
// first, to prune the tree as early as possible.
type FirstFailStrategy struct{}

// NewFirstFailStrategy creates a FirstFailStrategy.
func NewFirstFailStrategy() *FirstFailStrategy { return &FirstFailStrategy{} }

func (s *FirstFailStrategy) NextDecision(m *Model) (Decision, bool) {
	// Graph arcs branch first: cost/count variables linked to a graph
	// variable by a propagator (CostPropagator, KComponentsPropagator, ...)
	// are meant to converge by propagation once the graph is fixed, not by
	// being branched on directly, which would explore their full domain
	// before the graph decisions that actually determine it.
	for _, g := range m.GraphVars() {
		if d, ok := firstBranchableArc(g); ok {
			return d, true
		}
	}

	var best *IntVar
	bestSize := 0
	for _, v := range m.IntVars() {
		if v.IsInstantiated() {
			continue
		}
		if best == nil || v.Size() < bestSize {
			best = v
			bestSize = v.Size()
		}
	}
	if best != nil {
		return AssignDecision(best, best.LB()), true
	}
	return nil, false
}

// firstBranchableArc scans g's nodes and arcs in ascending (i,j) order for
// the first arc that is possible but not yet mandatory, i.e. still open to
// a branching decision. Deterministic by construction.
func firstBranchableArc(g *GraphVar) (Decision, bool) {
	for i := 0; i < g.NumNodes(); i++ {
		for j := g.EnvelopeSuccessors(i).First(); j != -1; j = g.EnvelopeSuccessors(i).Next(j) {
			if !g.KernelSuccessors(i).Has(j) {
				return EnforceArcDecision(g, i, j), true
			}
		}
	}
	return nil, false
}

// InputOrderStrategy branches on graph-variable arcs exactly like
// FirstFailStrategy, then on the first unbound integer variable in
// creation order (ignoring domain size). Useful when the caller wants
// integer-variable branching to follow the model's declaration order
// rather than a heuristic.
type InputOrderStrategy struct{}

// NewInputOrderStrategy creates an InputOrderStrategy.
func NewInputOrderStrategy() *InputOrderStrategy { return &InputOrderStrategy{} }

func (s *InputOrderStrategy) NextDecision(m *Model) (Decision, bool) {
	for _, g := range m.GraphVars() {
		if d, ok := firstBranchableArc(g); ok {
			return d, true
		}
	}
	for _, v := range m.IntVars() {
		if !v.IsInstantiated() {
			return AssignDecision(v, v.LB()), true
		}
	}
	return nil, false
}

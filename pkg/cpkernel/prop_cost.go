package cpkernel

import "sort"

// CostPropagator implements the cost-evaluation half of spec §4.8: it
// accumulates the weight of every mandatory edge into cost.lb, and
// tightens cost.lb further by a per-node completion estimate (the
// cheapest possible edges each node still needs to reach its target
// degree, halved to avoid double-counting an edge from both endpoints).
// It fails outright once the mandatory weight alone exceeds cost.ub.
type CostPropagator struct {
	PropagatorBase
	g        *GraphVar
	cost     *IntVar
	w        [][]int
	target   []int // per-node target degree once final (dmax from the degree-bounds propagator)
	kernelW  *RevInt
	seenEdge [][]*RevBool // seenEdge[i][j], i<j, avoids double-charging undirected edges
}

// NewCostPropagator creates a cost propagator over graph variable g with
// edge-weight matrix w (w[i][j] meaningful wherever g.ArcPossible(i,j)),
// linked to the cost variable, with per-node target degree once g is
// final.
func NewCostPropagator(engine *Engine, g *GraphVar, cost *IntVar, w [][]int, target []int) *CostPropagator {
	env := engine.Env()
	n := g.NumNodes()
	p := &CostPropagator{
		PropagatorBase: NewPropagatorBase(engine, "Cost", PriorityLinear),
		g:              g,
		cost:           cost,
		w:              w,
		target:         target,
		kernelW:        NewRevInt(env, 0),
	}
	if !g.IsDirected() {
		p.seenEdge = make([][]*RevBool, n)
		for i := 0; i < n; i++ {
			p.seenEdge[i] = make([]*RevBool, n)
			for j := 0; j < n; j++ {
				p.seenEdge[i][j] = NewRevBool(env, false)
			}
		}
	}
	engine.Subscribe(g.ID(), p, EventMask(EventAddArc|EventRemoveArc))
	engine.Subscribe(cost.ID(), p, EventMask(EventDecUpp|EventBound|EventInstantiate))
	return p
}

func (p *CostPropagator) InitialPropagate() error {
	for i := 0; i < p.g.NumNodes(); i++ {
		p.g.KernelSuccessors(i).Each(func(j int) {
			p.chargeEdge(i, j)
		})
	}
	return p.sync()
}

func (p *CostPropagator) Propagate(varIndex int, mask EventMask) error {
	for _, payload := range p.engine.DrainDeltas(p.ID(), varIndex) {
		// Removed arcs arrive with the same payload; only kernel arcs are charged.
		if ae, ok := payload.(ArcEvent); ok && p.g.ArcExists(ae.I, ae.J) {
			p.chargeEdge(ae.I, ae.J)
		}
	}
	return p.sync()
}

func (p *CostPropagator) chargeEdge(i, j int) {
	if !p.g.IsDirected() {
		lo, hi := i, j
		if lo > hi {
			lo, hi = hi, lo
		}
		if p.seenEdge[lo][hi].Get() {
			return
		}
		p.seenEdge[lo][hi].Set(true)
	}
	p.kernelW.Set(p.kernelW.Get() + p.w[i][j])
}

func (p *CostPropagator) sync() error {
	if p.kernelW.Get() > p.cost.UB() {
		return NewContradiction(p.cost.Name(), MsgUpp, p)
	}
	if err := p.cost.UpdateLB(p.kernelW.Get()+p.completionLB(), p); err != nil {
		return err
	}
	if p.IsEntailed() == EntailmentTrue {
		// The graph has no remaining freedom (kernel == envelope at every
		// node): the final weight is exactly the kernel weight, so cost
		// collapses to it instead of waiting on a branching decision that
		// will never come.
		if err := p.cost.UpdateUB(p.kernelW.Get(), p); err != nil {
			return err
		}
	}
	return nil
}

// completionLB sums, for every node whose kernel degree hasn't yet
// reached its target, the cheapest remaining possible edges needed to
// close the gap, halving the total since every edge is reachable from
// both its endpoints. This is a relaxation, not the tight Held-Karp
// bound computed separately.
func (p *CostPropagator) completionLB() int {
	total := 0
	for i := 0; i < p.g.NumNodes(); i++ {
		need := p.target[i] - p.g.KernelDegree(i)
		if need <= 0 {
			continue
		}
		var candidates []int
		p.g.EnvelopeSuccessors(i).Each(func(j int) {
			if !p.g.KernelSuccessors(i).Has(j) {
				candidates = append(candidates, p.w[i][j])
			}
		})
		sort.Ints(candidates)
		for k := 0; k < need && k < len(candidates); k++ {
			total += candidates[k]
		}
	}
	if p.g.IsDirected() {
		return total
	}
	return total / 2
}

func (p *CostPropagator) IsEntailed() Entailment {
	for i := 0; i < p.g.NumNodes(); i++ {
		if p.g.KernelDegree(i) != p.g.EnvelopeDegree(i) {
			return EntailmentUndefined
		}
	}
	return EntailmentTrue
}

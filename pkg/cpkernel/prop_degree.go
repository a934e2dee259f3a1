package cpkernel

// DegreeBoundsPropagator enforces, for every node i, degree(i) in
// [dmin(i), dmax(i)] in the final graph (spec §4.8's "Degree bounds"). It
// is the universal building block behind Hamiltonian cycles (dmin = dmax =
// 2) and directed paths (out-degree 1, or 0 at the destination) as much as
// it is behind general degree-constrained subgraphs.
type DegreeBoundsPropagator struct {
	PropagatorBase
	g          *GraphVar
	dmin, dmax []int
}

// NewDegreeBoundsPropagator creates a degree-bounds propagator over g, with
// per-node bounds dmin/dmax (parallel slices of length g.NumNodes()).
func NewDegreeBoundsPropagator(engine *Engine, g *GraphVar, dmin, dmax []int) *DegreeBoundsPropagator {
	p := &DegreeBoundsPropagator{
		PropagatorBase: NewPropagatorBase(engine, "DegreeBounds", PriorityLinear),
		g:              g,
		dmin:           dmin,
		dmax:           dmax,
	}
	engine.Subscribe(g.ID(), p, EventMask(EventAddArc|EventRemoveArc|EventActivateNode|EventRemoveNode))
	return p
}

func (p *DegreeBoundsPropagator) InitialPropagate() error {
	for i := 0; i < p.g.NumNodes(); i++ {
		if err := p.checkNode(i); err != nil {
			return err
		}
	}
	return nil
}

func (p *DegreeBoundsPropagator) Propagate(varIndex int, mask EventMask) error {
	touched := map[int]bool{}
	for _, payload := range p.engine.DrainDeltas(p.ID(), varIndex) {
		switch e := payload.(type) {
		case ArcEvent:
			touched[e.I] = true
			touched[e.J] = true
		case NodeEvent:
			touched[e.Node] = true
		}
	}
	for i := range touched {
		if err := p.checkNode(i); err != nil {
			return err
		}
	}
	return nil
}

// checkNode applies the degree-bounds filtering invariant to node i: fail
// if either bound has already been crossed; otherwise, if the kernel
// degree already reached dmax, strip every remaining envelope edge that
// isn't mandatory; if the envelope degree has shrunk to dmin, promote
// every remaining envelope edge to mandatory.
func (p *DegreeBoundsPropagator) checkNode(i int) error {
	kd := p.g.KernelDegree(i)
	ed := p.g.EnvelopeDegree(i)
	if kd > p.dmax[i] || ed < p.dmin[i] {
		return NewContradiction(p.g.Name(), MsgUnknown, p)
	}
	if kd == p.dmax[i] {
		var toRemove []int
		p.g.EnvelopeSuccessors(i).Each(func(j int) {
			if !p.g.KernelSuccessors(i).Has(j) {
				toRemove = append(toRemove, j)
			}
		})
		for _, j := range toRemove {
			if err := p.g.RemoveArc(i, j, p); err != nil {
				return err
			}
		}
	}
	if ed == p.dmin[i] {
		var toEnforce []int
		p.g.EnvelopeSuccessors(i).Each(func(j int) {
			if !p.g.KernelSuccessors(i).Has(j) {
				toEnforce = append(toEnforce, j)
			}
		})
		for _, j := range toEnforce {
			if err := p.g.EnforceArc(i, j, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *DegreeBoundsPropagator) IsEntailed() Entailment {
	for i := 0; i < p.g.NumNodes(); i++ {
		if p.g.KernelDegree(i) != p.g.EnvelopeDegree(i) {
			return EntailmentUndefined
		}
	}
	return EntailmentTrue
}

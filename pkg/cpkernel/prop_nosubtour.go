package cpkernel

// NoSubtourPropagator enforces the undirected Hamiltonian-cycle sub-tour
// elimination invariant of spec §4.8: every mandatory chain is tracked by
// its two endpoints; closing an edge between the two endpoints of the
// SAME chain is only legal once that chain already spans every node
// (i.e. it is the final cycle-closing edge), and the edge between a
// freshly spliced chain's new endpoints is otherwise forbidden until the
// chain does span every node.
type NoSubtourPropagator struct {
	PropagatorBase
	g *GraphVar
	n int

	// endpoint[x] is meaningful only while x is itself a chain endpoint
	// (kernel-degree <= 1): it names the chain's other endpoint. A node
	// with no mandatory edges is its own chain of length 1.
	endpoint []*RevInt
	// chainLen[x] is the number of nodes in the chain ending at x,
	// meaningful only while x is a chain endpoint.
	chainLen []*RevInt
	edges    *RevInt // total mandatory edges enforced so far
}

// NewNoSubtourPropagator creates a no-subtour propagator over the
// undirected graph variable g (g.NumNodes() nodes).
func NewNoSubtourPropagator(engine *Engine, g *GraphVar) *NoSubtourPropagator {
	env := engine.Env()
	n := g.NumNodes()
	p := &NoSubtourPropagator{
		PropagatorBase: NewPropagatorBase(engine, "NoSubtour", PriorityLinear),
		g:              g,
		n:              n,
		endpoint:       make([]*RevInt, n),
		chainLen:       make([]*RevInt, n),
		edges:          NewRevInt(env, 0),
	}
	for i := 0; i < n; i++ {
		p.endpoint[i] = NewRevInt(env, i)
		p.chainLen[i] = NewRevInt(env, 1)
	}
	engine.Subscribe(g.ID(), p, EventMask(EventAddArc))
	return p
}

func (p *NoSubtourPropagator) InitialPropagate() error {
	// Replay every arc already mandatory at post time (e.g. a model that
	// seeds some edges before posting this constraint).
	for i := 0; i < p.n; i++ {
		p.g.KernelSuccessors(i).Each(func(j int) {
			if j > i {
				_ = p.processEdge(i, j)
			}
		})
	}
	return nil
}

func (p *NoSubtourPropagator) Propagate(varIndex int, mask EventMask) error {
	for _, payload := range p.engine.DrainDeltas(p.ID(), varIndex) {
		ae, ok := payload.(ArcEvent)
		if !ok {
			continue
		}
		if err := p.processEdge(ae.I, ae.J); err != nil {
			return err
		}
	}
	return nil
}

// processEdge applies the splice-or-fail invariant for a newly mandatory
// edge (u,v). It is idempotent against replays of an edge already folded
// into the chain structure (u and v no longer endpoints of each other).
func (p *NoSubtourPropagator) processEdge(u, v int) error {
	uEnd := p.endpoint[u].Get()
	vEnd := p.endpoint[v].Get()

	if uEnd == v && vEnd == u && p.chainLen[u].Get() == 2 {
		// u and v were already a length-2 chain joined directly; re-adding
		// the same edge is a harmless replay.
		return nil
	}

	p.edges.Set(p.edges.Get() + 1)

	if uEnd == v {
		// u and v are the two endpoints of the very same chain: this edge
		// closes it into a cycle.
		if p.chainLen[u].Get() != p.n {
			return NewContradiction(p.g.Name(), MsgUnknown, p)
		}
		p.SetPassive()
		return nil
	}

	newLen := p.chainLen[uEnd].Get() + p.chainLen[vEnd].Get()
	p.endpoint[uEnd].Set(vEnd)
	p.endpoint[vEnd].Set(uEnd)
	p.chainLen[uEnd].Set(newLen)
	p.chainLen[vEnd].Set(newLen)

	// For a chain of two nodes the endpoints are u and v themselves, and
	// the edge between them is the one just enforced.
	if newLen > 2 && newLen < p.n {
		if err := p.g.RemoveArc(uEnd, vEnd, p); err != nil {
			return err
		}
	}
	return nil
}

func (p *NoSubtourPropagator) IsEntailed() Entailment {
	if p.edges.Get() == p.n {
		return EntailmentTrue
	}
	return EntailmentUndefined
}

package cpkernel

// PathNoCyclePropagator enforces the directed Hamiltonian-path invariant of
// spec §4.8: a reversible successor/predecessor structure tracks, for each
// enforced directed chain, its start and end node. Arc (u,v) may only be
// added if v is not already on the chain ending at u, except when doing so
// closes the only remaining path spanning every node (the chain already
// has n nodes, so the "closing" arc is in fact the final legal connection
// rather than a premature cycle).
type PathNoCyclePropagator struct {
	PropagatorBase
	g *GraphVar
	n int

	// chainHead[x]: the start node of the chain whose tail is currently x
	// (meaningful only while x has out-degree 0, i.e. is a tail).
	chainHead []*RevInt
	// chainTail[x]: the end node of the chain whose head is currently x
	// (meaningful only while x has in-degree 0, i.e. is a head).
	chainTail []*RevInt
	chainLen  []*RevInt // length of the chain, indexed by either endpoint
	edges     *RevInt
}

// NewPathNoCyclePropagator creates a path-no-cycle propagator over the
// directed graph variable g.
func NewPathNoCyclePropagator(engine *Engine, g *GraphVar) *PathNoCyclePropagator {
	env := engine.Env()
	n := g.NumNodes()
	p := &PathNoCyclePropagator{
		PropagatorBase: NewPropagatorBase(engine, "PathNoCycle", PriorityLinear),
		g:              g,
		n:              n,
		chainHead:      make([]*RevInt, n),
		chainTail:      make([]*RevInt, n),
		chainLen:       make([]*RevInt, n),
		edges:          NewRevInt(env, 0),
	}
	for i := 0; i < n; i++ {
		p.chainHead[i] = NewRevInt(env, i)
		p.chainTail[i] = NewRevInt(env, i)
		p.chainLen[i] = NewRevInt(env, 1)
	}
	engine.Subscribe(g.ID(), p, EventMask(EventAddArc))
	return p
}

func (p *PathNoCyclePropagator) InitialPropagate() error {
	for i := 0; i < p.n; i++ {
		p.g.KernelSuccessors(i).Each(func(j int) {
			_ = p.processArc(i, j)
		})
	}
	return nil
}

func (p *PathNoCyclePropagator) Propagate(varIndex int, mask EventMask) error {
	for _, payload := range p.engine.DrainDeltas(p.ID(), varIndex) {
		ae, ok := payload.(ArcEvent)
		if !ok {
			continue
		}
		if err := p.processArc(ae.I, ae.J); err != nil {
			return err
		}
	}
	return nil
}

func (p *PathNoCyclePropagator) processArc(u, v int) error {
	if p.g.KernelPredecessors(v).Count() > 1 {
		// v already had a predecessor: a path node has at most one.
		return NewContradiction(p.g.Name(), MsgUnknown, p)
	}
	su := p.chainHead[u].Get() // start of u's chain
	ev := p.chainTail[v].Get() // end of v's chain

	if su == v {
		// v is the start of the very chain that ends at u: this arc closes
		// it. Legal only once that chain already spans every node.
		if p.chainLen[u].Get() != p.n {
			return NewContradiction(p.g.Name(), MsgUnknown, p)
		}
		p.edges.Set(p.edges.Get() + 1)
		p.SetPassive()
		return nil
	}

	p.edges.Set(p.edges.Get() + 1)
	newLen := p.chainLen[u].Get() + p.chainLen[v].Get()
	p.chainTail[su].Set(ev)
	p.chainHead[ev].Set(su)
	p.chainLen[su].Set(newLen)
	p.chainLen[ev].Set(newLen)

	if newLen < p.n {
		if err := p.g.RemoveArc(ev, su, p); err != nil {
			return err
		}
	}
	return nil
}

func (p *PathNoCyclePropagator) IsEntailed() Entailment {
	if p.edges.Get() == p.n-1 || p.edges.Get() == p.n {
		return EntailmentTrue
	}
	return EntailmentUndefined
}

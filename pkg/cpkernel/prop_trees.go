package cpkernel

// KTreesPropagator enforces the "K anti-arborescences" (nTrees) invariant
// of spec §4.8 over a directed graph variable: roots are the nodes with a
// mandatory self-loop and no other out-arc; every non-root node has
// exactly one out-arc, its parent pointer; the total number of roots
// equals K. Cycle detection uses the same incremental union-by-rank
// structure as KComponentsPropagator, here applied to parent pointers
// instead of undirected kernel edges: a newly mandatory arc u->v whose
// endpoints are already in the same group would close a cycle with no
// root and fails. The check runs only when such an arc becomes mandatory;
// arcs that would close a rootless cycle are not removed from the envelope
// beforehand, so the filtering is weaker than GAC.
type KTreesPropagator struct {
	PropagatorBase
	g      *GraphVar
	k      *IntVar
	n      int
	parent []*RevInt
	rank   []*RevInt
	count  *RevInt
	isRoot []*RevBool
	roots  *RevInt
}

// NewKTreesPropagator creates an nTrees propagator linking the directed
// graph variable g to count variable k.
func NewKTreesPropagator(engine *Engine, g *GraphVar, k *IntVar) *KTreesPropagator {
	env := engine.Env()
	n := g.NumNodes()
	p := &KTreesPropagator{
		PropagatorBase: NewPropagatorBase(engine, "KTrees", PriorityLinear),
		g:              g,
		k:              k,
		n:              n,
		parent:         make([]*RevInt, n),
		rank:           make([]*RevInt, n),
		count:          NewRevInt(env, n),
		isRoot:         make([]*RevBool, n),
		roots:          NewRevInt(env, 0),
	}
	for i := 0; i < n; i++ {
		p.parent[i] = NewRevInt(env, i)
		p.rank[i] = NewRevInt(env, 0)
		p.isRoot[i] = NewRevBool(env, false)
	}
	engine.Subscribe(g.ID(), p, EventMask(EventAddArc|EventRemoveArc))
	engine.Subscribe(k.ID(), p, EventMask(EventBound|EventIncLow|EventDecUpp|EventInstantiate))
	return p
}

func (p *KTreesPropagator) find(x int) int {
	for p.parent[x].Get() != x {
		x = p.parent[x].Get()
	}
	return x
}

func (p *KTreesPropagator) union(a, b int) {
	ra, rb := p.find(a), p.find(b)
	if ra == rb {
		return
	}
	if p.rank[ra].Get() < p.rank[rb].Get() {
		ra, rb = rb, ra
	}
	p.parent[rb].Set(ra)
	if p.rank[ra].Get() == p.rank[rb].Get() {
		p.rank[ra].Set(p.rank[ra].Get() + 1)
	}
	p.count.Set(p.count.Get() - 1)
}

func (p *KTreesPropagator) InitialPropagate() error {
	for i := 0; i < p.n; i++ {
		if p.g.ArcExists(i, i) {
			if err := p.processSelfLoop(i); err != nil {
				return err
			}
		}
		p.g.KernelSuccessors(i).Each(func(j int) {
			if j != i {
				_ = p.processParentArc(i, j)
			}
		})
	}
	return p.sync()
}

func (p *KTreesPropagator) Propagate(varIndex int, mask EventMask) error {
	for _, payload := range p.engine.DrainDeltas(p.ID(), varIndex) {
		ae, ok := payload.(ArcEvent)
		if !ok || !p.g.ArcExists(ae.I, ae.J) {
			// Removed arcs arrive with the same payload and carry no parent.
			continue
		}
		var err error
		if ae.I == ae.J {
			err = p.processSelfLoop(ae.I)
		} else {
			err = p.processParentArc(ae.I, ae.J)
		}
		if err != nil {
			return err
		}
	}
	return p.sync()
}

// processSelfLoop marks i a confirmed root: it can have no other out-arc.
func (p *KTreesPropagator) processSelfLoop(i int) error {
	if p.isRoot[i].Get() {
		return nil
	}
	p.isRoot[i].Set(true)
	p.roots.Set(p.roots.Get() + 1)
	var toRemove []int
	p.g.EnvelopeSuccessors(i).Each(func(j int) {
		if j != i {
			toRemove = append(toRemove, j)
		}
	})
	for _, j := range toRemove {
		if err := p.g.RemoveArc(i, j, p); err != nil {
			return err
		}
	}
	return nil
}

// processParentArc folds a newly mandatory non-self parent pointer u->v
// into the union-find, failing if u and v were already connected (which
// would close a rootless cycle), and strips every other possible out-arc
// of u, its self-loop included.
func (p *KTreesPropagator) processParentArc(u, v int) error {
	if p.find(u) == p.find(v) {
		return NewContradiction(p.g.Name(), MsgUnknown, p)
	}
	p.union(u, v)
	var toRemove []int
	p.g.EnvelopeSuccessors(u).Each(func(j int) {
		if j != v {
			toRemove = append(toRemove, j)
		}
	})
	for _, j := range toRemove {
		if err := p.g.RemoveArc(u, j, p); err != nil {
			return err
		}
	}
	return nil
}

func (p *KTreesPropagator) sync() error {
	if err := p.k.UpdateLB(p.roots.Get(), p); err != nil {
		return err
	}
	if err := p.k.UpdateUB(p.count.Get(), p); err != nil {
		return err
	}
	for i := 0; i < p.n; i++ {
		if p.isRoot[i].Get() || p.g.ArcExists(i, i) {
			continue
		}
		if !p.g.ArcPossible(i, i) && nonSelfEnvelopeDegree(p.g, i) == 0 && !hasNonSelfKernelOutArc(p.g, i) {
			return NewContradiction(p.g.Name(), MsgEmpty, p)
		}
	}
	return nil
}

func (p *KTreesPropagator) IsEntailed() Entailment {
	if p.roots.Get() == p.count.Get() {
		return EntailmentTrue
	}
	return EntailmentUndefined
}

func nonSelfEnvelopeDegree(g *GraphVar, i int) int {
	count := 0
	g.EnvelopeSuccessors(i).Each(func(j int) {
		if j != i {
			count++
		}
	})
	return count
}

func hasNonSelfKernelOutArc(g *GraphVar, i int) bool {
	found := false
	g.KernelSuccessors(i).Each(func(j int) {
		if j != i {
			found = true
		}
	})
	return found
}

package cpkernel

// SumView is the non-owning projection object of spec §4.2/§9: a derived
// "variable" A+B that owns only its own reversible bounds cache and
// forwards every tightening to A and B via filter_geq/filter_leq helpers.
// It establishes the general pattern for any derived variable: no trailed
// state beyond the projection, consistency maintained by a bidirectional
// subscription (the embedded sumViewSync propagator).
type SumView struct {
	id     int
	name   string
	engine *Engine
	a, b   *IntVar
	lb, ub *RevInt
}

// NewSumView creates a view variable representing a+b and posts the
// internal propagator that keeps it synchronized in both directions.
func NewSumView(engine *Engine, name string, a, b *IntVar) (*SumView, error) {
	sv := &SumView{
		id:     engine.NewVarID(),
		name:   name,
		engine: engine,
		a:      a,
		b:      b,
		lb:     NewRevInt(engine.Env(), a.LB()+b.LB()),
		ub:     NewRevInt(engine.Env(), a.UB()+b.UB()),
	}
	sync := newSumViewSync(engine, sv)
	if err := engine.Post(sync); err != nil {
		return nil, err
	}
	return sv, nil
}

// ID returns the view's notification id: other propagators may subscribe
// to it exactly like a real IntVar.
func (sv *SumView) ID() int { return sv.id }

// Name returns the view's display name.
func (sv *SumView) Name() string { return sv.name }

// LB returns the view's current lower bound.
func (sv *SumView) LB() int { return sv.lb.Get() }

// UB returns the view's current upper bound.
func (sv *SumView) UB() int { return sv.ub.Get() }

// IsInstantiated reports whether the view has collapsed to a single value.
func (sv *SumView) IsInstantiated() bool { return sv.lb.Get() == sv.ub.Get() }

// UpdateLB tightens the view's lower bound to at least val by pushing the
// equivalent filter_geq reductions onto A and B: to guarantee A+B>=val,
// A must be at least val-B.ub and B at least val-A.ub.
func (sv *SumView) UpdateLB(val int, cause Cause) error {
	if val <= sv.lb.Get() {
		return nil
	}
	if err := sv.a.UpdateLB(val-sv.b.UB(), cause); err != nil {
		return err
	}
	if err := sv.b.UpdateLB(val-sv.a.UB(), cause); err != nil {
		return err
	}
	return sv.resync(val, sv.ub.Get(), cause)
}

// UpdateUB tightens the view's upper bound to at most val.
func (sv *SumView) UpdateUB(val int, cause Cause) error {
	if val >= sv.ub.Get() {
		return nil
	}
	if err := sv.a.UpdateUB(val-sv.b.LB(), cause); err != nil {
		return err
	}
	if err := sv.b.UpdateUB(val-sv.a.LB(), cause); err != nil {
		return err
	}
	return sv.resync(sv.lb.Get(), val, cause)
}

// resync intersects [capLB, capUB] with the bounds implied by A and B,
// stores the result as the cached bounds and notifies subscribers of the
// aggregated event, upgrading to INSTANTIATE if the view collapsed.
func (sv *SumView) resync(capLB, capUB int, cause Cause) error {
	oldLB, oldUB := sv.lb.Get(), sv.ub.Get()
	newLB := max(capLB, sv.a.LB()+sv.b.LB())
	newUB := min(capUB, sv.a.UB()+sv.b.UB())
	if newLB > newUB {
		return NewContradiction(sv.name, MsgEmpty, cause)
	}
	if newLB == oldLB && newUB == oldUB {
		return nil
	}
	sv.lb.Set(newLB)
	sv.ub.Set(newUB)

	var e Event
	switch {
	case newLB == newUB:
		e = EventInstantiate
	case newLB > oldLB && newUB < oldUB:
		e = EventBound
	case newLB > oldLB:
		e = EventIncLow
	default:
		e = EventDecUpp
	}
	sv.engine.RecordExplanation(sv.name, e, newLB, cause)
	sv.engine.Notify(sv.id, e)
	return nil
}

// sumViewSync is the bidirectional propagator that keeps a SumView
// consistent with its two base variables: whenever A or B moves, it
// recomputes the view's bounds (back-propagation); it never needs to push
// values onto A/B itself, since SumView.UpdateLB/UpdateUB already forward
// in the other direction.
type sumViewSync struct {
	PropagatorBase
	view *SumView
}

func newSumViewSync(engine *Engine, view *SumView) *sumViewSync {
	p := &sumViewSync{
		PropagatorBase: NewPropagatorBase(engine, "SumViewSync", PriorityBinary),
		view:           view,
	}
	engine.Subscribe(view.a.ID(), p, EventMask(EventBound|EventIncLow|EventDecUpp|EventInstantiate))
	engine.Subscribe(view.b.ID(), p, EventMask(EventBound|EventIncLow|EventDecUpp|EventInstantiate))
	return p
}

func (p *sumViewSync) InitialPropagate() error {
	return p.view.resync(p.view.lb.Get(), p.view.ub.Get(), p)
}

func (p *sumViewSync) Propagate(int, EventMask) error {
	return p.view.resync(p.view.lb.Get(), p.view.ub.Get(), p)
}

func (p *sumViewSync) IsEntailed() Entailment {
	if p.view.IsInstantiated() {
		return EntailmentTrue
	}
	return EntailmentUndefined
}

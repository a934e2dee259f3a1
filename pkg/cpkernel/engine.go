package cpkernel

// subscription is one (propagator, event mask) pair registered against a
// variable id.
type subscription struct {
	prop Propagator
	mask EventMask
}

// propState is the engine's scratch bookkeeping for one posted propagator:
// whether it is currently sitting in a tier queue and what events it has
// accumulated since it last ran. This is deliberately not reversible —
// it is drained to empty by Run before control ever returns to the search
// loop, and explicitly reset on contradiction.
type propState struct {
	scheduled bool
	pending   EventMask
	full      bool     // true if this wake-up should pass a full mask (post / force)
	dirty     []int    // variable ids that notified this propagator since its last run, in notification order
	dirtySeen map[int]bool // dedup set for dirty, so a variable notifying twice isn't queued twice
}

// Engine is the propagation engine of spec §4.6: a multi-level priority
// queue that drains scheduled propagators to a fixed point or a
// contradiction. Engine also owns variable-id allocation and the
// subscription table, since both the variable layer and the propagators
// need a single shared notifier.
type Engine struct {
	env *Env

	nextVarID int
	subs      map[int][]subscription

	propagators []Propagator
	state       map[int]*propState
	queues      [numPriorities][]int // FIFO of propagator ids, lowest tier first

	// deltas holds fine-grained change payloads (e.g. which arc was
	// enforced) per (propagator id, variable id), for graph-variable
	// propagators that need to know exactly what changed rather than
	// only that something did. Drained by DrainDeltas.
	deltas map[[2]int][]interface{}

	tracer  Tracer
	explain ExplanationSink
}

// NewEngine creates an engine bound to env.
func NewEngine(env *Env) *Engine {
	return &Engine{
		env:     env,
		subs:    make(map[int][]subscription),
		state:   make(map[int]*propState),
		deltas:  make(map[[2]int][]interface{}),
		tracer:  NopTracer{},
		explain: NopExplanationSink{},
	}
}

// SetTracer installs a Tracer for structured diagnostics; pass NopTracer{}
// (the default) to disable all logging.
func (eng *Engine) SetTracer(t Tracer) {
	if t == nil {
		t = NopTracer{}
	}
	eng.tracer = t
}

// SetExplanationSink installs an ExplanationSink; pass NopExplanationSink{}
// (the default) to stop recording.
func (eng *Engine) SetExplanationSink(s ExplanationSink) {
	if s == nil {
		s = NopExplanationSink{}
	}
	eng.explain = s
}

// RecordExplanation forwards one mutation tuple to the installed sink.
// Called by variable/graph mutators alongside Notify, once per successful
// reduction.
func (eng *Engine) RecordExplanation(varName string, e Event, value int, cause Cause) {
	eng.explain.Record(varName, e, value, cause)
}

// Env exposes the underlying reversible environment.
func (eng *Engine) Env() *Env { return eng.env }

// NewVarID allocates a fresh variable identifier for the notification
// table. Integer variables, graph variables and views all share this
// space.
func (eng *Engine) NewVarID() int {
	id := eng.nextVarID
	eng.nextVarID++
	return id
}

// Subscribe registers p to react to mask on varID. Called by a propagator's
// constructor for each variable it reads.
func (eng *Engine) Subscribe(varID int, p Propagator, mask EventMask) {
	eng.subs[varID] = append(eng.subs[varID], subscription{prop: p, mask: mask})
}

// Post registers p with the engine, assigns its post-order id, and runs its
// initial propagation with a full mask. Returns a *Contradiction if the
// initial state is already inconsistent.
func (eng *Engine) Post(p Propagator) error {
	id := len(eng.propagators)
	p.SetID(id)
	eng.propagators = append(eng.propagators, p)
	eng.state[id] = &propState{}
	eng.tracer.Trace("propagator.post", map[string]interface{}{"id": id, "cause": p.CauseName(), "priority": p.PriorityTier().String()})
	if err := p.InitialPropagate(); err != nil {
		return err
	}
	return eng.Run()
}

// Notify is called by a variable/graph mutator after a successful
// reduction. It enqueues every non-passive subscriber whose mask includes
// e, coalescing repeated notifications of an already-scheduled propagator.
func (eng *Engine) Notify(varID int, e Event) {
	for _, sub := range eng.subs[varID] {
		if !sub.mask.Has(e) {
			continue
		}
		eng.schedule(sub.prop, EventMask(e), false, varID)
	}
}

// NotifyWithPayload behaves like Notify but additionally records payload
// for every matching subscriber, retrievable with DrainDeltas. Used by
// graph variables, whose propagators need to know exactly which arc or
// node changed rather than only that some event occurred.
func (eng *Engine) NotifyWithPayload(varID int, e Event, payload interface{}) {
	for _, sub := range eng.subs[varID] {
		if !sub.mask.Has(e) {
			continue
		}
		key := [2]int{sub.prop.ID(), varID}
		eng.deltas[key] = append(eng.deltas[key], payload)
		eng.schedule(sub.prop, EventMask(e), false, varID)
	}
}

// DrainDeltas returns and clears every payload recorded for propagator id
// on variable varID since the last drain.
func (eng *Engine) DrainDeltas(propagatorID, varID int) []interface{} {
	key := [2]int{propagatorID, varID}
	d := eng.deltas[key]
	delete(eng.deltas, key)
	return d
}

// schedule enqueues p if it isn't already pending. varID is the variable
// whose change triggered this call, recorded so Run can hand Propagate the
// actual variable id instead of the propagator's own id; pass -1 for a
// full/forced wake-up that isn't tied to one variable.
func (eng *Engine) schedule(p Propagator, mask EventMask, full bool, varID int) {
	if pb, ok := p.(interface{ IsPassive() bool }); ok && pb.IsPassive() {
		return
	}
	st := eng.state[p.ID()]
	st.pending |= mask
	if full {
		st.full = true
	}
	if varID >= 0 {
		if st.dirtySeen == nil {
			st.dirtySeen = make(map[int]bool, 2)
		}
		if !st.dirtySeen[varID] {
			st.dirtySeen[varID] = true
			st.dirty = append(st.dirty, varID)
		}
	}
	if st.scheduled {
		return
	}
	st.scheduled = true
	tier := p.PriorityTier()
	eng.queues[tier] = append(eng.queues[tier], p.ID())
}

// scheduleFull enqueues p for a full, non-incremental wake-up regardless of
// event mask (used by Propagator.ForcePropagate).
func (eng *Engine) scheduleFull(p Propagator) {
	eng.schedule(p, 0, true, -1)
}

// Run drains the queue from the lowest non-empty tier until it is empty
// (fixed point) or a propagator raises a contradiction, in which case the
// caller (the search loop) is responsible for resetting the queue and
// popping the trail. At most one propagator executes at a time; a
// propagator reduction may enqueue further propagators, which are drained
// in the same call.
func (eng *Engine) Run() error {
	for {
		tier, id, ok := eng.nextScheduled()
		if !ok {
			return nil
		}
		st := eng.state[id]
		mask := st.pending
		full := st.full
		dirty := st.dirty
		st.pending = 0
		st.full = false
		st.dirty = nil
		st.dirtySeen = nil
		st.scheduled = false
		p := eng.propagators[id]

		eng.tracer.Trace("propagator.run", map[string]interface{}{"id": id, "tier": tier.String(), "mask": mask.String()})

		var err error
		if full {
			err = p.InitialPropagate()
		} else if inc, isInc := p.(Incremental); isInc {
			// dirty is already in first-notified order (schedule appends,
			// never reorders), so dispatch order is reproducible run to
			// run for the same model/strategy — unlike ranging a map.
			for _, varID := range dirty {
				if err = inc.Propagate(varID, mask); err != nil {
					break
				}
			}
		} else {
			err = p.InitialPropagate()
		}
		if err != nil {
			eng.tracer.Trace("propagator.fail", map[string]interface{}{"id": id, "error": err.Error()})
			return err
		}
	}
}

func (eng *Engine) nextScheduled() (Priority, int, bool) {
	for tier := Priority(0); tier < numPriorities; tier++ {
		q := eng.queues[tier]
		for len(q) > 0 {
			id := q[0]
			q = q[1:]
			eng.queues[tier] = q
			if eng.state[id].scheduled {
				return tier, id, true
			}
			// Already drained via a different path (shouldn't happen, but
			// keep the loop total).
		}
	}
	return 0, 0, false
}

// ResetQueue discards every pending scheduling entry. Called by the search
// loop after catching a Contradiction and before popping the trail, since
// popping does not (and must not) touch this non-reversible bookkeeping.
func (eng *Engine) ResetQueue() {
	for tier := range eng.queues {
		eng.queues[tier] = eng.queues[tier][:0]
	}
	for _, st := range eng.state {
		st.scheduled = false
		st.pending = 0
		st.full = false
		st.dirty = nil
		st.dirtySeen = nil
	}
	for k := range eng.deltas {
		delete(eng.deltas, k)
	}
}

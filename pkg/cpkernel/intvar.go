package cpkernel

// offsetBitSet adapts a RevBitSet (which only speaks 1-indexed positive
// values) onto an arbitrary integer range [lo, hi] by storing v at bitset
// position v-lo+1. This lets enumerated IntVars hold negative or
// zero-based domains without reimplementing the bitset.
type offsetBitSet struct {
	lo   int
	bits *RevBitSet
}

func newOffsetBitSet(env *Env, lo, hi int) *offsetBitSet {
	return &offsetBitSet{lo: lo, bits: NewRevBitSet(env, hi-lo+1)}
}

func newOffsetBitSetFromValues(env *Env, lo, hi int, values []int) *offsetBitSet {
	positions := make([]int, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			positions = append(positions, v-lo+1)
		}
	}
	return &offsetBitSet{lo: lo, bits: NewRevBitSetFromValues(env, hi-lo+1, positions)}
}

func (o *offsetBitSet) has(v int) bool    { return o.bits.Has(v - o.lo + 1) }
func (o *offsetBitSet) remove(v int)      { o.bits.Remove(v - o.lo + 1) }
func (o *offsetBitSet) removeRange(l, h int) {
	o.bits.RemoveRange(l-o.lo+1, h-o.lo+1)
}
func (o *offsetBitSet) count() int { return o.bits.Count() }
func (o *offsetBitSet) min() int {
	p := o.bits.Min()
	if p == 0 {
		return 0
	}
	return p + o.lo - 1
}
func (o *offsetBitSet) max() int {
	p := o.bits.Max()
	if p == 0 {
		return 0
	}
	return p + o.lo - 1
}
func (o *offsetBitSet) next(v int) int {
	p := o.bits.Next(v - o.lo + 1)
	if p == 0 {
		return 0
	}
	return p + o.lo - 1
}
func (o *offsetBitSet) previous(v int) int {
	p := o.bits.Previous(v - o.lo + 1)
	if p == 0 {
		return 0
	}
	return p + o.lo - 1
}
func (o *offsetBitSet) each(f func(int)) {
	o.bits.Each(func(p int) { f(p + o.lo - 1) })
}

// IntVar is a finite-domain integer variable (spec §3.1/§4.2), either in
// bounded mode (tracks only [lb, ub]) or enumerated mode (tracks the exact
// set of remaining values). Both modes live entirely on the Env's trail.
type IntVar struct {
	id      int
	name    string
	engine  *Engine
	bounded bool

	// bounded mode
	lb, ub *RevInt

	// enumerated mode
	dom *offsetBitSet
}

// NewBoundedIntVar creates an interval-mode variable over [lo, hi].
func NewBoundedIntVar(engine *Engine, name string, lo, hi int) *IntVar {
	env := engine.Env()
	v := &IntVar{
		id:      engine.NewVarID(),
		name:    name,
		engine:  engine,
		bounded: true,
		lb:      NewRevInt(env, lo),
		ub:      NewRevInt(env, hi),
	}
	return v
}

// NewEnumeratedIntVar creates an enumerated-mode variable over [lo, hi].
func NewEnumeratedIntVar(engine *Engine, name string, lo, hi int) *IntVar {
	env := engine.Env()
	return &IntVar{
		id:     engine.NewVarID(),
		name:   name,
		engine: engine,
		dom:    newOffsetBitSet(env, lo, hi),
	}
}

// NewEnumeratedIntVarFromValues creates an enumerated-mode variable holding
// exactly the given values.
func NewEnumeratedIntVarFromValues(engine *Engine, name string, values []int) *IntVar {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	env := engine.Env()
	return &IntVar{
		id:     engine.NewVarID(),
		name:   name,
		engine: engine,
		dom:    newOffsetBitSetFromValues(env, lo, hi, values),
	}
}

// ID returns the variable's engine-assigned notification id.
func (v *IntVar) ID() int { return v.id }

// Name returns the variable's display name.
func (v *IntVar) Name() string { return v.name }

// HasEnumeratedDomain reports whether v tracks individual values rather
// than only its bounds.
func (v *IntVar) HasEnumeratedDomain() bool { return !v.bounded }

// LB returns the current lower bound.
func (v *IntVar) LB() int {
	if v.bounded {
		return v.lb.Get()
	}
	return v.dom.min()
}

// UB returns the current upper bound.
func (v *IntVar) UB() int {
	if v.bounded {
		return v.ub.Get()
	}
	return v.dom.max()
}

// Size returns the number of values still in the domain.
func (v *IntVar) Size() int {
	if v.bounded {
		return v.ub.Get() - v.lb.Get() + 1
	}
	return v.dom.count()
}

// IsInstantiated reports whether the domain has collapsed to one value.
func (v *IntVar) IsInstantiated() bool { return v.Size() == 1 }

// Contains reports whether val is still in the domain.
func (v *IntVar) Contains(val int) bool {
	if v.bounded {
		return val >= v.lb.Get() && val <= v.ub.Get()
	}
	return v.dom.has(val)
}

// NextValue returns the smallest remaining value strictly greater than
// val, or val itself if there is none. Bounded domains treat every integer
// in range as present.
func (v *IntVar) NextValue(val int) int {
	if v.bounded {
		if val+1 <= v.ub.Get() {
			return val + 1
		}
		return val
	}
	if n := v.dom.next(val); n != 0 {
		return n
	}
	return val
}

// PreviousValue returns the largest remaining value strictly less than
// val, or val if there is none.
func (v *IntVar) PreviousValue(val int) int {
	if v.bounded {
		if val-1 >= v.lb.Get() {
			return val - 1
		}
		return val
	}
	if p := v.dom.previous(val); p != 0 {
		return p
	}
	return val
}

// event computes the weakest event describing a reduction from the old
// bounds/size to the current state, upgrading to INSTANTIATE if the
// reduction completed instantiation.
func (v *IntVar) event(oldLB, oldUB int, removedInterior bool) Event {
	if v.IsInstantiated() {
		return EventInstantiate
	}
	movedLow := v.LB() > oldLB
	movedUp := v.UB() < oldUB
	switch {
	case movedLow && movedUp:
		return EventBound
	case movedLow:
		return EventIncLow
	case movedUp:
		return EventDecUpp
	case removedInterior:
		return EventRemove
	}
	return EventRemove
}

// UpdateLB tightens the lower bound to max(LB(), v); fails if it would
// cross the upper bound.
func (v *IntVar) UpdateLB(val int, cause Cause) error {
	oldLB, oldUB := v.LB(), v.UB()
	if val <= oldLB {
		return nil
	}
	if val > oldUB {
		return NewContradiction(v.name, MsgLow, cause)
	}
	if v.bounded {
		v.lb.Set(val)
	} else {
		v.dom.removeRange(oldLB, val-1)
		if v.dom.count() == 0 {
			return NewContradiction(v.name, MsgEmpty, cause)
		}
	}
	v.engine.RecordExplanation(v.name, EventIncLow, val, cause)
	v.engine.Notify(v.id, v.event(oldLB, oldUB, false))
	return nil
}

// UpdateUB tightens the upper bound to min(UB(), v); fails if it would
// cross the lower bound.
func (v *IntVar) UpdateUB(val int, cause Cause) error {
	oldLB, oldUB := v.LB(), v.UB()
	if val >= oldUB {
		return nil
	}
	if val < oldLB {
		return NewContradiction(v.name, MsgUpp, cause)
	}
	if v.bounded {
		v.ub.Set(val)
	} else {
		v.dom.removeRange(val+1, oldUB)
		if v.dom.count() == 0 {
			return NewContradiction(v.name, MsgEmpty, cause)
		}
	}
	v.engine.RecordExplanation(v.name, EventDecUpp, val, cause)
	v.engine.Notify(v.id, v.event(oldLB, oldUB, false))
	return nil
}

// RemoveValue removes a single value. For bounded domains this is only
// legal at a bound: removing an interior value of a bounded domain cannot
// be represented and panics.
func (v *IntVar) RemoveValue(val int, cause Cause) error {
	if !v.Contains(val) {
		return nil
	}
	oldLB, oldUB := v.LB(), v.UB()
	if v.bounded {
		switch val {
		case oldLB:
			return v.UpdateLB(val+1, cause)
		case oldUB:
			return v.UpdateUB(val-1, cause)
		default:
			panic("cpkernel: RemoveValue of an interior value on a bounded IntVar")
		}
	}
	v.dom.remove(val)
	if v.dom.count() == 0 {
		return NewContradiction(v.name, MsgEmpty, cause)
	}
	v.engine.RecordExplanation(v.name, EventRemove, val, cause)
	v.engine.Notify(v.id, v.event(oldLB, oldUB, true))
	return nil
}

// RemoveInterval removes every value in [lo, hi].
func (v *IntVar) RemoveInterval(lo, hi int, cause Cause) error {
	if hi < lo {
		return nil
	}
	oldLB, oldUB := v.LB(), v.UB()
	if lo <= oldLB && hi >= oldUB {
		return NewContradiction(v.name, MsgEmpty, cause)
	}
	if lo <= oldLB {
		return v.UpdateLB(hi+1, cause)
	}
	if hi >= oldUB {
		return v.UpdateUB(lo-1, cause)
	}
	if v.bounded {
		panic("cpkernel: RemoveInterval of an interior range on a bounded IntVar")
	}
	v.dom.removeRange(lo, hi)
	if v.dom.count() == 0 {
		return NewContradiction(v.name, MsgEmpty, cause)
	}
	v.engine.RecordExplanation(v.name, EventRemove, lo, cause)
	v.engine.Notify(v.id, v.event(oldLB, oldUB, true))
	return nil
}

// InstantiateTo fixes the domain to exactly val; fails if val is not
// currently in the domain.
func (v *IntVar) InstantiateTo(val int, cause Cause) error {
	if !v.Contains(val) {
		return NewContradiction(v.name, MsgInst, cause)
	}
	if v.IsInstantiated() {
		return nil
	}
	if v.bounded {
		v.lb.Set(val)
		v.ub.Set(val)
	} else {
		v.dom.removeRange(v.dom.min(), val-1)
		v.dom.removeRange(val+1, v.dom.max())
	}
	v.engine.RecordExplanation(v.name, EventInstantiate, val, cause)
	v.engine.Notify(v.id, EventInstantiate)
	return nil
}

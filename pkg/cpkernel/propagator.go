package cpkernel

import "fmt"

// Priority is the propagator scheduling tier of spec §4.6. Lower tiers are
// drained first; within a tier, propagators run FIFO by post-order id.
type Priority int

// Recognised priority tiers, lowest (cheapest) first.
const (
	PriorityUnary Priority = iota
	PriorityBinary
	PriorityTernary
	PriorityLinear
	PriorityQuadratic
	PriorityCubic
	PriorityVerySlow
	numPriorities
)

func (p Priority) String() string {
	switch p {
	case PriorityUnary:
		return "UNARY"
	case PriorityBinary:
		return "BINARY"
	case PriorityTernary:
		return "TERNARY"
	case PriorityLinear:
		return "LINEAR"
	case PriorityQuadratic:
		return "QUADRATIC"
	case PriorityCubic:
		return "CUBIC"
	case PriorityVerySlow:
		return "VERY_SLOW"
	default:
		return "UNKNOWN"
	}
}

// Entailment is the three-valued result of Propagator.IsEntailed.
type Entailment int

// Recognised entailment values.
const (
	EntailmentUndefined Entailment = iota
	EntailmentTrue
	EntailmentFalse
)

// Reason is one premise contributed by Propagator.Why, naming the variable,
// event and value that justified a filtering decision. Used only by a
// learning ExplanationSink; the default sink discards them entirely.
type Reason struct {
	VarName string
	Event   Event
	Value   int
}

// Propagator is the contract implemented by every filtering algorithm
// (spec §4.5). Incremental propagates by var/event; non-incremental
// propagators omit Propagate (via the Incremental interface below) and are
// always re-run with a full mask through InitialPropagate.
type Propagator interface {
	Cause

	// ID returns this propagator's post-order identifier, assigned at Post
	// time. Used for the engine's deterministic FIFO tie-break.
	ID() int

	// SetID is called exactly once by the engine at Post time.
	SetID(id int)

	// PriorityTier returns the scheduling tier this propagator runs at.
	PriorityTier() Priority

	// InitialPropagate establishes consistency from scratch; called once
	// at post time with a full mask, and again for any non-incremental
	// propagator on every subsequent wake-up.
	InitialPropagate() error

	// IsEntailed reports whether the constraint this propagator filters
	// for is already guaranteed to hold, guaranteed to fail, or still
	// undecided.
	IsEntailed() Entailment

	// Why returns the premises that justify the given filtering event, or
	// nil if this propagator does not support explanations.
	Why(varName string, e Event, value int) []Reason
}

// Incremental is implemented by propagators that can react to a single
// variable's event mask instead of being re-run from scratch. Propagators
// that don't implement it are always driven through InitialPropagate.
type Incremental interface {
	Propagate(varIndex int, mask EventMask) error
}

// PropagatorBase provides the bookkeeping every propagator needs: an
// identifier, a priority tier, and a reversible passive flag (passivation
// must be undone on backtrack, per spec §4.5).
type PropagatorBase struct {
	id       int
	priority Priority
	name     string
	passive  *RevBool
	engine   *Engine
}

// NewPropagatorBase constructs the embeddable base. name is used for
// CauseName/logging; priority is the scheduling tier.
func NewPropagatorBase(engine *Engine, name string, priority Priority) PropagatorBase {
	return PropagatorBase{
		priority: priority,
		name:     name,
		passive:  NewRevBool(engine.env, false),
		engine:   engine,
	}
}

// ID implements Propagator.
func (b *PropagatorBase) ID() int { return b.id }

// SetID implements Propagator.
func (b *PropagatorBase) SetID(id int) { b.id = id }

// PriorityTier implements Propagator.
func (b *PropagatorBase) PriorityTier() Priority { return b.priority }

// CauseName implements Cause.
func (b *PropagatorBase) CauseName() string { return fmt.Sprintf("%s#%d", b.name, b.id) }

// IsPassive reports whether SetPassive has been called and not yet undone
// by a backtrack past that point.
func (b *PropagatorBase) IsPassive() bool { return b.passive.Get() }

// SetPassive marks the propagator entailed: the engine skips it until the
// trail is popped past this point, at which point passivation itself is
// reversed (it was recorded on the same reversible cell).
func (b *PropagatorBase) SetPassive() { b.passive.Set(true) }

// ForcePropagate re-enqueues this propagator at its tier with a full mask,
// bypassing event-based scheduling. Used by propagators whose own
// reversible state changed in a way the event system can't see (e.g. a
// subgradient iteration counter).
func (b *PropagatorBase) ForcePropagate(self Propagator) {
	b.engine.scheduleFull(self)
}

// Why provides the default no-op explanation: propagators that want richer
// explanations override this method on their embedding type.
func (b *PropagatorBase) Why(string, Event, int) []Reason { return nil }

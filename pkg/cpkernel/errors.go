package cpkernel

import "fmt"

// ReasonTag is a short code naming why a Contradiction was raised, matching
// spec §7's closed list of reason tags.
type ReasonTag string

// Reason tags for Contradiction, per spec §7.
const (
	MsgEmpty   ReasonTag = "MSG_EMPTY"
	MsgLow     ReasonTag = "MSG_LOW"
	MsgUpp     ReasonTag = "MSG_UPP"
	MsgInst    ReasonTag = "MSG_INST"
	MsgUnknown ReasonTag = "MSG_UNKNOWN"
	MsgRemove  ReasonTag = "MSG_REMOVE"
)

// Contradiction is the expected failure raised by a propagator or domain
// mutator when the current partial assignment is inconsistent. It is
// caught by the search loop, which backtracks; it must never reach the
// model-facing caller directly.
type Contradiction struct {
	VarName string
	Reason  ReasonTag
	Cause   Cause
}

func (c *Contradiction) Error() string {
	who := "?"
	if c.Cause != nil {
		who = c.Cause.CauseName()
	}
	return fmt.Sprintf("contradiction on %s: %s (caused by %s)", c.VarName, c.Reason, who)
}

// NewContradiction constructs a Contradiction with the given reason tag.
func NewContradiction(varName string, reason ReasonTag, cause Cause) *Contradiction {
	return &Contradiction{VarName: varName, Reason: reason, Cause: cause}
}

// ModelError signals misuse of the model-facing API (posting a constraint
// twice, an out-of-range bound, a malformed graph size). It is surfaced
// immediately and search is never started.
type ModelError struct {
	Op  string
	Msg string
}

func (e *ModelError) Error() string { return fmt.Sprintf("cpkernel: %s: %s", e.Op, e.Msg) }

// NewModelError constructs a ModelError.
func NewModelError(op, msg string) *ModelError { return &ModelError{Op: op, Msg: msg} }

// LimitKind distinguishes which resource limit tripped a StopCondition.
type LimitKind string

// Recognised limit kinds.
const (
	LimitTime     LimitKind = "time"
	LimitFail     LimitKind = "fail"
	LimitSolution LimitKind = "solution"
)

// ResourceExhausted signals that a configured search limit was hit. Search
// is cleanly stopped; whatever solution (if any) has been found so far is
// reported as "no proof, best-found so far" rather than an error condition.
type ResourceExhausted struct {
	Kind LimitKind
}

func (e *ResourceExhausted) Error() string {
	return fmt.Sprintf("cpkernel: search stopped: %s limit reached", e.Kind)
}

// InvariantViolation is a fatal, unrecoverable error: a reversible cell
// trailed in an unknown world, a propagator mutating a variable it never
// subscribed to, or kernel/envelope divergence on a graph variable. It is
// surfaced and aborts; callers must not attempt to continue the search.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return fmt.Sprintf("cpkernel: invariant violated: %s", e.Msg) }

// NewInvariantViolation constructs an InvariantViolation.
func NewInvariantViolation(msg string) *InvariantViolation { return &InvariantViolation{Msg: msg} }

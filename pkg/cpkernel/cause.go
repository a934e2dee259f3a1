package cpkernel

// Cause identifies the agent responsible for a domain change: the
// propagator (or search decision) that called a mutator. When an
// explanation recorder is attached it is used to build reasons for
// learning search. The engine does not filter notifications by Cause: the
// originator is re-notified like any other subscriber.
type Cause interface {
	// CauseName returns a short identifier for logging/explanations.
	CauseName() string
}

// causeFunc adapts a plain string into a Cause, for call sites (the search
// loop, ad hoc tests) that don't otherwise have a propagator handy.
type causeFunc string

// CauseName implements Cause.
func (c causeFunc) CauseName() string { return string(c) }

// NamedCause returns a Cause with the given name, for use outside a
// propagator (e.g. the search loop applying a decision).
func NamedCause(name string) Cause { return causeFunc(name) }

// decisionCause is the Cause attached to mutations performed directly by
// the search loop when applying a Decision.
var decisionCause = NamedCause("search.decision")

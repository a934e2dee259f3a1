package cpkernel

// ExplanationSink receives one record per successful domain mutation:
// which variable changed, what kind of event it was, the value involved,
// and the Cause responsible (spec §4.9). It is never required for
// soundness — only a learning search that extracts nogoods needs it — so
// the default sink discards everything.
type ExplanationSink interface {
	Record(varName string, e Event, value int, cause Cause)
}

// NopExplanationSink discards every record. It is the engine's default.
type NopExplanationSink struct{}

// Record implements ExplanationSink.
func (NopExplanationSink) Record(string, Event, int, Cause) {}

// ExplanationEntry is one recorded mutation, as kept by LearningSink.
type ExplanationEntry struct {
	VarName string
	Event   Event
	Value   int
	Cause   Cause
}

// LearningSink keeps every recorded mutation in order, so a learning search
// can later call Why on the responsible propagators to build a nogood.
// Memory grows with the number of mutations performed since the sink was
// installed; callers that need bounded memory should call Reset at
// backtrack points they control (the sink itself is not trail-aware, since
// spec §4.9 scopes it as an optional collaborator, not a reversible cell).
type LearningSink struct {
	entries []ExplanationEntry
}

// NewLearningSink creates an empty LearningSink.
func NewLearningSink() *LearningSink { return &LearningSink{} }

// Record implements ExplanationSink.
func (s *LearningSink) Record(varName string, e Event, value int, cause Cause) {
	s.entries = append(s.entries, ExplanationEntry{VarName: varName, Event: e, Value: value, Cause: cause})
}

// Entries returns every record kept so far, in recording order.
func (s *LearningSink) Entries() []ExplanationEntry { return s.entries }

// Reset discards every recorded entry.
func (s *LearningSink) Reset() { s.entries = s.entries[:0] }

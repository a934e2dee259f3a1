package cpkernel

// Tracer receives structured diagnostic events from the engine and search
// loop. It is deliberately a minimal structural interface (not tied to any
// logging library) so the kernel stays free of logging dependencies; see
// internal/telemetry for a github.com/sirupsen/logrus-backed implementation
// a caller can opt into.
type Tracer interface {
	Trace(event string, fields map[string]interface{})
}

// NopTracer discards every event. It is the engine's default so the kernel
// has no observable side effects unless a caller wires in something else.
type NopTracer struct{}

// Trace implements Tracer.
func (NopTracer) Trace(string, map[string]interface{}) {}

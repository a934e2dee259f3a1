// Package telemetry provides an optional structured-logging tracer for the
// cpkernel engine and search loop, built on github.com/sirupsen/logrus. The
// kernel itself depends on no logging library (see cpkernel.Tracer); wiring
// this in is the caller's choice.
package telemetry

import "github.com/sirupsen/logrus"

// LogrusTracer adapts a *logrus.Logger into cpkernel.Tracer. Fields are
// attached with WithFields and emitted at Debug level, so a caller's
// default log level keeps the kernel silent until they opt in.
type LogrusTracer struct {
	Logger *logrus.Logger
}

// NewLogrusTracer wraps logger, or logrus.StandardLogger() if nil.
func NewLogrusTracer(logger *logrus.Logger) *LogrusTracer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusTracer{Logger: logger}
}

// Trace implements cpkernel.Tracer.
func (t *LogrusTracer) Trace(event string, fields map[string]interface{}) {
	t.Logger.WithFields(logrus.Fields(fields)).Debug(event)
}

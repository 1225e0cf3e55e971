package bitnet

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures Engine construction.
//
// Options exist to avoid exploding the constructor surface; the zero
// configuration (silent logger, no-op metrics) is fully functional.
type Option func(*options)

// WithLogger configures structured logging for load-time events.
// The hot path never logs. If nil is passed, logging stays disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsCollector configures operational metrics collection.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

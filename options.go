package rmq

import "github.com/hupe1980/rmq/persistence"

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	verifyChecksum   bool
	compression      persistence.Compression
}

// Option configures New, Open, Save and Load.
type Option func(*options)

func applyOptions(opts []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		verifyChecksum:   true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector. If nil is passed,
// metrics are discarded.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metricsCollector = m
	}
}

// WithChecksum controls whether opening a buffer verifies its CRC32C.
// Structural validation always runs. Default: true.
func WithChecksum(verify bool) Option {
	return func(o *options) {
		o.verifyChecksum = verify
	}
}

// WithCompression sets the envelope Save wraps the encoded index in.
// Load detects the envelope on its own. Default: persistence.CompressionNone.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

package dml

import "querycore/pkg/monitoring"

// Option configures an Insert or Delete operator.
type Option func(*options)

type options struct {
	metrics *monitoring.ExecutionMetrics
}

// WithMetrics records affected row counts and aborted drains on m.
func WithMetrics(m *monitoring.ExecutionMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

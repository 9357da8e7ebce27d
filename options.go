package pubsubtrie

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// Option configures a Broker.
type Option func(*options)

type options struct {
	logger         *zap.Logger
	meterProvider  metric.MeterProvider
	pruneEmptyNode bool
}

func defaultOptions() options {
	return options{
		logger:        zap.NewNop(),
		meterProvider: noop.NewMeterProvider(),
	}
}

// WithLogger sets the logger used for debug tracing of broker operations.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMeterProvider sets the provider the broker's counters are created from.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// WithPruneEmptyNodes makes unsubscribe operations delete trie branches that
// no longer hold any subscription. Matching is unaffected.
func WithPruneEmptyNodes() Option {
	return func(o *options) {
		o.pruneEmptyNode = true
	}
}

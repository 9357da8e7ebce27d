package pubsubtrie

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

const meterName = "github.com/jonoton/go-pubsubtrie"

// Metric names.
const (
	MetricPublishes   = "pubsubtrie.publishes"
	MetricDeliveries  = "pubsubtrie.deliveries"
	MetricCacheHits   = "pubsubtrie.cache.hits"
	MetricCacheMisses = "pubsubtrie.cache.misses"
)

type brokerMetrics struct {
	publishes   metric.Int64Counter
	deliveries  metric.Int64Counter
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

func newBrokerMetrics(mp metric.MeterProvider, log *zap.Logger) *brokerMetrics {
	meter := mp.Meter(meterName)
	return &brokerMetrics{
		publishes:   int64Counter(meter, log, MetricPublishes, "Number of publish calls."),
		deliveries:  int64Counter(meter, log, MetricDeliveries, "Number of payloads handed to subscribers."),
		cacheHits:   int64Counter(meter, log, MetricCacheHits, "Number of publishes answered from the match cache."),
		cacheMisses: int64Counter(meter, log, MetricCacheMisses, "Number of publishes that walked the topic trie with caching enabled."),
	}
}

func int64Counter(meter metric.Meter, log *zap.Logger, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		log.Warn("pubsubtrie: create counter failed, using noop", zap.String("metric", name), zap.Error(err))
		return noop.Int64Counter{}
	}
	return c
}

func (m *brokerMetrics) add(c metric.Int64Counter, n int) {
	if n <= 0 {
		return
	}
	c.Add(context.Background(), int64(n))
}

package pubsubtrie

import (
	"go.uber.org/zap"
)

// Broker routes published payloads to subscribers whose topic filter matches.
//
// A Broker is not safe for concurrent use. Guard it with a single lock or use
// ConcurrentBroker.
type Broker struct {
	root     *node
	useCache bool
	cache    *resultCache
	prune    bool
	log      *zap.Logger
	metrics  *brokerMetrics
}

// Stats is a point-in-time snapshot of broker size.
type Stats struct {
	Subscriptions int
	Nodes         int // includes the root
	CacheEntries  int
}

// New creates a Broker. With useCache set, match results are memoized per
// exact published topic until the next subscribe or unsubscribe.
func New(useCache bool, opts ...Option) *Broker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &Broker{
		root:     newNode(),
		useCache: useCache,
		cache:    newResultCache(),
		prune:    o.pruneEmptyNode,
		log:      o.logger,
		metrics:  newBrokerMetrics(o.meterProvider, o.logger),
	}
	b.log.Debug("New broker created.", zap.Bool("use_cache", useCache), zap.Bool("prune_empty_nodes", b.prune))
	return b
}

// Subscribe registers h for topic. Subscribing the same handle to the same
// topic twice stores two subscriptions, and each matching publish is then
// delivered twice.
func (b *Broker) Subscribe(h Handle, topic string) {
	if h.IsZero() {
		panic("pubsubtrie: Subscribe called with zero Handle")
	}

	b.invalidateCache()
	segments := SplitTopic(topic)
	b.root.ensurePath(segments)
	b.root.insertSubscription(segments, subscription{handle: h, topic: topic})

	b.log.Debug("Subscribed.", zap.Stringer("handle", h), zap.String("topic", topic))
}

// UnsubscribeAll removes every subscription held by h, whatever its topic.
func (b *Broker) UnsubscribeAll(h Handle) {
	b.invalidateCache()
	removed := b.root.removeWhere(func(s subscription) bool {
		return s.handle.Same(h)
	})
	b.afterRemove()

	b.log.Debug("Unsubscribed from all topics.", zap.Stringer("handle", h), zap.Int("removed", removed))
}

// Unsubscribe removes h's subscriptions whose original topic string is one of
// topics. Topics are compared literally; wildcards in topics have no special
// meaning here.
func (b *Broker) Unsubscribe(h Handle, topics ...string) {
	b.invalidateCache()

	wanted := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		wanted[t] = struct{}{}
	}
	removed := b.root.removeWhere(func(s subscription) bool {
		if !s.handle.Same(h) {
			return false
		}
		_, ok := wanted[s.topic]
		return ok
	})
	b.afterRemove()

	b.log.Debug("Unsubscribed.", zap.Stringer("handle", h), zap.Strings("topics", topics), zap.Int("removed", removed))
}

// Stats reports the current number of subscriptions, trie nodes and cache
// entries.
func (b *Broker) Stats() Stats {
	return Stats{
		Subscriptions: b.root.countSubscriptions(),
		Nodes:         b.root.countNodes(),
		CacheEntries:  b.cache.len(),
	}
}

func (b *Broker) afterRemove() {
	if !b.prune {
		return
	}
	if n := b.root.prune(); n > 0 {
		b.log.Debug("Pruned empty nodes.", zap.Int("count", n))
	}
}

func (b *Broker) invalidateCache() {
	if !b.useCache {
		return
	}
	if n := b.cache.invalidate(); n > 0 {
		b.log.Debug("Cache invalidated.", zap.Int("entries", n))
	}
}

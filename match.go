package pubsubtrie

import (
	"go.uber.org/zap"
)

// Publish delivers payload to every subscription matching topic, in match
// order, and returns once all subscribers have been called.
func (b *Broker) Publish(topic string, payload []byte) {
	handles := b.lookup(topic)
	b.deliver(topic, handles, payload)
}

// Match returns the handles a Publish of topic would call, in delivery order.
// A handle appears once per matching subscription. The returned slice is owned
// by the caller.
func (b *Broker) Match(topic string) []Handle {
	return append([]Handle(nil), b.lookup(topic)...)
}

// lookup answers from the cache when possible, otherwise walks the trie and
// records the result. The returned slice may be shared with the cache.
func (b *Broker) lookup(topic string) []Handle {
	if b.useCache {
		if handles, ok := b.cache.get(topic); ok {
			b.metrics.add(b.metrics.cacheHits, 1)
			b.log.Debug("Cache hit.", zap.String("topic", topic), zap.Int("subscribers", len(handles)))
			return handles
		}
		b.metrics.add(b.metrics.cacheMisses, 1)
	}

	handles := b.root.match(SplitTopic(topic), nil)
	if b.useCache {
		b.cache.put(topic, handles)
	}
	return handles
}

func (b *Broker) deliver(topic string, handles []Handle, payload []byte) {
	b.metrics.add(b.metrics.publishes, 1)
	if len(handles) == 0 {
		return
	}

	b.log.Debug("Publishing.", zap.String("topic", topic), zap.Int("subscribers", len(handles)), zap.Int("bytes", len(payload)))
	for _, h := range handles {
		h.sub.Receive(payload)
	}
	b.metrics.add(b.metrics.deliveries, len(handles))
}

// match appends, in walk order, the handles of every subscription below n
// that matches the remaining segments. At each level the literal child is
// visited first, then "#", then "+".
func (n *node) match(segments []string, out []Handle) []Handle {
	if len(segments) == 0 {
		return out
	}

	seg, rest := segments[0], segments[1:]
	last := len(rest) == 0

	for i, key := range [...]string{seg, MultiLevelWildcard, SingleLevelWildcard} {
		// A published segment that is itself "#" or "+" is handled by the
		// wildcard edge of the same name, so the child is visited once.
		if i == 0 && isWildcard(seg) {
			continue
		}
		child, ok := n.children[key]
		if !ok {
			continue
		}

		if key == MultiLevelWildcard {
			// "#" swallows everything that is left; matching ends here.
			out = child.collect(out)
			continue
		}

		if last {
			out = child.collect(out)
			// "a/#" also matches the bare "a".
			if hash, ok := child.children[MultiLevelWildcard]; ok {
				out = hash.collect(out)
			}
			continue
		}
		out = child.match(rest, out)
	}
	return out
}

// collect appends the handles of the subscriptions stored at n.
func (n *node) collect(out []Handle) []Handle {
	for _, s := range n.subs {
		out = append(out, s.handle)
	}
	return out
}

package pubsubtrie

import (
	"context"
	"fmt"
	"sync"
)

// ConcurrentBroker is a Broker guarded by one mutex. Publish resolves the
// matching handles under the lock and calls the subscribers after releasing
// it, so a subscriber may publish or subscribe from inside Receive.
type ConcurrentBroker struct {
	mu sync.Mutex
	b  *Broker
}

// NewConcurrent creates a ConcurrentBroker around a new Broker.
func NewConcurrent(useCache bool, opts ...Option) *ConcurrentBroker {
	return &ConcurrentBroker{b: New(useCache, opts...)}
}

// Subscribe registers h for topic.
func (c *ConcurrentBroker) Subscribe(h Handle, topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.b.Subscribe(h, topic)
}

// Unsubscribe removes h's subscriptions made with any of topics.
func (c *ConcurrentBroker) Unsubscribe(h Handle, topics ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.b.Unsubscribe(h, topics...)
}

// UnsubscribeAll removes every subscription held by h.
func (c *ConcurrentBroker) UnsubscribeAll(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.b.UnsubscribeAll(h)
}

// Match returns the handles a Publish of topic would call.
func (c *ConcurrentBroker) Match(topic string) []Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.b.Match(topic)
}

// Publish delivers payload to every matching subscription. Subscribers are
// called without the lock held.
func (c *ConcurrentBroker) Publish(topic string, payload []byte) {
	c.mu.Lock()
	handles := c.b.Match(topic)
	c.mu.Unlock()

	c.b.deliver(topic, handles, payload)
}

// Stats reports the size of the underlying broker.
func (c *ConcurrentBroker) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.b.Stats()
}

// Request publishes payload on sendTopic and waits for the first payload
// published on replyTopic. The reply subscription is in place before the
// request is published and is removed before Request returns. If ctx ends
// first, the returned error wraps both ErrNoReply and ctx.Err().
func (c *ConcurrentBroker) Request(ctx context.Context, sendTopic, replyTopic string, payload []byte) ([]byte, error) {
	replies := make(chan []byte, 1)
	h := NewHandle(SubscriberFunc(func(p []byte) {
		select {
		case replies <- append([]byte(nil), p...):
		default:
		}
	}))

	c.Subscribe(h, replyTopic)
	defer c.UnsubscribeAll(h)

	c.Publish(sendTopic, payload)

	select {
	case reply := <-replies:
		return reply, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w on %q: %w", ErrNoReply, replyTopic, ctx.Err())
	}
}

package pubsubtrie

import "github.com/google/uuid"

// Subscriber receives payloads published on matching topics. Receive is
// called synchronously, once per matching subscription.
type Subscriber interface {
	Receive(payload []byte)
}

// SubscriberFunc adapts an ordinary function to the Subscriber interface.
type SubscriberFunc func(payload []byte)

// Receive calls f(payload).
func (f SubscriberFunc) Receive(payload []byte) {
	f(payload)
}

// Handle is the identity a Subscriber is registered under. Copies of a Handle
// refer to the same identity; calling NewHandle twice with the same
// Subscriber gives two independent identities.
type Handle struct {
	id  uuid.UUID
	sub Subscriber
}

// NewHandle binds s to a freshly generated identity.
func NewHandle(s Subscriber) Handle {
	if s == nil {
		panic("pubsubtrie: NewHandle called with nil Subscriber")
	}
	return Handle{id: uuid.New(), sub: s}
}

// ID returns the unique identity of the handle.
func (h Handle) ID() uuid.UUID {
	return h.id
}

// Subscriber returns the subscriber bound to the handle.
func (h Handle) Subscriber() Subscriber {
	return h.sub
}

// IsZero reports whether h was not created by NewHandle.
func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

// Same reports whether h and other share the same identity.
func (h Handle) Same(other Handle) bool {
	return h.id == other.id
}

// String returns the handle identity in its canonical uuid form.
func (h Handle) String() string {
	return h.id.String()
}

package pubsubtrie

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ConcurrentSubscribeAndPublish(t *testing.T) {
	cb := NewConcurrent(true)

	const workers = 8
	const perWorker = 200

	var delivered atomic.Int64
	counter := NewHandle(SubscriberFunc(func([]byte) { delivered.Add(1) }))
	cb.Subscribe(counter, "load/#")

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			h := NewHandle(SubscriberFunc(func([]byte) {}))
			for i := 0; i < perWorker; i++ {
				topic := fmt.Sprintf("load/%d/%d", w, i%10)
				cb.Subscribe(h, topic)
				if i%3 == 0 {
					cb.Unsubscribe(h, topic)
				}
			}
			cb.UnsubscribeAll(h)
		}(w)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				cb.Publish(fmt.Sprintf("load/%d/%d", w, i%10), []byte{byte(i)})
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, int64(workers*perWorker), delivered.Load())
	assert.Equal(t, 1, cb.Stats().Subscriptions)
	assert.Len(t, cb.Match("load/x"), 1)
}

func Test_ConcurrentReentrantPublish(t *testing.T) {
	cb := NewConcurrent(false)

	var got [][]byte
	sink := NewHandle(SubscriberFunc(func(p []byte) { got = append(got, p) }))
	relay := NewHandle(SubscriberFunc(func(p []byte) {
		// Runs without the broker lock, so this must not deadlock.
		cb.Publish("out", p)
		cb.Subscribe(sink, "late")
	}))

	cb.Subscribe(relay, "in")
	cb.Subscribe(sink, "out")

	done := make(chan struct{})
	go func() {
		cb.Publish("in", []byte("ping"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reentrant publish deadlocked")
	}
	assert.Equal(t, [][]byte{[]byte("ping")}, got)
	assert.Equal(t, 3, cb.Stats().Subscriptions)
}

func Test_RequestReply(t *testing.T) {
	cb := NewConcurrent(true)

	responder := NewHandle(SubscriberFunc(func(p []byte) {
		cb.Publish("math/reply", append([]byte("echo:"), p...))
	}))
	cb.Subscribe(responder, "math/request")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	reply, err := cb.Request(ctx, "math/request", "math/reply", []byte("42"))
	require.NoError(t, err)
	assert.Equal(t, []byte("echo:42"), reply)

	// Only the responder is left subscribed.
	assert.Equal(t, 1, cb.Stats().Subscriptions)
}

func Test_RequestTimeout(t *testing.T) {
	cb := NewConcurrent(false)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	reply, err := cb.Request(ctx, "nobody/home", "nobody/reply", nil)
	require.Error(t, err)
	assert.Nil(t, reply)
	assert.True(t, errors.Is(err, ErrNoReply))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Zero(t, cb.Stats().Subscriptions)
}

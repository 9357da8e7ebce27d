package pubsubtrie

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AsyncPublishAndReceive(t *testing.T) {
	b := NewConcurrent(true)
	sub := NewAsyncSubscriber(DeliveryConfig{BufferSize: 10}, nil)
	defer sub.Close()

	b.Subscribe(NewHandle(sub), "user/+/updates")

	payload := []byte("new.email@example.com")
	b.Publish("user/123/updates", payload)
	payload[0] = 'X' // the subscriber keeps its own copy

	select {
	case got := <-sub.Ch:
		assert.Equal(t, []byte("new.email@example.com"), got)
	case <-time.After(time.Second):
		t.Fatal("payload not delivered")
	}
}

func Test_AsyncReadMessages(t *testing.T) {
	b := New(false)
	sub := NewAsyncSubscriber(DeliveryConfig{BufferSize: 5}, nil)
	b.Subscribe(NewHandle(sub), "#")

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	go func() {
		sub.ReadMessages(func(p []byte) {
			mu.Lock()
			got = append(got, string(p))
			mu.Unlock()
		})
		close(done)
	}()

	for _, m := range []string{"one", "two", "three"} {
		b.Publish("any/topic", []byte(m))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, time.Second, 10*time.Millisecond)

	sub.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ReadMessages did not return after Close")
	}
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func Test_AsyncAllowDropping(t *testing.T) {
	sub := NewAsyncSubscriber(DeliveryConfig{BufferSize: 1, AllowDropping: true}, nil)

	var receivedCount atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range sub.Ch {
			receivedCount.Add(1)
			time.Sleep(50 * time.Millisecond) // Simulate slow processing
		}
	}()

	numToPublish := 100
	for i := 0; i < numToPublish; i++ {
		sub.Receive([]byte{byte(i)})
	}

	require.Eventually(t, func() bool { return receivedCount.Load() > 0 }, time.Second, 5*time.Millisecond)
	sub.Close()
	wg.Wait()

	finalCount := receivedCount.Load()
	assert.Positive(t, finalCount)
	assert.Less(t, finalCount, int32(numToPublish))
	assert.Positive(t, sub.Dropped())
}

func Test_AsyncPublishTimeout(t *testing.T) {
	timeout := 100 * time.Millisecond
	sub := NewAsyncSubscriber(DeliveryConfig{BufferSize: 1, PublishTimeout: timeout}, nil)
	defer sub.Close()

	sub.Receive([]byte("blocker")) // held by the delivery goroutine
	sub.Receive([]byte("filler"))  // fills the buffer

	start := time.Now()
	sub.Receive([]byte("should be dropped"))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Equal(t, uint64(1), sub.Dropped())
}

func Test_AsyncClose(t *testing.T) {
	sub := NewAsyncSubscriber(DeliveryConfig{BufferSize: 2}, nil)

	sub.Close()
	sub.Close()

	_, ok := <-sub.Ch
	assert.False(t, ok, "Ch should be closed")

	// Receiving after Close must neither block nor panic.
	done := make(chan struct{})
	go func() {
		sub.Receive([]byte("late"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Receive blocked after Close")
	}
	assert.Zero(t, sub.Dropped())
}

func Test_AsyncCloseUnblocksWaitingReceive(t *testing.T) {
	sub := NewAsyncSubscriber(DeliveryConfig{BufferSize: 0}, nil)

	sub.Receive([]byte("held")) // taken by the delivery goroutine, nobody reads Ch

	done := make(chan struct{})
	go func() {
		sub.Receive([]byte("waits forever without Close"))
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	sub.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not release a waiting Receive")
	}
}

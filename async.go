package pubsubtrie

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// AsyncSubscriber is a Subscriber that queues payloads and hands them to the
// consumer on Ch from its own goroutine, so a slow consumer does not hold up
// Publish for longer than DeliveryConfig allows.
type AsyncSubscriber struct {
	// Ch carries payloads in arrival order. It is closed by Close.
	Ch chan []byte

	internalCh   chan []byte
	close        chan struct{}
	shutdownOnce sync.Once
	deliveryWg   sync.WaitGroup
	cfg          DeliveryConfig
	dropped      atomic.Uint64
	log          *zap.Logger
}

// NewAsyncSubscriber starts a delivery goroutine configured by cfg. A nil
// logger disables logging. Call Close to stop it.
func NewAsyncSubscriber(cfg DeliveryConfig, log *zap.Logger) *AsyncSubscriber {
	if cfg.BufferSize < 0 {
		cfg.BufferSize = 0
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &AsyncSubscriber{
		Ch:         make(chan []byte),
		internalCh: make(chan []byte, cfg.BufferSize),
		close:      make(chan struct{}),
		cfg:        cfg,
		log:        log,
	}
	s.deliveryWg.Add(1)
	go s.deliverMessages()

	s.log.Debug("Async subscriber started.", zap.Int("buffer_size", cfg.BufferSize), zap.Bool("allow_dropping", cfg.AllowDropping), zap.Duration("publish_timeout", cfg.PublishTimeout))
	return s
}

// Receive queues a copy of payload. Depending on the delivery config it
// drops the payload when the buffer is full, or waits up to PublishTimeout
// for space. Payloads received after Close are discarded.
func (s *AsyncSubscriber) Receive(payload []byte) {
	select {
	case <-s.close:
		s.log.Debug("Async subscriber closed, payload discarded.")
		return
	default:
	}

	p := append([]byte(nil), payload...)

	if s.cfg.AllowDropping {
		select {
		case s.internalCh <- p:
		default:
			s.drop("buffer full")
		}
		return
	}

	var timeoutCh <-chan time.Time
	if s.cfg.PublishTimeout > 0 {
		timer := time.NewTimer(s.cfg.PublishTimeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}
	select {
	case s.internalCh <- p:
	case <-s.close:
		s.log.Debug("Async subscriber closed while waiting, payload discarded.")
	case <-timeoutCh:
		s.drop("publish timeout")
	}
}

func (s *AsyncSubscriber) drop(reason string) {
	n := s.dropped.Add(1)
	s.log.Warn("Async subscriber dropped payload.", zap.String("reason", reason), zap.Uint64("dropped_total", n))
}

// Dropped returns how many payloads were dropped because the buffer was full
// or the publish timeout expired.
func (s *AsyncSubscriber) Dropped() uint64 {
	return s.dropped.Load()
}

// deliverMessages moves queued payloads onto Ch until Close.
func (s *AsyncSubscriber) deliverMessages() {
	defer s.deliveryWg.Done()
	defer close(s.Ch)

	for {
		select {
		case p := <-s.internalCh:
			select {
			case s.Ch <- p:
			case <-s.close:
				return
			}
		case <-s.close:
			return
		}
	}
}

// Close stops delivery and closes Ch. Payloads still queued are discarded.
// It is safe to call more than once.
func (s *AsyncSubscriber) Close() {
	s.shutdownOnce.Do(func() {
		close(s.close)
	})
	s.deliveryWg.Wait()
	s.log.Debug("Async subscriber closed.", zap.Uint64("dropped_total", s.dropped.Load()))
}

// ReadMessages calls handler for every payload until Ch is closed.
func (s *AsyncSubscriber) ReadMessages(handler func([]byte)) {
	for p := range s.Ch {
		handler(p)
	}
}

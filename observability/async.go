package observability

import (
	"context"
	"sync"

	"github.com/effective-security/xlog"
)

// DefaultQueueSize is the default bound of the async event queue.
const DefaultQueueSize = 256

// AsyncSink delivers events to the wrapped sink from a single background
// worker through a bounded queue. When the queue is full events are
// dropped, never blocking the caller.
type AsyncSink struct {
	next  Sink
	queue chan func()
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewAsyncSink starts the worker and returns the sink.
// Call Close to drain and stop it.
func NewAsyncSink(next Sink, queueSize int) *AsyncSink {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	s := &AsyncSink{
		next:  next,
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

func (s *AsyncSink) RecordInvocation(_ context.Context, ev Event) {
	s.submit(func() {
		s.next.RecordInvocation(context.Background(), ev)
	})
}

func (s *AsyncSink) RecordCacheOp(_ context.Context, operation string) {
	s.submit(func() {
		s.next.RecordCacheOp(context.Background(), operation)
	})
}

// Close stops the worker after draining queued events.
func (s *AsyncSink) Close() {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *AsyncSink) submit(fn func()) {
	select {
	case <-s.done:
	case s.queue <- fn:
	default:
		logger.KV(xlog.DEBUG, "status", "event_dropped", "reason", "queue_full")
	}
}

func (s *AsyncSink) worker() {
	defer s.wg.Done()
	for {
		select {
		case fn := <-s.queue:
			s.deliver(fn)
		case <-s.done:
			for {
				select {
				case fn := <-s.queue:
					s.deliver(fn)
				default:
					return
				}
			}
		}
	}
}

// deliver isolates sink panics from the worker loop.
func (s *AsyncSink) deliver(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.KV(xlog.WARNING, "status", "sink_panic", "err", r)
		}
	}()
	fn()
}

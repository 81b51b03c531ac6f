package observability_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gulabjamun04/mcp-ai-assistant/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []observability.Event
	ops    []string
}

func (s *recordingSink) RecordInvocation(_ context.Context, ev observability.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) RecordCacheOp(_ context.Context, op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, op)
}

func (s *recordingSink) snapshot() ([]observability.Event, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]observability.Event{}, s.events...), append([]string{}, s.ops...)
}

type panickingSink struct{}

func (panickingSink) RecordInvocation(context.Context, observability.Event) { panic("boom") }
func (panickingSink) RecordCacheOp(context.Context, string)                 { panic("boom") }

func Test_SessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, observability.SessionID(ctx))

	ctx = observability.WithSessionID(ctx, "session-42")
	assert.Equal(t, "session-42", observability.SessionID(ctx))
}

func Test_AsyncSink_Delivers(t *testing.T) {
	rec := &recordingSink{}
	sink := observability.NewAsyncSink(rec, 16)

	ctx := context.Background()
	sink.RecordInvocation(ctx, observability.Event{
		Tool:     "calculator__calculate",
		Provider: "calculator",
		Status:   observability.StatusSuccess,
		Latency:  10 * time.Millisecond,
	})
	sink.RecordCacheOp(ctx, "hit")
	sink.Close()

	events, ops := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "calculator__calculate", events[0].Tool)
	assert.Equal(t, []string{"hit"}, ops)
}

func Test_AsyncSink_PanicDoesNotStopWorker(t *testing.T) {
	sink := observability.NewAsyncSink(panickingSink{}, 4)
	ctx := context.Background()

	// neither the caller nor the worker may die
	sink.RecordInvocation(ctx, observability.Event{Tool: "t"})
	sink.RecordCacheOp(ctx, "miss")
	sink.Close()
}

func Test_AsyncSink_FullQueueDoesNotBlock(t *testing.T) {
	rec := &recordingSink{}
	sink := observability.NewAsyncSink(rec, 1)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			sink.RecordCacheOp(ctx, "miss")
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("async sink blocked the caller")
	}
	sink.Close()
}

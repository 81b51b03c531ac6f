package reconciler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gulabjamun04/mcp-ai-assistant/reconciler"
	"github.com/gulabjamun04/mcp-ai-assistant/registry"
	"github.com/stretchr/testify/assert"
)

type fakeRefresher struct {
	calls   atomic.Int64
	active  atomic.Int64
	overlap atomic.Bool
	panics  bool
}

func (f *fakeRefresher) Refresh(_ context.Context) *registry.Diff {
	if f.active.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.active.Add(-1)

	f.calls.Add(1)
	if f.panics {
		panic("provider exploded")
	}
	time.Sleep(5 * time.Millisecond)
	return &registry.Diff{Total: []string{"calculator__add"}}
}

func Test_Run_RefreshesUntilCanceled(t *testing.T) {
	f := &fakeRefresher{}
	r := reconciler.New(f, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return f.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop after cancellation")
	}

	assert.False(t, f.overlap.Load(), "refreshes must not overlap")
}

func Test_Run_SurvivesPanics(t *testing.T) {
	f := &fakeRefresher{panics: true}
	r := reconciler.New(f, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// the loop keeps refreshing even though every refresh panics
	assert.Eventually(t, func() bool {
		return f.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop after cancellation")
	}
}

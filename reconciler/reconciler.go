// Package reconciler keeps the tool registry in sync with the providers
// by refreshing it on a fixed interval. Refreshes run strictly one at a
// time and a failed refresh never stops the loop.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/effective-security/xlog"
	"github.com/gulabjamun04/mcp-ai-assistant/registry"
)

var logger = xlog.NewPackageLogger("github.com/gulabjamun04/mcp-ai-assistant", "reconciler")

// Refresher re-runs tool discovery and reports the resulting diff.
type Refresher interface {
	Refresh(ctx context.Context) *registry.Diff
}

// Reconciler periodically refreshes a registry.
type Reconciler struct {
	refresher Refresher
	interval  time.Duration
}

// New returns a Reconciler that refreshes on the given interval.
func New(refresher Refresher, interval time.Duration) *Reconciler {
	return &Reconciler{
		refresher: refresher,
		interval:  interval,
	}
}

// Run refreshes until the context is canceled. It blocks; run it on its
// own goroutine.
func (r *Reconciler) Run(ctx context.Context) {
	logger.ContextKV(ctx, xlog.INFO, "status", "started", "interval", r.interval.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.ContextKV(ctx, xlog.INFO, "status", "stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reconciler) runOnce(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.ContextKV(ctx, xlog.ERROR,
				"reason", "refresh_panic",
				"err", fmt.Sprintf("%v", rec))
		}
	}()

	diff := r.refresher.Refresh(ctx)
	if diff == nil {
		return
	}
	if len(diff.Added) > 0 || len(diff.Removed) > 0 {
		logger.ContextKV(ctx, xlog.INFO,
			"status", "tools_changed",
			"added", diff.Added,
			"removed", diff.Removed,
			"total", len(diff.Total))
	}
}

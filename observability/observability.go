// Package observability receives invocation and caching events from the
// registry and cache. Sinks are fire-and-forget from the caller's
// perspective: a slow or unavailable sink must never affect the call path.
package observability

import (
	"context"
	"time"

	"github.com/effective-security/xlog"
	"github.com/gulabjamun04/mcp-ai-assistant/pkg/metricskey"
)

var logger = xlog.NewPackageLogger("github.com/gulabjamun04/mcp-ai-assistant", "observability")

// Invocation statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Event describes one tool invocation attempt.
type Event struct {
	Tool      string
	Provider  string
	Status    string
	CacheHit  bool
	Latency   time.Duration
	SessionID string
}

// Sink receives invocation and cache events.
type Sink interface {
	RecordInvocation(ctx context.Context, ev Event)
	RecordCacheOp(ctx context.Context, operation string)
}

// MetricsSink records events as metrics.
type MetricsSink struct{}

// NewMetricsSink returns a Sink backed by the metrics registry.
func NewMetricsSink() *MetricsSink {
	return &MetricsSink{}
}

func (s *MetricsSink) RecordInvocation(_ context.Context, ev Event) {
	cacheHit := "false"
	if ev.CacheHit {
		cacheHit = "true"
	}
	metricskey.StatsToolInvocations.IncrCounter(1, ev.Tool, ev.Provider, ev.Status, cacheHit)
	metricskey.PerfToolCall.MeasureSince(time.Now().Add(-ev.Latency), ev.Tool, ev.Provider)
}

func (s *MetricsSink) RecordCacheOp(_ context.Context, operation string) {
	metricskey.StatsCacheOperations.IncrCounter(1, operation)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordInvocation(context.Context, Event) {}
func (NopSink) RecordCacheOp(context.Context, string)   {}

package registry

import (
	"context"
	"time"

	"github.com/effective-security/xlog"
	"github.com/gulabjamun04/mcp-ai-assistant/mcpsession"
	"github.com/gulabjamun04/mcp-ai-assistant/observability"
	"github.com/gulabjamun04/mcp-ai-assistant/utils"
)

// Call invokes a namespaced tool and returns a JSON-serializable payload.
// Every failure mode is returned as a {"error": ...} payload, never as an
// error value, so agent loops can treat all outcomes uniformly.
//
// A cacheable tool with a fresh cached result is served without a
// provider round-trip. Provider-reported failures (isError) and transport
// failures are never written to the cache.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) string {
	desc, ok := r.Lookup(name)
	if !ok {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "unknown_tool", "tool", name)
		return errorPayload("Unknown tool: " + name)
	}

	started := time.Now()

	shaped, err := desc.Args.ValidateArgs(args)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "invalid_arguments",
			"tool", name,
			"err", err.Error())
		r.record(ctx, desc, observability.StatusError, false, started)
		return errorPayload("Tool execution failed: " + err.Error())
	}

	if cached, ok := r.cache.Get(ctx, name, shaped); ok {
		r.record(ctx, desc, observability.StatusSuccess, true, started)
		return cached
	}

	res, err := r.invoke(ctx, desc, shaped)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"reason", "tool_call_failed",
			"tool", name,
			"provider", desc.Provider,
			"err", err.Error())
		r.record(ctx, desc, observability.StatusError, false, started)
		return errorPayload("Tool execution failed: " + err.Error())
	}
	if res.IsError {
		r.record(ctx, desc, observability.StatusError, false, started)
		return errorPayload("Tool execution failed: " + res.Text)
	}

	r.cache.Set(ctx, name, shaped, res.Text)
	r.record(ctx, desc, observability.StatusSuccess, false, started)
	return res.Text
}

// invoke opens a fresh session to the tool's provider, calls the
// provider-local name, and closes the session. The call timeout covers
// connect, handshake, and the call itself.
func (r *Registry) invoke(ctx context.Context, desc *Descriptor, args map[string]any) (*mcpsession.CallResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	sess, err := r.dialer.Dial(callCtx, desc.Endpoint)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	return sess.CallTool(callCtx, desc.LocalName, args)
}

func (r *Registry) record(ctx context.Context, desc *Descriptor, status string, cacheHit bool, started time.Time) {
	r.sink.RecordInvocation(ctx, observability.Event{
		Tool:      desc.Name,
		Provider:  desc.Provider,
		Status:    status,
		CacheHit:  cacheHit,
		Latency:   time.Since(started),
		SessionID: observability.SessionID(ctx),
	})
}

func errorPayload(msg string) string {
	return utils.ToJSON(map[string]string{"error": msg})
}

// Package mcpsession opens short-lived MCP protocol sessions to tool
// providers. One session serves exactly one operation (list, call, or
// health probe) and is closed on every exit path; sessions are never
// pooled or reused.
package mcpsession

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Session is an initialized protocol session to one provider. The
// connect and handshake have already completed by the time a Session
// exists; ListTools and CallTool are bounded by the caller's context.
type Session struct {
	cs     *mcp.ClientSession
	cancel context.CancelFunc
}

// NewSession wraps an already-connected client session.
func NewSession(cs *mcp.ClientSession) *Session {
	return &Session{cs: cs}
}

// CallResult is a normalized tool call response: the joined text payload
// and the provider's application-error flag.
type CallResult struct {
	Text    string
	IsError bool
}

// ListTools returns the provider's tool list in the order reported.
func (s *Session) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	res, err := s.cs.ListTools(ctx, nil)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list tools")
	}
	return res.Tools, nil
}

// CallTool invokes the provider-local tool name with the given arguments.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (*CallResult, error) {
	res, err := s.cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to call tool %s", name)
	}
	return &CallResult{
		Text:    JoinTextContent(res.Content),
		IsError: res.IsError,
	}, nil
}

// Close releases the connection and the stream context. Safe to call
// multiple times.
func (s *Session) Close() error {
	err := s.cs.Close()
	if s.cancel != nil {
		s.cancel()
	}
	return err
}

// JoinTextContent joins the text blocks of a tool response with newlines.
// A response without text blocks yields an empty-object payload.
func JoinTextContent(blocks []mcp.Content) string {
	var texts []string
	for _, block := range blocks {
		if tc, ok := block.(*mcp.TextContent); ok {
			texts = append(texts, tc.Text)
		}
	}
	if len(texts) == 0 {
		return "{}"
	}
	return strings.Join(texts, "\n")
}

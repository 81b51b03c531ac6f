package mcpsession

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultConnectTimeout bounds connect plus handshake when the dialer is
// not configured with one.
const DefaultConnectTimeout = 5 * time.Second

var clientInfo = &mcp.Implementation{
	Name:    "mcp-ai-assistant",
	Version: "1.0.0",
}

// Dialer opens a fresh, initialized protocol session to an endpoint.
// Implementations perform the connect and handshake before returning.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (*Session, error)
}

// SSEDialer connects to a provider's SSE streaming endpoint at
// <endpoint>/sse.
type SSEDialer struct {
	ConnectTimeout time.Duration
	HTTPClient     *http.Client
}

// Dial connects and performs the protocol handshake within the connect
// timeout.
//
// The context handed to Connect also carries the SSE stream for the
// session's whole lifetime, so it must stay alive after Dial returns.
// The connect timeout is enforced by a watchdog that fires only while
// the handshake is still in flight; once connected, the stream context
// is released by Session.Close.
func (d *SSEDialer) Dial(ctx context.Context, endpoint string) (*Session, error) {
	timeout := d.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	streamCtx, cancel := context.WithCancel(ctx)
	watchdog := time.AfterFunc(timeout, cancel)

	transport := &mcp.SSEClientTransport{
		Endpoint:   sseEndpoint(endpoint),
		HTTPClient: d.HTTPClient,
	}
	cs, err := mcp.NewClient(clientInfo, nil).Connect(streamCtx, transport, nil)
	watchdog.Stop()
	if err != nil {
		cancel()
		return nil, errors.WithMessagef(err, "failed to connect to %s", endpoint)
	}
	return &Session{cs: cs, cancel: cancel}, nil
}

func sseEndpoint(endpoint string) string {
	return strings.TrimRight(endpoint, "/") + "/sse"
}

// Package registry owns the authoritative snapshot of tools discovered
// from the configured providers and dispatches invocations against it.
// The snapshot is immutable and replaced wholesale on every discovery
// pass, so concurrent readers never observe a partial tool set.
package registry

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/effective-security/xlog"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/gulabjamun04/mcp-ai-assistant/config"
	"github.com/gulabjamun04/mcp-ai-assistant/mcpsession"
	"github.com/gulabjamun04/mcp-ai-assistant/observability"
	"github.com/gulabjamun04/mcp-ai-assistant/pkg/metricskey"
	"github.com/gulabjamun04/mcp-ai-assistant/toolcache"
	"github.com/gulabjamun04/mcp-ai-assistant/toolschema"
)

var logger = xlog.NewPackageLogger("github.com/gulabjamun04/mcp-ai-assistant", "registry")

// NamespaceSeparator joins a provider name and a provider-local tool name
// into the globally unique tool name.
const NamespaceSeparator = "__"

// Provider health statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Descriptor describes one discovered tool.
type Descriptor struct {
	// Name is the namespaced tool name, unique across all providers.
	Name        string
	LocalName   string
	Description string
	Provider    string
	Endpoint    string
	InputSchema *jsonschema.Schema
	Args        *toolschema.Descriptor
}

// Diff reports the tool-name changes produced by a refresh.
type Diff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Total   []string `json:"total"`
}

// HealthStatus is the result of a provider health probe.
type HealthStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	URL    string `json:"url"`
	Error  string `json:"error,omitempty"`
}

type snapshot struct {
	tools map[string]*Descriptor
}

// Registry discovers tools from the configured providers and dispatches
// calls to them. Safe for concurrent use.
type Registry struct {
	providers     []config.Provider
	dialer        mcpsession.Dialer
	cache         *toolcache.Cache
	sink          observability.Sink
	callTimeout   time.Duration
	healthTimeout time.Duration

	current atomic.Pointer[snapshot]
}

// Option configures a Registry.
type Option func(*Registry)

// WithDialer overrides the session dialer.
func WithDialer(d mcpsession.Dialer) Option {
	return func(r *Registry) {
		r.dialer = d
	}
}

// WithCache sets the invocation result cache.
func WithCache(c *toolcache.Cache) Option {
	return func(r *Registry) {
		r.cache = c
	}
}

// WithSink sets the observability sink for invocation events.
func WithSink(s observability.Sink) Option {
	return func(r *Registry) {
		r.sink = s
	}
}

// WithCallTimeout bounds a single tool call, connect included.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.callTimeout = d
	}
}

// WithHealthTimeout bounds a provider health probe.
func WithHealthTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.healthTimeout = d
	}
}

// New returns a Registry over the given providers with an empty snapshot.
// Call Discover to populate it.
func New(providers []config.Provider, opts ...Option) *Registry {
	r := &Registry{
		providers: providers,
		dialer: &mcpsession.SSEDialer{
			ConnectTimeout: config.DefaultConnectTimeout.TimeDuration(),
		},
		cache:         toolcache.New(nil, config.DefaultCachePrefix, config.DefaultCacheTTL.TimeDuration()),
		sink:          observability.NopSink{},
		callTimeout:   config.DefaultCallTimeout.TimeDuration(),
		healthTimeout: config.DefaultHealthTimeout.TimeDuration(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(&snapshot{tools: map[string]*Descriptor{}})
	return r
}

// Discover queries every configured provider and swaps in a new snapshot
// built from the tools of the providers that responded. Unreachable
// providers are logged and skipped; they never fail the pass.
func (r *Registry) Discover(ctx context.Context) {
	found := map[string]*Descriptor{}
	healthy := 0
	for _, p := range r.providers {
		started := time.Now()
		descs, err := r.discoverProvider(ctx, p)
		if err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"reason", "discovery_failed",
				"provider", p.Name,
				"url", p.URL,
				"err", err.Error())
			metricskey.StatsDiscoveryErrors.IncrCounter(1, p.Name)
			continue
		}
		healthy++
		metricskey.PerfProviderDiscovery.MeasureSince(started, p.Name)
		metricskey.StatsProviderTools.SetGauge(float64(len(descs)), p.Name)
		for _, d := range descs {
			// name collisions resolve last write wins
			found[d.Name] = d
		}
		logger.ContextKV(ctx, xlog.INFO,
			"status", "provider_discovered",
			"provider", p.Name,
			"tools", len(descs))
	}
	metricskey.StatsAvailableTools.SetGauge(float64(len(found)))
	metricskey.StatsHealthyProviders.SetGauge(float64(healthy))
	r.current.Store(&snapshot{tools: found})
}

func (r *Registry) discoverProvider(ctx context.Context, p config.Provider) ([]*Descriptor, error) {
	sess, err := r.dialer.Dial(ctx, p.URL)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	list, err := sess.ListTools(ctx)
	if err != nil {
		return nil, err
	}

	descs := make([]*Descriptor, 0, len(list))
	for _, t := range list {
		descs = append(descs, &Descriptor{
			Name:        p.Name + NamespaceSeparator + t.Name,
			LocalName:   t.Name,
			Description: t.Description,
			Provider:    p.Name,
			Endpoint:    p.URL,
			InputSchema: t.InputSchema,
			Args:        toolschema.Translate(t.InputSchema),
		})
	}
	return descs, nil
}

// Refresh re-runs discovery and reports the name-level changes against
// the previous snapshot. The swap has already happened by the time the
// diff is computed.
func (r *Registry) Refresh(ctx context.Context) *Diff {
	oldNames := r.Names()
	r.Discover(ctx)
	newNames := r.Names()

	oldSet := make(map[string]bool, len(oldNames))
	for _, n := range oldNames {
		oldSet[n] = true
	}
	newSet := make(map[string]bool, len(newNames))
	for _, n := range newNames {
		newSet[n] = true
	}

	diff := &Diff{
		Added:   []string{},
		Removed: []string{},
		Total:   newNames,
	}
	for _, n := range newNames {
		if !oldSet[n] {
			diff.Added = append(diff.Added, n)
		}
	}
	for _, n := range oldNames {
		if !newSet[n] {
			diff.Removed = append(diff.Removed, n)
		}
	}
	return diff
}

// Tools returns the current snapshot's descriptors sorted by name.
func (r *Registry) Tools() []*Descriptor {
	snap := r.current.Load()
	descs := make([]*Descriptor, 0, len(snap.tools))
	for _, d := range snap.tools {
		descs = append(descs, d)
	}
	sort.Slice(descs, func(i, j int) bool {
		return descs[i].Name < descs[j].Name
	})
	return descs
}

// Names returns the current snapshot's tool names sorted.
func (r *Registry) Names() []string {
	snap := r.current.Load()
	names := make([]string, 0, len(snap.tools))
	for n := range snap.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the descriptor for a namespaced tool name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.current.Load().tools[name]
	return d, ok
}

// CheckProviderHealth probes one configured provider by opening a
// short-timeout session and closing it. The probe is independent of the
// snapshot and of caching.
func (r *Registry) CheckProviderHealth(ctx context.Context, providerName string) *HealthStatus {
	for _, p := range r.providers {
		if p.Name == providerName {
			return r.probe(ctx, p)
		}
	}
	return &HealthStatus{
		Name:   providerName,
		Status: StatusUnhealthy,
		Error:  "unknown provider",
	}
}

// CheckHealth probes all configured providers.
func (r *Registry) CheckHealth(ctx context.Context) []*HealthStatus {
	statuses := make([]*HealthStatus, 0, len(r.providers))
	for _, p := range r.providers {
		statuses = append(statuses, r.probe(ctx, p))
	}
	return statuses
}

func (r *Registry) probe(ctx context.Context, p config.Provider) *HealthStatus {
	probeCtx, cancel := context.WithTimeout(ctx, r.healthTimeout)
	defer cancel()

	sess, err := r.dialer.Dial(probeCtx, p.URL)
	if err != nil {
		return &HealthStatus{
			Name:   p.Name,
			Status: StatusUnhealthy,
			URL:    p.URL,
			Error:  err.Error(),
		}
	}
	defer sess.Close()

	return &HealthStatus{
		Name:   p.Name,
		Status: StatusHealthy,
		URL:    p.URL,
	}
}

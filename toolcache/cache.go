package toolcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/effective-security/xlog"
	"github.com/gulabjamun04/mcp-ai-assistant/observability"
)

var logger = xlog.NewPackageLogger("github.com/gulabjamun04/mcp-ai-assistant", "toolcache")

// HealthCheckToolName is the provider-local tool name excluded from caching.
// The comparison is an exact match on the unprefixed name, not a substring
// test: a tool merely containing "health" in its name remains cacheable.
const HealthCheckToolName = "health_check"

// storeTimeout bounds every backing store operation so a stalled store
// cannot block the call path.
const storeTimeout = 2 * time.Second

// Stats are the cache statistics.
type Stats struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	HitRate   float64 `json:"hit_rate"`
	TotalKeys int     `json:"total_keys"`
}

// Cache caches successful tool invocation results keyed by a fingerprint of
// the tool name and canonicalized arguments. All store failures degrade to
// a miss or a no-op.
type Cache struct {
	store  Store
	prefix string
	ttl    time.Duration
	sink   observability.Sink

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithSink sets the observability sink for cache operation events.
func WithSink(sink observability.Sink) Option {
	return func(c *Cache) {
		c.sink = sink
	}
}

// New returns a Cache over the given store. A nil store disables caching:
// every Get is a miss and every Set is a no-op.
func New(store Store, prefix string, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		prefix: prefix,
		ttl:    ttl,
		sink:   observability.NopSink{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ShouldCache reports whether results for the tool may be cached.
// The tool's provider-local name (after the namespace separator) is
// compared against HealthCheckToolName exactly.
func ShouldCache(toolName string) bool {
	localName := toolName
	if idx := strings.Index(toolName, "__"); idx >= 0 {
		localName = toolName[idx+2:]
	}
	return localName != HealthCheckToolName
}

// Key builds the deterministic cache key for a tool call. Arguments are
// canonicalized by sorted-key JSON serialization, hashed, and truncated;
// the prefix and tool name are kept in the key for debuggability.
func (c *Cache) Key(toolName string, args map[string]any) string {
	payload, err := json.Marshal(struct {
		Tool string         `json:"tool"`
		Args map[string]any `json:"args"`
	}{Tool: toolName, Args: args})
	if err != nil {
		payload = []byte(toolName)
	}
	sum := sha256.Sum256(payload)
	digest := hex.EncodeToString(sum[:])[:16]
	return c.prefix + toolName + ":" + digest
}

// Get returns the cached result for (toolName, args), or a miss when the
// entry is absent, expired, the tool is not cacheable, or the store is
// unavailable.
func (c *Cache) Get(ctx context.Context, toolName string, args map[string]any) (string, bool) {
	if c.store == nil || !ShouldCache(toolName) {
		return "", false
	}

	opCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	val, ok, err := c.store.Get(opCtx, c.Key(toolName, args))
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "cache_get_failed", "tool", toolName, "err", err.Error())
		return "", false
	}
	if ok {
		c.hits.Add(1)
		c.sink.RecordCacheOp(ctx, "hit")
		logger.ContextKV(ctx, xlog.INFO, "status", "cache_hit", "tool", toolName)
		return val, true
	}
	c.misses.Add(1)
	c.sink.RecordCacheOp(ctx, "miss")
	logger.ContextKV(ctx, xlog.INFO, "status", "cache_miss", "tool", toolName)
	return "", false
}

// Set caches a successful tool result with the configured TTL.
func (c *Cache) Set(ctx context.Context, toolName string, args map[string]any, result string) {
	if c.store == nil || !ShouldCache(toolName) {
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	err := c.store.Set(opCtx, c.Key(toolName, args), result, c.ttl)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "cache_set_failed", "tool", toolName, "err", err.Error())
	}
}

// Stats returns hit/miss counters, the derived hit rate, and the live key
// count under the cache prefix. A failed scan yields 0 keys, not an error.
func (c *Cache) Stats(ctx context.Context) Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = math.Round(float64(hits)/float64(total)*10000) / 10000
	}

	totalKeys := 0
	if c.store != nil {
		opCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		count, err := c.store.CountKeys(opCtx, c.prefix)
		if err != nil {
			logger.ContextKV(ctx, xlog.WARNING, "reason", "cache_scan_failed", "err", err.Error())
		} else {
			totalKeys = count
		}
	}

	return Stats{
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		TotalKeys: totalKeys,
	}
}

// Clear deletes all keys under the cache prefix and resets the hit/miss
// counters. Returns the number of keys actually deleted, 0 when the store
// is unavailable.
func (c *Cache) Clear(ctx context.Context) int {
	cleared := 0
	if c.store != nil {
		opCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		deleted, err := c.store.DeleteByPrefix(opCtx, c.prefix)
		if err != nil {
			logger.ContextKV(ctx, xlog.WARNING, "reason", "cache_clear_failed", "err", err.Error())
		} else {
			cleared = deleted
			c.sink.RecordCacheOp(ctx, "clear")
		}
	}

	c.hits.Store(0)
	c.misses.Store(0)
	return cleared
}

// Package toolcache is the content-addressed, TTL-based cache of successful
// tool invocation results. It degrades to always-miss when its backing store
// is unavailable and never surfaces store failures to the caller.
package toolcache

import (
	"context"
	"time"
)

// Store is the cache backing store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// CountKeys returns the number of live keys under prefix.
	CountKeys(ctx context.Context, prefix string) (int, error)
	// DeleteByPrefix removes all keys under prefix and returns the count deleted.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

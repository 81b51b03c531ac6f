package toolcache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memEntry struct {
	value     string
	expiresAt time.Time
}

type inMemory struct {
	mu      sync.RWMutex
	storage map[string]memEntry
}

// NewMemoryStore returns an in-process Store, useful for tests and for
// running without Redis.
func NewMemoryStore() Store {
	return &inMemory{}
}

func (m *inMemory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.storage == nil {
		return "", false, nil
	}
	entry, ok := m.storage[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *inMemory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string]memEntry)
	}
	m.storage[key] = memEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (m *inMemory) CountKeys(_ context.Context, prefix string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	now := time.Now()
	for key, entry := range m.storage {
		if strings.HasPrefix(key, prefix) && now.Before(entry.expiresAt) {
			count++
		}
	}
	return count, nil
}

func (m *inMemory) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	now := time.Now()
	for key, entry := range m.storage {
		if strings.HasPrefix(key, prefix) {
			if now.Before(entry.expiresAt) {
				deleted++
			}
			delete(m.storage, key)
		}
	}
	return deleted, nil
}

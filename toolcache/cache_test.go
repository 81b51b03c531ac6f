package toolcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gulabjamun04/mcp-ai-assistant/toolcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "mcp_cache:"

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("store unavailable")
}
func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("store unavailable")
}
func (failingStore) CountKeys(context.Context, string) (int, error) {
	return 0, errors.New("store unavailable")
}
func (failingStore) DeleteByPrefix(context.Context, string) (int, error) {
	return 0, errors.New("store unavailable")
}

func Test_ShouldCache(t *testing.T) {
	assert.False(t, toolcache.ShouldCache("health_check"))
	assert.False(t, toolcache.ShouldCache("anything__health_check"))
	assert.True(t, toolcache.ShouldCache("anything__health_report"))
	assert.True(t, toolcache.ShouldCache("health_checker"))
	assert.True(t, toolcache.ShouldCache("calculator__calculate"))
}

func Test_Key_Deterministic(t *testing.T) {
	c := toolcache.New(toolcache.NewMemoryStore(), testPrefix, time.Minute)

	a1 := map[string]any{"a": 2, "b": 3, "nested": map[string]any{"x": 1, "y": 2}}
	a2 := map[string]any{"nested": map[string]any{"y": 2, "x": 1}, "b": 3, "a": 2}
	assert.Equal(t, c.Key("calculator__add", a1), c.Key("calculator__add", a2))

	// different tool, same args
	assert.NotEqual(t, c.Key("calculator__add", a1), c.Key("calculator__sub", a1))
	// different args, same tool
	assert.NotEqual(t, c.Key("calculator__add", a1), c.Key("calculator__add", map[string]any{"a": 2, "b": 4}))

	// prefix and tool name preserved for debuggability
	assert.Contains(t, c.Key("calculator__add", a1), testPrefix+"calculator__add:")
}

func Test_GetSet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := toolcache.New(toolcache.NewMemoryStore(), testPrefix, 50*time.Millisecond)

	args := map[string]any{"a": 2.0, "b": 3.0}
	_, ok := c.Get(ctx, "calculator__add", args)
	assert.False(t, ok)

	c.Set(ctx, "calculator__add", args, `{"result": 5}`)
	val, ok := c.Get(ctx, "calculator__add", args)
	require.True(t, ok)
	assert.Equal(t, `{"result": 5}`, val)

	// entry expires after TTL
	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get(ctx, "calculator__add", args)
	assert.False(t, ok)
}

func Test_HealthCheck_NeverStored(t *testing.T) {
	ctx := context.Background()
	c := toolcache.New(toolcache.NewMemoryStore(), testPrefix, time.Minute)

	c.Set(ctx, "calculator__health_check", nil, `{"status": "healthy"}`)
	_, ok := c.Get(ctx, "calculator__health_check", nil)
	assert.False(t, ok)

	stats := c.Stats(ctx)
	assert.Zero(t, stats.TotalKeys)
	// non-cacheable lookups are not counted as misses
	assert.Zero(t, stats.Misses)
}

func Test_Stats(t *testing.T) {
	ctx := context.Background()
	c := toolcache.New(toolcache.NewMemoryStore(), testPrefix, time.Minute)

	stats := c.Stats(ctx)
	assert.Equal(t, toolcache.Stats{}, stats)

	args := map[string]any{"q": "golang"}
	c.Get(ctx, "web_search__search", args) // miss
	c.Set(ctx, "web_search__search", args, `[]`)
	c.Get(ctx, "web_search__search", args) // hit
	c.Get(ctx, "web_search__search", args) // hit

	stats = c.Stats(ctx)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 0.6667, stats.HitRate, 0.0001)
	assert.Equal(t, 1, stats.TotalKeys)
}

func Test_Clear(t *testing.T) {
	ctx := context.Background()
	c := toolcache.New(toolcache.NewMemoryStore(), testPrefix, time.Minute)

	c.Set(ctx, "note_manager__list_notes", nil, `[]`)
	c.Set(ctx, "note_manager__get_note", map[string]any{"id": 1.0}, `{}`)
	c.Get(ctx, "note_manager__list_notes", nil)

	cleared := c.Clear(ctx)
	assert.Equal(t, 2, cleared)

	stats := c.Stats(ctx)
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Zero(t, stats.TotalKeys)

	_, ok := c.Get(ctx, "note_manager__list_notes", nil)
	assert.False(t, ok)
}

func Test_NilStore_Degrades(t *testing.T) {
	ctx := context.Background()
	c := toolcache.New(nil, testPrefix, time.Minute)

	c.Set(ctx, "calculator__add", nil, `{}`)
	_, ok := c.Get(ctx, "calculator__add", nil)
	assert.False(t, ok)

	stats := c.Stats(ctx)
	assert.Equal(t, toolcache.Stats{}, stats)
	assert.Zero(t, c.Clear(ctx))
}

func Test_FailingStore_Degrades(t *testing.T) {
	ctx := context.Background()
	c := toolcache.New(failingStore{}, testPrefix, time.Minute)

	// every operation degrades to a miss or no-op, never an error
	c.Set(ctx, "calculator__add", nil, `{}`)
	_, ok := c.Get(ctx, "calculator__add", nil)
	assert.False(t, ok)

	stats := c.Stats(ctx)
	assert.Zero(t, stats.TotalKeys)
	assert.Zero(t, c.Clear(ctx))
}

func Test_MemoryStore_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	st := toolcache.NewMemoryStore()

	require.NoError(t, st.Set(ctx, "mcp_cache:a", "1", time.Minute))
	require.NoError(t, st.Set(ctx, "mcp_cache:b", "2", time.Minute))
	require.NoError(t, st.Set(ctx, "other:c", "3", time.Minute))

	deleted, err := st.DeleteByPrefix(ctx, "mcp_cache:")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	count, err := st.CountKeys(ctx, "other:")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

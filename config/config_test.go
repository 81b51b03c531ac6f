package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gulabjamun04/mcp-ai-assistant/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadConfig(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Providers)
	assert.Equal(t, config.DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, config.DefaultCachePrefix, cfg.Cache.Prefix)
	assert.Equal(t, config.DefaultRefreshInterval, cfg.Discovery.RefreshInterval)
	assert.Equal(t, config.DefaultConnectTimeout, cfg.Discovery.ConnectTimeout)
	assert.Equal(t, config.DefaultCallTimeout, cfg.Discovery.CallTimeout)
	assert.Equal(t, config.DefaultHealthTimeout, cfg.Discovery.HealthTimeout)
}

func Test_LoadConfig_File(t *testing.T) {
	yaml := `
providers:
  - name: note_manager
    url: http://localhost:8001
  - name: calculator
    url: http://localhost:8004
redis:
  addr: localhost:6379
cache:
  ttl: 5m
discovery:
  refresh_interval: 10s
`
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yaml), 0o644))

	cfg, err := config.LoadConfig(file)
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, "note_manager", cfg.Providers[0].Name)
	assert.Equal(t, "http://localhost:8001", cfg.Providers[0].URL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL.TimeDuration())
	assert.Equal(t, 10*time.Second, cfg.Discovery.RefreshInterval.TimeDuration())
	// defaults still applied for unset values
	assert.Equal(t, config.DefaultCallTimeout, cfg.Discovery.CallTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func Test_LoadConfig_Invalid(t *testing.T) {
	yaml := `
providers:
  - name: ""
    url: not-a-url
`
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yaml), 0o644))

	_, err := config.LoadConfig(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

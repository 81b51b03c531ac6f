package factory_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gulabjamun04/mcp-ai-assistant/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	cfgYAML := `
providers:
  - name: calculator
    url: http://localhost:8001
  - name: note_manager
    url: http://localhost:8002
cache:
  ttl: 5m
discovery:
  refresh_interval: 10s
`
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(cfgYAML), 0644))

	s, err := factory.Load(file)
	require.NoError(t, err)
	defer s.Close()

	require.NotNil(t, s.Store)
	require.NotNil(t, s.Cache)
	require.NotNil(t, s.Registry)
	require.NotNil(t, s.Reconciler)

	assert.Equal(t, 5*time.Minute, s.Config.Cache.TTL.TimeDuration())
	// empty until the first discovery pass
	assert.Empty(t, s.Registry.Names())
}

func Test_Load_MissingFile(t *testing.T) {
	_, err := factory.Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	assert.Error(t, err)
}

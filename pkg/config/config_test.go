package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.MongoDB.StoreConfigured())
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`server:
  port: 9000
mongodb:
  uri: mongodb://file:27017
  database: filedb
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	clearEnv(t)
	t.Setenv("DATABASE_URL", "mongodb://env:27017")
	t.Setenv("PORT", "8123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "mongodb://env:27017", cfg.MongoDB.URI)
	assert.Equal(t, "filedb", cfg.MongoDB.Database)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.MongoDB.StoreConfigured())
	assert.Equal(t, "0.0.0.0:8123", cfg.Server.Addr())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSplitEndpoints(t *testing.T) {
	got := splitEndpoints([]string{"a:2379, b:2379", "", " c:2379 "})
	assert.Equal(t, []string{"a:2379", "b:2379", "c:2379"}, got)
	assert.Nil(t, splitEndpoints(nil))
}

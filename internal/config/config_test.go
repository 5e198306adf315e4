package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/gripview/internal/resolver"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GRIPVIEW_DEBUG", "GRIPVIEW_LOG_DIR", "GRIPVIEW_LOG_TO_FILE", "GRIPVIEW_URL",
		"GRIPVIEW_ENDPOINT", "GRIPVIEW_CONSOLE", "GRIPVIEW_TIMEOUT", "GRIPVIEW_CACHE_SIZE",
		"GRIPVIEW_WINDOW_PROPERTIES", "GRIPVIEW_DEPTH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.False(t, cfg.Debug)
	assert.True(t, cfg.Log.ToFile)
	assert.Equal(t, DefaultTimeout, cfg.Remote.Timeout)
	assert.Equal(t, resolver.DefaultCacheSize, cfg.Inspect.CacheSize)
	assert.Equal(t, DefaultDepth, cfg.Inspect.Depth)
	assert.Empty(t, cfg.Remote.URL)
}

func TestEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRIPVIEW_DEBUG", "true")
	t.Setenv("GRIPVIEW_ENDPOINT", "ws://localhost:6080")
	t.Setenv("GRIPVIEW_TIMEOUT", "3s")
	t.Setenv("GRIPVIEW_CACHE_SIZE", "64")
	t.Setenv("GRIPVIEW_DEPTH", "not-a-number")

	cfg := Load()
	assert.True(t, cfg.Debug)
	assert.Equal(t, "ws://localhost:6080", cfg.Remote.URL)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 64, cfg.Inspect.CacheSize)
	assert.Equal(t, DefaultDepth, cfg.Inspect.Depth)
}

func TestURLTakesPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRIPVIEW_URL", "ws://a")
	t.Setenv("GRIPVIEW_ENDPOINT", "ws://b")
	assert.Equal(t, "ws://a", Load().Remote.URL)
}

func TestDotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GRIPVIEW_CONSOLE=console7\nGRIPVIEW_LOG_TO_FILE=false\n"), 0o644))

	cfg := Load(path)
	assert.Equal(t, "console7", cfg.Remote.Console)
	assert.False(t, cfg.Log.ToFile)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.Catalog.BaseURL)
	assert.Equal(t, 800*time.Millisecond, cfg.Feed.RefreshDelay)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
catalog:
  base_url: http://localhost:9999/books
  timeout: 3s
reveal:
  interval: 5ms
  chunk_size: 4
cache:
  enabled: false
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/books", cfg.Catalog.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 5*time.Millisecond, cfg.Reveal.Interval)
	assert.Equal(t, 4, cfg.Reveal.ChunkSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Empty(t, cfg.CacheDir(), "disabled cache runs memory-only")

	// Unset keys keep defaults
	assert.Equal(t, DefaultConfig().Feed.RefreshDelay, cfg.Feed.RefreshDelay)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  burst: 5\n"), 0644))
	t.Setenv("CHAPTERNODE_CATALOG_BASE_URL", "http://env.example/books")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/books", cfg.Catalog.BaseURL)
	assert.Equal(t, 5, cfg.Catalog.Burst)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reveal:\n  chunk_size: 0\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reveal.chunk_size")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Catalog.BaseURL = "http://saved.example"
	cfg.Reveal.Interval = 7 * time.Millisecond

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved.example", loaded.Catalog.BaseURL)
	assert.Equal(t, 7*time.Millisecond, loaded.Reveal.Interval)
}

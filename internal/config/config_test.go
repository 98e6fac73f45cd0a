package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.RouterModel)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.GeneratorModel)
	assert.Equal(t, int64(1024), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 3, cfg.Docs.TopK)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
anthropic:
  key: test-key
  max_tokens: 2048
warehouse:
  path: /data/northwind.sqlite
docs:
  top_k: 5
`), 0o644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Anthropic.Key)
	assert.Equal(t, int64(2048), cfg.Anthropic.MaxTokens)
	assert.Equal(t, "/data/northwind.sqlite", cfg.Warehouse.Path)
	assert.Equal(t, 5, cfg.Docs.TopK)
	// Untouched keys keep defaults.
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.SynthesizerModel)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Warehouse.Path = "northwind.sqlite"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key")

	cfg.Anthropic.Key = "sk-test"
	cfg.Warehouse.Path = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse.path")

	cfg.Warehouse.Path = "northwind.sqlite"
	assert.NoError(t, cfg.Validate())
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "verbose", Format: "json"})
	require.Error(t, err)

	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}

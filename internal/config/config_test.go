package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, int64(2000), cfg.LLM.MaxTokens)
	assert.False(t, cfg.Gateway.StrictSchema)
}

func TestLoadConfigMissingKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LLM_API_KEY", "")

	_, err := LoadConfig("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadConfigUnknownProvider(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_PROVIDER", "bedrock")

	_, err := LoadConfig("")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LLM_API_KEY=sk-file\nLLM_MODEL=gpt-4o\nGATEWAY_STRICT_SCHEMA=true\n"), 0o600))

	// Setenv registers cleanup so values exported from the file do not leak.
	t.Setenv("LLM_API_KEY", "")
	os.Unsetenv("LLM_API_KEY")
	t.Setenv("LLM_MODEL", "")
	os.Unsetenv("LLM_MODEL")
	t.Setenv("GATEWAY_STRICT_SCHEMA", "")
	os.Unsetenv("GATEWAY_STRICT_SCHEMA")

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.True(t, cfg.Gateway.StrictSchema)
}

func TestLoadConfigEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LLM_API_KEY=sk-file\n"), 0o600))
	t.Setenv("LLM_API_KEY", "sk-env")

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

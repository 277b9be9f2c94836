package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8000")
	t.Setenv("DEFAULT_LLM_MODEL", "gemini-2.5-flash")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 120*time.Second, cfg.APITimeout)
	assert.Equal(t, 50, cfg.TripsDefaultLimit)
	assert.Equal(t, "Toronto", cfg.DepotLocation)
	assert.Equal(t, 30*time.Second, cfg.Cache.StaleTime)
	assert.Equal(t, 3, cfg.Cache.Retry)
	assert.Equal(t, 200*time.Millisecond, cfg.Suggest.Delay)
	assert.Equal(t, 3, cfg.Suggest.MinLength)
	assert.Equal(t, 10*time.Second, cfg.Suggest.ReadyTimeout)
	assert.Equal(t, "ca", cfg.Suggest.Region)
}

func TestFromEnvMissingRequired(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("DEFAULT_LLM_MODEL", "gemini-2.5-flash")

	_, err := FromEnv()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingEnv))
	assert.Contains(t, err.Error(), "API_BASE_URL")
	assert.Contains(t, err.Error(), "https://your-backend-url")
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8000")
	t.Setenv("DEFAULT_LLM_MODEL", "gemini-2.5-flash")
	t.Setenv("QUERY_RETRY", "0")
	t.Setenv("CACHE_STALE_TIME", "2m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Cache.Retry)
	assert.Equal(t, 2*time.Minute, cfg.Cache.StaleTime)
}

func TestGet(t *testing.T) {
	t.Setenv("DISPATCH_TEST_KEY", "value")
	assert.Equal(t, "value", Get("DISPATCH_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("DISPATCH_TEST_UNSET", "fallback"))
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.env")
	require.NoError(t, os.WriteFile(path, []byte("API_BASE_URL=http://backend:8000\nDEFAULT_LLM_MODEL=gemini-2.5-pro\n"), 0o600))

	t.Setenv("ENV_FILE", path)
	// Registered through t.Setenv so the values godotenv sets are restored.
	t.Setenv("API_BASE_URL", "")
	t.Setenv("DEFAULT_LLM_MODEL", "process-model")
	require.NoError(t, os.Unsetenv("API_BASE_URL"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8000", cfg.APIBaseURL)
	assert.Equal(t, "process-model", cfg.DefaultLLMModel, "process environment wins over the file")
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.env")
}

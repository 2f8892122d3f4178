package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.BaseURL)
	assert.Equal(t, "google/gemini-2.5-flash-preview", cfg.Model)
	assert.Equal(t, 10, cfg.MaxHistoryItems)
	assert.Equal(t, 20, cfg.MaxToolIterations)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout())
	assert.Zero(t, cfg.RequestsPerMinute)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "key")
	t.Setenv("FILEWREN_MODEL", "openai/gpt-4o-mini")
	t.Setenv("FILEWREN_MAX_HISTORY_ITEMS", "4")
	t.Setenv("FILEWREN_REQUEST_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o-mini", cfg.Model)
	assert.Equal(t, 4, cfg.MaxHistoryItems)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
}

func TestLoadRejectsBadWindow(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "key")
	t.Setenv("FILEWREN_MAX_HISTORY_ITEMS", "0")

	_, err := Load()
	assert.Error(t, err)
}

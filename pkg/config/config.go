// Package config holds the runtime configuration, populated from the
// environment. The API key is the only required value; everything else has a
// sensible default so the binary runs with a single exported variable.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// APIKey authenticates against the chat-completion endpoint. Startup is
	// fatal when it is empty.
	APIKey  string `env:"OPENROUTER_API_KEY"`
	BaseURL string `env:"FILEWREN_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model   string `env:"FILEWREN_MODEL" envDefault:"google/gemini-2.5-flash-preview"`

	// MaxHistoryItems bounds how many recent messages (plus the system
	// prompt) are sent per request. The authoritative in-memory history is
	// never truncated.
	MaxHistoryItems int `env:"FILEWREN_MAX_HISTORY_ITEMS" envDefault:"10"`

	// MaxToolIterations caps tool-call rounds within a single user turn.
	MaxToolIterations int `env:"FILEWREN_MAX_TOOL_ITERATIONS" envDefault:"20"`

	RequestTimeoutSeconds int `env:"FILEWREN_REQUEST_TIMEOUT_SECONDS" envDefault:"90"`

	// RequestsPerMinute rate-limits chat requests. Zero disables limiting.
	RequestsPerMinute int `env:"FILEWREN_REQUESTS_PER_MINUTE" envDefault:"0"`

	LogFile string `env:"FILEWREN_LOG_FILE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.MaxHistoryItems < 1 {
		return nil, fmt.Errorf("FILEWREN_MAX_HISTORY_ITEMS must be >= 1, got %d", cfg.MaxHistoryItems)
	}
	if cfg.MaxToolIterations < 1 {
		return nil, fmt.Errorf("FILEWREN_MAX_TOOL_ITERATIONS must be >= 1, got %d", cfg.MaxToolIterations)
	}
	return cfg, nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

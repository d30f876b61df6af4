package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the roadmap service.
// Environment variables are parsed from the ROADMAP_ prefix,
// e.g. ROADMAP_HTTP_PORT, ROADMAP_DATA_DIR.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Flat-file store root. One JSON document per user under the
	// progress/notes/stats namespaces, one directory per user for history.
	DataDir string `envconfig:"DATA_DIR" default:"./server-data"`

	// Chat upstream (OpenAI-compatible chat-completions API)
	ChatBaseURL string `envconfig:"CHAT_BASE_URL" default:"https://api.siliconflow.cn/v1"`
	ChatAPIKey  string `envconfig:"CHAT_API_KEY" default:""`
	ChatModel   string `envconfig:"CHAT_MODEL" default:"deepseek-ai/DeepSeek-V3"`

	// Optional log file; when set, logs rotate via lumberjack instead of
	// going to stdout.
	LogFile string `envconfig:"LOG_FILE" default:""`
}

// Development reports whether error details may be exposed to clients.
func (c *Config) Development() bool { return c.Environment == EnvDevelopment }

// Validate checks fields that have no safe fallback.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unsupported ENVIRONMENT: %s", c.Environment)
	}
	return nil
}

// New creates a new Config by parsing ROADMAP_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("ROADMAP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

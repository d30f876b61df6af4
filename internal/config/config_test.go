package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "./server-data", cfg.DataDir)
	assert.Equal(t, "deepseek-ai/DeepSeek-V3", cfg.ChatModel)
	assert.True(t, cfg.Development())
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("ROADMAP_ENVIRONMENT", "production")
	t.Setenv("ROADMAP_HTTP_PORT", "9090")
	t.Setenv("ROADMAP_DATA_DIR", "/var/lib/roadmap")
	t.Setenv("ROADMAP_CHAT_API_KEY", "sk-test")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "/var/lib/roadmap", cfg.DataDir)
	assert.Equal(t, "sk-test", cfg.ChatAPIKey)
	assert.False(t, cfg.Development())
}

func TestValidate(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("ROADMAP_HTTP_PORT", "70000")
		_, err := New()
		assert.Error(t, err)
	})

	t.Run("bad environment", func(t *testing.T) {
		t.Setenv("ROADMAP_ENVIRONMENT", "staging")
		_, err := New()
		assert.Error(t, err)
	})

	t.Run("empty data dir", func(t *testing.T) {
		cfg := &Config{Environment: EnvDevelopment, HTTPPort: 8080}
		assert.Error(t, cfg.Validate())
	})
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())

	assert.Equal(t, 60*time.Second, cfg.LLM.RequestTimeout)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)

	assert.Equal(t, 5, cfg.Audit.MinQuestionLength)
	assert.Equal(t, 24*time.Hour, cfg.Audit.ReportTTL)

	assert.Equal(t, "gpt-4o-mini", cfg.Providers.OpenAIModel)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.Providers.AnthropicModel)

	assert.False(t, cfg.RedisEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("LLM_REQUEST_TIMEOUT", "15s")
	t.Setenv("MIN_QUESTION_LENGTH", "10")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "sk-test", cfg.Providers.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o", cfg.Providers.OpenAIModel)
	assert.Equal(t, 15*time.Second, cfg.LLM.RequestTimeout)
	assert.Equal(t, 10, cfg.Audit.MinQuestionLength)
	assert.True(t, cfg.RedisEnabled())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPPort: 8080,
			LogLevel: "info",
			LLM: LLMConfig{
				RequestTimeout: time.Minute,
				Temperature:    0.3,
				MaxTokens:      2048,
			},
			Audit: AuditConfig{
				MinQuestionLength: 5,
				ReportTTL:         24 * time.Hour,
				ShutdownTimeout:   30 * time.Second,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port too low", mutate: func(c *Config) { c.HTTPPort = 0 }, wantErr: "invalid HTTP port"},
		{name: "port too high", mutate: func(c *Config) { c.HTTPPort = 70000 }, wantErr: "invalid HTTP port"},
		{name: "zero timeout", mutate: func(c *Config) { c.LLM.RequestTimeout = 0 }, wantErr: "timeout must be positive"},
		{name: "zero max tokens", mutate: func(c *Config) { c.LLM.MaxTokens = 0 }, wantErr: "max tokens"},
		{name: "temperature out of range", mutate: func(c *Config) { c.LLM.Temperature = 2.5 }, wantErr: "temperature"},
		{name: "zero min question length", mutate: func(c *Config) { c.Audit.MinQuestionLength = 0 }, wantErr: "question length"},
		{name: "zero report TTL", mutate: func(c *Config) { c.Audit.ReportTTL = 0 }, wantErr: "report TTL"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

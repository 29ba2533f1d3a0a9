package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the AuditTrail service
type Config struct {
	// Server configuration
	HTTPPort int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Provider credentials and models
	Providers ProviderConfig

	// LLM call settings
	LLM LLMConfig

	// Audit pipeline settings
	Audit AuditConfig

	// Redis configuration (optional; in-memory adapters when unset)
	Redis RedisConfig
}

// ProviderConfig holds per-provider credentials and model overrides.
// A missing key disables that provider; it is never a startup error.
type ProviderConfig struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GoogleAPIKey    string `env:"GOOGLE_API_KEY"`
	CerebrasAPIKey  string `env:"CEREBRAS_API_KEY"`
	XAIAPIKey       string `env:"XAI_API_KEY"`

	OpenAIModel    string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	AnthropicModel string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
	GoogleModel    string `env:"GOOGLE_MODEL" envDefault:"gemini-2.0-flash"`
	CerebrasModel  string `env:"CEREBRAS_MODEL" envDefault:"llama-3.3-70b"`
	XAIModel       string `env:"XAI_MODEL" envDefault:"grok-3-mini"`
}

// LLMConfig holds settings shared by all LLM calls
type LLMConfig struct {
	RequestTimeout time.Duration `env:"LLM_REQUEST_TIMEOUT" envDefault:"60s"`
	Temperature    float64       `env:"LLM_TEMPERATURE" envDefault:"0.3"`
	MaxTokens      int           `env:"LLM_MAX_TOKENS" envDefault:"2048"`
}

// AuditConfig holds audit pipeline settings
type AuditConfig struct {
	MinQuestionLength int           `env:"MIN_QUESTION_LENGTH" envDefault:"5"`
	ReportTTL         time.Duration `env:"REPORT_TTL" envDefault:"24h"`
	ShutdownTimeout   time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// RedisConfig holds Redis connection configuration. An empty Addr keeps
// the service on in-memory adapters.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.LLM.RequestTimeout <= 0 {
		return fmt.Errorf("LLM request timeout must be positive")
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("LLM max tokens must be at least 1")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM temperature must be in [0, 2]: %g", c.LLM.Temperature)
	}

	if c.Audit.MinQuestionLength < 1 {
		return fmt.Errorf("minimum question length must be at least 1")
	}
	if c.Audit.ReportTTL <= 0 {
		return fmt.Errorf("report TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// RedisEnabled reports whether a Redis address was configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

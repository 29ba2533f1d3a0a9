package llm

import (
	"fmt"

	"github.com/audittrail/audittrail/internal/config"
	"github.com/audittrail/audittrail/pkg/adapters/llm/anthropic"
	"github.com/audittrail/audittrail/pkg/adapters/llm/google"
	"github.com/audittrail/audittrail/pkg/adapters/llm/openai"
	"github.com/audittrail/audittrail/pkg/ports"
	"go.uber.org/zap"
)

const (
	cerebrasBaseURL = "https://api.cerebras.ai/v1"
	xaiBaseURL      = "https://api.x.ai/v1"
)

// NewClients builds one client per provider with a configured credential,
// in the fixed fan-out order. Providers without a key are omitted, not
// failed; the returned slice may be empty.
func NewClients(cfg *config.ProviderConfig, logger *zap.Logger) ([]ports.LLMClient, error) {
	type candidate struct {
		name  string
		key   string
		build func() (ports.LLMClient, error)
	}

	candidates := []candidate{
		{
			name: "openai",
			key:  cfg.OpenAIAPIKey,
			build: func() (ports.LLMClient, error) {
				return openai.NewClient("openai", cfg.OpenAIAPIKey, cfg.OpenAIModel)
			},
		},
		{
			name: "anthropic",
			key:  cfg.AnthropicAPIKey,
			build: func() (ports.LLMClient, error) {
				return anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
			},
		},
		{
			name: "google",
			key:  cfg.GoogleAPIKey,
			build: func() (ports.LLMClient, error) {
				return google.NewClient(cfg.GoogleAPIKey, cfg.GoogleModel)
			},
		},
		{
			name: "cerebras",
			key:  cfg.CerebrasAPIKey,
			build: func() (ports.LLMClient, error) {
				return openai.NewClient("cerebras", cfg.CerebrasAPIKey, cfg.CerebrasModel,
					openai.WithBaseURL(cerebrasBaseURL))
			},
		},
		{
			name: "xai",
			key:  cfg.XAIAPIKey,
			build: func() (ports.LLMClient, error) {
				return openai.NewClient("xai", cfg.XAIAPIKey, cfg.XAIModel,
					openai.WithBaseURL(xaiBaseURL))
			},
		},
	}

	var clients []ports.LLMClient
	for _, c := range candidates {
		if c.key == "" {
			logger.Info("provider disabled: credential not set",
				zap.String("provider", c.name))
			continue
		}

		client, err := c.build()
		if err != nil {
			return nil, fmt.Errorf("building %s client: %w", c.name, err)
		}

		logger.Info("provider enabled",
			zap.String("provider", client.Name()),
			zap.String("model", client.Model()))
		clients = append(clients, client)
	}

	return clients, nil
}

package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/audittrail/audittrail/pkg/ports"
)

// Client implements ports.LLMClient using the Anthropic SDK.
type Client struct {
	client anthropic.Client
	model  string
}

// NewClient creates an Anthropic client
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}

	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Name returns the provider name
func (c *Client) Name() string { return "anthropic" }

// Model returns the configured model identifier
func (c *Client) Model() string { return c.model }

// Complete sends one message request and returns the reply text. The
// messages API has no JSON response mode; ForceJSON relies on the system
// prompt demanding strict JSON, with tolerant parsing downstream.
func (c *Client) Complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("messages API: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	if b.Len() == 0 {
		return "", errors.New("no text content in response")
	}

	return b.String(), nil
}

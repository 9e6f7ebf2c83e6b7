package anthropic

import (
	"context"
	"fmt"

	"github.com/bkyoung/mtscreen/internal/adapter/llm"
)

const providerName = "anthropic"

// Client is the interface for making Anthropic API calls.
// This allows mocking in tests.
type Client interface {
	Call(ctx context.Context, prompt string) (*llm.NarrativeResponse, error)
	Model() string
}

// Provider adapts the Anthropic client to the narrative assessment port.
type Provider struct {
	client Client
}

// NewProvider creates a provider backed by the given client.
func NewProvider(client Client) *Provider {
	return &Provider{client: client}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// Assess sends the screening prompt and returns the raw assessment text.
func (p *Provider) Assess(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Call(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("anthropic call failed: %w", err)
	}
	return resp.Text, nil
}

package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPricing_EmbeddingModels(t *testing.T) {
	p := NewDefaultPricing()

	// 1M input tokens of the small embedding model costs $0.02
	cost := p.GetCost("openai", "text-embedding-3-small", 1_000_000, 0)
	assert.InDelta(t, 0.02, cost, 1e-9)

	// Output tokens never contribute for embeddings
	withOutput := p.GetCost("openai", "text-embedding-3-large", 500_000, 500_000)
	assert.InDelta(t, 0.065, withOutput, 1e-9)
}

func TestDefaultPricing_NarrativeModels(t *testing.T) {
	p := NewDefaultPricing()

	cost := p.GetCost("anthropic", "claude-haiku-4-5", 1_000_000, 1_000_000)
	assert.InDelta(t, 6.00, cost, 1e-9)

	cost = p.GetCost("anthropic", "claude-sonnet-4-5-20250929", 100_000, 10_000)
	assert.InDelta(t, 0.45, cost, 1e-9)
}

func TestDefaultPricing_UnknownFallsThroughToZero(t *testing.T) {
	p := NewDefaultPricing()

	assert.Zero(t, p.GetCost("static", "hash-embedder", 1_000_000, 0))
	assert.Zero(t, p.GetCost("openai", "no-such-model", 1_000_000, 0))
	assert.Zero(t, p.GetCost("no-such-provider", "model", 1_000_000, 0))
}

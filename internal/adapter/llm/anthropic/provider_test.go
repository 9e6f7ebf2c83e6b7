package anthropic_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bkyoung/mtscreen/internal/adapter/llm"
	"github.com/bkyoung/mtscreen/internal/adapter/llm/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	response *llm.NarrativeResponse
	err      error
	prompt   string
}

func (m *mockClient) Call(_ context.Context, prompt string) (*llm.NarrativeResponse, error) {
	m.prompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockClient) Model() string { return "claude-haiku-4-5" }

func TestProvider_Name(t *testing.T) {
	provider := anthropic.NewProvider(&mockClient{})
	assert.Equal(t, "anthropic", provider.Name())
}

func TestProvider_Assess_ReturnsText(t *testing.T) {
	client := &mockClient{
		response: &llm.NarrativeResponse{Text: "MT Required: Yes\nDesign Type: III"},
	}
	provider := anthropic.NewProvider(client)

	text, err := provider.Assess(context.Background(), "evaluate this pump replacement")

	require.NoError(t, err)
	assert.Equal(t, "MT Required: Yes\nDesign Type: III", text)
	assert.Equal(t, "evaluate this pump replacement", client.prompt)
}

func TestProvider_Assess_WrapsError(t *testing.T) {
	client := &mockClient{err: errors.New("connection refused")}
	provider := anthropic.NewProvider(client)

	_, err := provider.Assess(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic call failed")
	assert.Contains(t, err.Error(), "connection refused")
}

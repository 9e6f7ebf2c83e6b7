package static_test

import (
	"context"
	"testing"

	"github.com/bkyoung/mtscreen/internal/adapter/llm/static"
	"github.com/bkyoung/mtscreen/internal/usecase/narrative"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, "static", static.NewProvider().Name())
}

func TestProvider_DefaultAssessmentIsConservative(t *testing.T) {
	provider := static.NewProvider()

	text, err := provider.Assess(context.Background(), "any prompt")
	require.NoError(t, err)

	verdict := narrative.ParseVerdict(text)
	require.NotNil(t, verdict.ExplicitRequired)
	assert.True(t, *verdict.ExplicitRequired)
}

func TestProvider_CustomResponse(t *testing.T) {
	provider := static.NewProviderWithResponse("MT Required: No\nDesign Type: V")

	text, err := provider.Assess(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "MT Required: No\nDesign Type: V", text)
}

package narrative_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bkyoung/mtscreen/internal/domain"
	"github.com/bkyoung/mtscreen/internal/usecase/narrative"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	response string
	err      error
	prompt   string
}

func (p *stubProvider) Assess(_ context.Context, prompt string) (string, error) {
	p.prompt = prompt
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func (p *stubProvider) Name() string { return "stub" }

func TestAnalyzer_ExtractsVerdictFromResponse(t *testing.T) {
	// Given a provider that answers in the requested format
	provider := &stubProvider{response: "MT Required: Yes\nDesign Type: III\nMultiple disciplines are involved."}
	analyzer := narrative.NewAnalyzer(provider)

	// When analyzing an input
	verdict, err := analyzer.Analyze(context.Background(), domain.ClassificationInput{
		ProblemDescription: "Cooling pump degraded",
		ProposedSolution:   "Replace with higher-capacity unit",
	})

	// Then the structured fields are extracted
	require.NoError(t, err)
	require.NotNil(t, verdict.ExplicitRequired)
	assert.True(t, *verdict.ExplicitRequired)
	assert.Equal(t, domain.DesignTypeIII, verdict.ExtractedType)
	assert.Contains(t, verdict.RawText, "Multiple disciplines")
}

func TestAnalyzer_PromptCarriesInputAndAttributes(t *testing.T) {
	provider := &stubProvider{response: "ok"}
	analyzer := narrative.NewAnalyzer(provider)

	_, err := analyzer.Analyze(context.Background(), domain.ClassificationInput{
		ProblemDescription:     "Obsolete relay",
		ProposedSolution:       "Install digital protective relay",
		SafetyClassification:   domain.SafetyClassificationSignificant,
		RequiresSoftwareChange: true,
		IsPhysicalChange:       true,
	})

	require.NoError(t, err)
	assert.Contains(t, provider.prompt, "Obsolete relay")
	assert.Contains(t, provider.prompt, "Install digital protective relay")
	assert.Contains(t, provider.prompt, domain.SafetyClassificationSignificant)
	assert.Contains(t, provider.prompt, "Requires software change: true")
	assert.Contains(t, provider.prompt, "MT Required: Yes or No")
}

func TestAnalyzer_PromptOmitsBlankFields(t *testing.T) {
	provider := &stubProvider{response: "ok"}
	analyzer := narrative.NewAnalyzer(provider)

	_, err := analyzer.Analyze(context.Background(), domain.ClassificationInput{
		ProblemDescription: "Pump seal leak",
	})

	require.NoError(t, err)
	assert.NotContains(t, provider.prompt, "Justification:")
	assert.NotContains(t, provider.prompt, "Hazard category:")
	assert.Equal(t, 1, strings.Count(provider.prompt, "Problem:"))
}

func TestAnalyzer_WrapsProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("429 rate limited")}
	analyzer := narrative.NewAnalyzer(provider)

	_, err := analyzer.Analyze(context.Background(), domain.ClassificationInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "narrative provider stub")
	assert.Contains(t, err.Error(), "429 rate limited")
}

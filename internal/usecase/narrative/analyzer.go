// Package narrative runs the optional free-text assessment: it prompts a
// language model with the full modification description and extracts any
// structured signals from the prose it returns.
package narrative

import (
	"context"
	"fmt"

	"github.com/bkyoung/mtscreen/internal/domain"
)

// Provider is the outbound port to the narrative language model.
type Provider interface {
	// Assess sends the prompt and returns the model's prose assessment.
	Assess(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider in logs and evidence trails.
	Name() string
}

// Analyzer wraps a Provider with prompt construction and verdict extraction.
type Analyzer struct {
	provider Provider
}

// NewAnalyzer constructs an analyzer over the given provider.
func NewAnalyzer(provider Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Provider returns the underlying provider's name.
func (a *Analyzer) Provider() string {
	return a.provider.Name()
}

// Analyze prompts the model and extracts a verdict from its response. The
// caller decides how to degrade on error; a nil-error verdict may still be
// Empty when the prose carried no extractable signal.
func (a *Analyzer) Analyze(ctx context.Context, input domain.ClassificationInput) (domain.NarrativeVerdict, error) {
	raw, err := a.provider.Assess(ctx, BuildPrompt(input))
	if err != nil {
		return domain.NarrativeVerdict{}, fmt.Errorf("narrative provider %s: %w", a.provider.Name(), err)
	}
	return ParseVerdict(raw), nil
}

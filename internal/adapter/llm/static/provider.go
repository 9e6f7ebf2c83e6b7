package static

import (
	"context"
)

const providerName = "static"

// defaultAssessment is deliberately conservative: it flags the change as
// requiring a traveler so that an offline run never silently waves
// something through.
const defaultAssessment = "MT Required: Yes\n" +
	"Design Type: II\n" +
	"Rationale: offline assessment; no live analysis performed. " +
	"Route to the design authority for confirmation."

// Provider implements the narrative assessment port with a canned response.
type Provider struct {
	response string
}

// NewProvider constructs a static Provider returning the default
// conservative assessment.
func NewProvider() *Provider {
	return &Provider{response: defaultAssessment}
}

// NewProviderWithResponse constructs a static Provider returning the given
// text verbatim.
func NewProviderWithResponse(response string) *Provider {
	return &Provider{response: response}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// Assess returns the canned assessment text.
func (p *Provider) Assess(_ context.Context, _ string) (string, error) {
	return p.response, nil
}

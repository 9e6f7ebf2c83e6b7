// Package llm provides provider adapters for the embedding and narrative
// collaborators.
package llm

// UsageMetadata captures token usage and cost information from provider API
// calls. It flows alongside the content through the adapter layer.
type UsageMetadata struct {
	TokensIn  int     // Input tokens consumed
	TokensOut int     // Output tokens generated (zero for embeddings)
	Cost      float64 // Cost in USD
}

// EmbeddingResponse is the standardized response from an embedding provider.
type EmbeddingResponse struct {
	Model     string
	Embedding []float64
	Usage     UsageMetadata
}

// NarrativeResponse is the standardized response from a narrative provider.
type NarrativeResponse struct {
	Model string
	Text  string
	Usage UsageMetadata
}

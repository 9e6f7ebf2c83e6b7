package ollama

// EmbeddingRequest represents a request to Ollama's embeddings API.
type EmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// EmbeddingResponse represents a response from Ollama's embeddings API.
type EmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// ErrorResponse represents an error response from Ollama's API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Package ollama implements the embedding port against a local Ollama
// server, for deployments that cannot send modification text off-site.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	llmhttp "github.com/bkyoung/mtscreen/internal/adapter/llm/http"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "nomic-embed-text"
	defaultTimeout = 120 * time.Second // Local models can be slower
)

// HTTPClient is an HTTP client for the Ollama embeddings API.
type HTTPClient struct {
	baseURL     string
	model       string
	timeout     time.Duration
	client      *http.Client
	retryConfig llmhttp.RetryConfig
}

// NewHTTPClient creates a new Ollama HTTP client. Empty arguments select
// the local default server and model.
func NewHTTPClient(baseURL, model string) *HTTPClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &HTTPClient{
		baseURL:     baseURL,
		model:       model,
		timeout:     defaultTimeout,
		client:      &http.Client{Timeout: defaultTimeout},
		retryConfig: llmhttp.DefaultRetryConfig(),
	}
}

// SetTimeout sets the HTTP timeout.
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
	c.client.Timeout = timeout
}

// SetRetryConfig overrides the retry behavior.
func (c *HTTPClient) SetRetryConfig(config llmhttp.RetryConfig) {
	c.retryConfig = config
}

// Model returns the configured model.
func (c *HTTPClient) Model() string {
	return c.model
}

// Embed requests an embedding for text from the local server. It
// implements the embedding port.
func (c *HTTPClient) Embed(ctx context.Context, text string) ([]float64, error) {
	jsonData, err := json.Marshal(EmbeddingRequest{
		Model:  c.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var embedding []float64
	operation := func(ctx context.Context) error {
		url := c.baseURL + "/api/embeddings"
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if strings.Contains(err.Error(), "connection refused") {
				return &llmhttp.Error{
					Type:      llmhttp.ErrTypeServiceUnavailable,
					Message:   fmt.Sprintf("Ollama server not reachable. Is Ollama running? Try: ollama serve. Error: %s", err.Error()),
					Retryable: false,
					Provider:  "ollama",
				}
			}
			return llmhttp.NewTimeoutError("ollama", err.Error())
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return c.handleErrorResponse(resp.StatusCode, body)
		}

		var embResp EmbeddingResponse
		if err := json.Unmarshal(body, &embResp); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		if len(embResp.Embedding) == 0 {
			return fmt.Errorf("empty embedding from Ollama")
		}

		embedding = embResp.Embedding
		return nil
	}

	if err := llmhttp.RetryWithBackoff(ctx, operation, c.retryConfig); err != nil {
		return nil, err
	}
	return embedding, nil
}

// handleErrorResponse maps HTTP status codes to typed errors.
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		message = errResp.Error
	}

	switch statusCode {
	case http.StatusNotFound:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeModelNotFound,
			Message:    fmt.Sprintf("%s. Pull it with: ollama pull %s", message, c.model),
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   "ollama",
		}
	case http.StatusBadRequest:
		return llmhttp.NewInvalidRequestError("ollama", message)
	case http.StatusServiceUnavailable, http.StatusInternalServerError:
		return llmhttp.NewServiceUnavailableError("ollama", message)
	default:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   "ollama",
		}
	}
}

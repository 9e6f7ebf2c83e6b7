// Package openai implements the embedding provider against OpenAI's
// Embeddings API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bkyoung/mtscreen/internal/adapter/llm"
	llmhttp "github.com/bkyoung/mtscreen/internal/adapter/llm/http"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "text-embedding-3-small"
	defaultTimeout = 30 * time.Second
)

// HTTPClient is an HTTP client for the OpenAI Embeddings API. It implements
// the semantic classifier's Embedder port.
type HTTPClient struct {
	apiKey      string
	model       string
	baseURL     string
	timeout     time.Duration
	client      *http.Client
	retryConfig llmhttp.RetryConfig

	logger  llmhttp.Logger  // Optional
	metrics llmhttp.Metrics // Optional
	pricing llmhttp.Pricing // Optional
}

// NewHTTPClient creates a new OpenAI embedding client.
func NewHTTPClient(apiKey, model string) *HTTPClient {
	if model == "" {
		model = defaultModel
	}
	return &HTTPClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     defaultBaseURL,
		timeout:     defaultTimeout,
		client:      &http.Client{Timeout: defaultTimeout},
		retryConfig: llmhttp.DefaultRetryConfig(),
	}
}

// SetBaseURL sets a custom base URL (for testing).
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = url
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

// SetObservability attaches the logging, metrics, and pricing hooks.
func (c *HTTPClient) SetObservability(logger llmhttp.Logger, metrics llmhttp.Metrics, pricing llmhttp.Pricing) {
	c.logger = logger
	c.metrics = metrics
	c.pricing = pricing
}

// Model returns the configured embedding model.
func (c *HTTPClient) Model() string {
	return c.model
}

// Embed implements the Embedder port: it returns the embedding vector for
// the given text.
func (c *HTTPClient) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := c.Call(ctx, text)
	if err != nil {
		return nil, err
	}
	return resp.Embedding, nil
}

// Call makes one request to the Embeddings API with retry and typed error
// mapping, recording observability data when hooks are attached.
func (c *HTTPClient) Call(ctx context.Context, text string) (*llm.EmbeddingResponse, error) {
	start := time.Now()
	c.logRequest(ctx, text)
	c.recordRequest()

	jsonData, err := json.Marshal(EmbeddingRequest{
		Model: c.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var response *llm.EmbeddingResponse
	operation := func(ctx context.Context) error {
		url := c.baseURL + "/v1/embeddings"
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return llmhttp.NewTimeoutError("openai", "request timed out")
			}
			return llmhttp.NewTimeoutError("openai", llmhttp.RedactURLSecrets(err.Error()))
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
		if len(embResp.Data) == 0 {
			return fmt.Errorf("no embedding data in response")
		}

		response = &llm.EmbeddingResponse{
			Model:     embResp.Model,
			Embedding: embResp.Data[0].Embedding,
			Usage: llm.UsageMetadata{
				TokensIn: embResp.Usage.PromptTokens,
			},
		}
		if response.Usage.TokensIn == 0 {
			// Estimate when the API omits usage so cost tracking stays populated
			response.Usage.TokensIn = llm.EstimateTokens(text)
		}
		return nil
	}

	if err := llmhttp.RetryWithBackoff(ctx, operation, c.retryConfig); err != nil {
		c.recordError(ctx, err, time.Since(start))
		return nil, err
	}

	response.Usage.Cost = c.cost(response.Usage.TokensIn)
	c.recordResponse(ctx, response, time.Since(start))
	return response, nil
}

// handleErrorResponse converts HTTP error responses to typed errors.
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	} else if len(body) > 0 && len(body) < 200 {
		message = string(body)
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llmhttp.NewAuthenticationError("openai", message)
	case http.StatusTooManyRequests:
		return llmhttp.NewRateLimitError("openai", message)
	case http.StatusNotFound:
		return llmhttp.NewModelNotFoundError("openai", message)
	case http.StatusBadRequest:
		return llmhttp.NewInvalidRequestError("openai", message)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return llmhttp.NewServiceUnavailableError("openai", message)
	default:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   "openai",
		}
	}
}

func (c *HTTPClient) cost(tokensIn int) float64 {
	if c.pricing == nil {
		return 0
	}
	return c.pricing.GetCost("openai", c.model, tokensIn, 0)
}

func (c *HTTPClient) logRequest(ctx context.Context, text string) {
	if c.logger == nil {
		return
	}
	c.logger.LogRequest(ctx, llmhttp.RequestLog{
		Provider:   "openai",
		Model:      c.model,
		Timestamp:  time.Now(),
		InputChars: len(text),
		APIKey:     c.apiKey,
	})
}

func (c *HTTPClient) recordRequest() {
	if c.metrics != nil {
		c.metrics.RecordRequest("openai", c.model)
	}
}

func (c *HTTPClient) recordResponse(ctx context.Context, resp *llm.EmbeddingResponse, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordDuration("openai", c.model, duration)
		c.metrics.RecordTokens("openai", c.model, resp.Usage.TokensIn, 0)
		c.metrics.RecordCost("openai", c.model, resp.Usage.Cost)
	}
	if c.logger != nil {
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:   "openai",
			Model:      c.model,
			Timestamp:  time.Now(),
			Duration:   duration,
			TokensIn:   resp.Usage.TokensIn,
			Cost:       resp.Usage.Cost,
			StatusCode: http.StatusOK,
		})
	}
}

func (c *HTTPClient) recordError(ctx context.Context, err error, duration time.Duration) {
	errType := llmhttp.ErrTypeUnknown
	statusCode := 0
	retryable := false
	var httpErr *llmhttp.Error
	if errors.As(err, &httpErr) {
		errType = httpErr.Type
		statusCode = httpErr.StatusCode
		retryable = httpErr.Retryable
	}

	if c.metrics != nil {
		c.metrics.RecordError("openai", c.model, errType)
	}
	if c.logger != nil {
		c.logger.LogError(ctx, llmhttp.ErrorLog{
			Provider:   "openai",
			Model:      c.model,
			Timestamp:  time.Now(),
			Duration:   duration,
			Error:      err,
			ErrorType:  errType,
			StatusCode: statusCode,
			Retryable:  retryable,
		})
	}
}

// Package anthropic implements the narrative assessment provider against
// Anthropic's Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bkyoung/mtscreen/internal/adapter/llm"
	llmhttp "github.com/bkyoung/mtscreen/internal/adapter/llm/http"
)

const (
	defaultBaseURL          = "https://api.anthropic.com"
	defaultModel            = "claude-haiku-4-5"
	defaultTimeout          = 60 * time.Second
	defaultAnthropicVersion = "2023-06-01"

	// defaultMaxTokens bounds the assessment response. The screening answer
	// is two structured lines plus a short rationale.
	defaultMaxTokens = 1024

	systemPrompt = "You are a facility modification screening engineer. " +
		"Answer precisely in the requested format."
)

// HTTPClient is an HTTP client for the Anthropic Messages API.
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

// NewHTTPClient creates a new Anthropic HTTP client.
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

// Model returns the configured model.
func (c *HTTPClient) Model() string {
	return c.model
}

// Call makes a request to the Messages API with retry and typed error
// mapping, joining the text content blocks into one response string.
func (c *HTTPClient) Call(ctx context.Context, prompt string) (*llm.NarrativeResponse, error) {
	start := time.Now()
	c.logRequest(ctx, prompt)
	c.recordRequest()

	jsonData, err := json.Marshal(MessagesRequest{
		Model:     c.model,
		System:    systemPrompt,
		MaxTokens: defaultMaxTokens,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var response *llm.NarrativeResponse
	operation := func(ctx context.Context) error {
		url := c.baseURL + "/v1/messages"
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		// Anthropic uses x-api-key instead of Authorization
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", defaultAnthropicVersion)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return llmhttp.NewTimeoutError("anthropic", "request timed out")
			}
			return llmhttp.NewTimeoutError("anthropic", llmhttp.RedactURLSecrets(err.Error()))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return c.handleErrorResponse(resp.StatusCode, body)
		}

		var messagesResp MessagesResponse
		if err := json.Unmarshal(body, &messagesResp); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		if len(messagesResp.Content) == 0 {
			return fmt.Errorf("no content in response")
		}

		var textParts []string
		for _, block := range messagesResp.Content {
			if block.Type == "text" {
				textParts = append(textParts, block.Text)
			}
		}

		response = &llm.NarrativeResponse{
			Model: messagesResp.Model,
			Text:  strings.Join(textParts, ""),
			Usage: llm.UsageMetadata{
				TokensIn:  messagesResp.Usage.InputTokens,
				TokensOut: messagesResp.Usage.OutputTokens,
			},
		}
		return nil
	}

	if err := llmhttp.RetryWithBackoff(ctx, operation, c.retryConfig); err != nil {
		c.recordError(ctx, err, time.Since(start))
		return nil, err
	}

	response.Usage.Cost = c.cost(response.Usage.TokensIn, response.Usage.TokensOut)
	c.recordResponse(ctx, response, time.Since(start))
	return response, nil
}

// handleErrorResponse maps HTTP status codes to typed errors.
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llmhttp.NewAuthenticationError("anthropic", message)
	case http.StatusTooManyRequests:
		return llmhttp.NewRateLimitError("anthropic", message)
	case http.StatusNotFound:
		return llmhttp.NewModelNotFoundError("anthropic", message)
	case http.StatusBadRequest:
		return llmhttp.NewInvalidRequestError("anthropic", message)
	case 529: // Anthropic-specific: overloaded
		return llmhttp.NewServiceUnavailableError("anthropic", message)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return llmhttp.NewServiceUnavailableError("anthropic", message)
	default:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   "anthropic",
		}
	}
}

func (c *HTTPClient) cost(tokensIn, tokensOut int) float64 {
	if c.pricing == nil {
		return 0
	}
	return c.pricing.GetCost("anthropic", c.model, tokensIn, tokensOut)
}

func (c *HTTPClient) logRequest(ctx context.Context, prompt string) {
	if c.logger == nil {
		return
	}
	c.logger.LogRequest(ctx, llmhttp.RequestLog{
		Provider:   "anthropic",
		Model:      c.model,
		Timestamp:  time.Now(),
		InputChars: len(prompt),
		APIKey:     c.apiKey,
	})
}

func (c *HTTPClient) recordRequest() {
	if c.metrics != nil {
		c.metrics.RecordRequest("anthropic", c.model)
	}
}

func (c *HTTPClient) recordResponse(ctx context.Context, resp *llm.NarrativeResponse, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordDuration("anthropic", c.model, duration)
		c.metrics.RecordTokens("anthropic", c.model, resp.Usage.TokensIn, resp.Usage.TokensOut)
		c.metrics.RecordCost("anthropic", c.model, resp.Usage.Cost)
	}
	if c.logger != nil {
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:   "anthropic",
			Model:      c.model,
			Timestamp:  time.Now(),
			Duration:   duration,
			TokensIn:   resp.Usage.TokensIn,
			TokensOut:  resp.Usage.TokensOut,
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
		c.metrics.RecordError("anthropic", c.model, errType)
	}
	if c.logger != nil {
		c.logger.LogError(ctx, llmhttp.ErrorLog{
			Provider:   "anthropic",
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

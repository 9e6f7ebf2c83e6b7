// Package gemini implements the narrative assessment provider against
// Google's Gemini generateContent API.
package gemini

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
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second

	defaultMaxOutputTokens = 1024

	systemPrompt = "You are a facility modification screening engineer. " +
		"Answer precisely in the requested format."
)

// HTTPClient is an HTTP client for the Gemini API.
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

// NewHTTPClient creates a new Gemini HTTP client.
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

// Call makes a request to the generateContent API with retry and typed
// error mapping, joining the candidate's text parts into one string.
func (c *HTTPClient) Call(ctx context.Context, prompt string) (*llm.NarrativeResponse, error) {
	start := time.Now()
	c.logRequest(ctx, prompt)
	c.recordRequest()

	jsonData, err := json.Marshal(GenerateContentRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
		SystemInstruction: &Content{
			Parts: []Part{{Text: systemPrompt}},
		},
		GenerationConfig: &GenerationConfig{
			MaxOutputTokens: defaultMaxOutputTokens,
			CandidateCount:  1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var response *llm.NarrativeResponse
	operation := func(ctx context.Context) error {
		// The API key travels as a query parameter; error paths must go
		// through RedactURLSecrets before logging.
		url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %s", llmhttp.RedactURLSecrets(err.Error()))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return llmhttp.NewTimeoutError("gemini", "request timed out")
			}
			return llmhttp.NewTimeoutError("gemini", llmhttp.RedactURLSecrets(err.Error()))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return c.handleErrorResponse(resp.StatusCode, body)
		}

		var genResp GenerateContentResponse
		if err := json.Unmarshal(body, &genResp); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		if len(genResp.Candidates) == 0 {
			return fmt.Errorf("no candidates in response")
		}

		candidate := genResp.Candidates[0]
		if candidate.FinishReason == "SAFETY" {
			return llmhttp.NewContentFilteredError("gemini", "response blocked by safety filter")
		}

		var textParts []string
		for _, part := range candidate.Content.Parts {
			textParts = append(textParts, part.Text)
		}

		response = &llm.NarrativeResponse{
			Model: c.model,
			Text:  strings.Join(textParts, ""),
			Usage: llm.UsageMetadata{
				TokensIn:  genResp.UsageMetadata.PromptTokenCount,
				TokensOut: genResp.UsageMetadata.CandidatesTokenCount,
			},
		}
		if response.Usage.TokensIn == 0 {
			// usageMetadata is occasionally absent; estimate so cost
			// tracking stays populated.
			response.Usage.TokensIn = llm.EstimateTokens(prompt)
			response.Usage.TokensOut = llm.EstimateTokens(response.Text)
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
		message = llmhttp.RedactURLSecrets(errResp.Error.Message)
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llmhttp.NewAuthenticationError("gemini", message)
	case http.StatusTooManyRequests:
		return llmhttp.NewRateLimitError("gemini", message)
	case http.StatusNotFound:
		return llmhttp.NewModelNotFoundError("gemini", message)
	case http.StatusBadRequest:
		return llmhttp.NewInvalidRequestError("gemini", message)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return llmhttp.NewServiceUnavailableError("gemini", message)
	default:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   "gemini",
		}
	}
}

func (c *HTTPClient) cost(tokensIn, tokensOut int) float64 {
	if c.pricing == nil {
		return 0
	}
	return c.pricing.GetCost("gemini", c.model, tokensIn, tokensOut)
}

func (c *HTTPClient) logRequest(ctx context.Context, prompt string) {
	if c.logger == nil {
		return
	}
	c.logger.LogRequest(ctx, llmhttp.RequestLog{
		Provider:   "gemini",
		Model:      c.model,
		Timestamp:  time.Now(),
		InputChars: len(prompt),
		APIKey:     c.apiKey,
	})
}

func (c *HTTPClient) recordRequest() {
	if c.metrics != nil {
		c.metrics.RecordRequest("gemini", c.model)
	}
}

func (c *HTTPClient) recordResponse(ctx context.Context, resp *llm.NarrativeResponse, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordDuration("gemini", c.model, duration)
		c.metrics.RecordTokens("gemini", c.model, resp.Usage.TokensIn, resp.Usage.TokensOut)
		c.metrics.RecordCost("gemini", c.model, resp.Usage.Cost)
	}
	if c.logger != nil {
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:   "gemini",
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
		c.metrics.RecordError("gemini", c.model, errType)
	}
	if c.logger != nil {
		c.logger.LogError(ctx, llmhttp.ErrorLog{
			Provider:   "gemini",
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

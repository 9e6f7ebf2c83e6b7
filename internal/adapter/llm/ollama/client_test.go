package ollama_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	llmhttp "github.com/bkyoung/mtscreen/internal/adapter/llm/http"
	"github.com/bkyoung/mtscreen/internal/adapter/llm/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() llmhttp.RetryConfig {
	return llmhttp.RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestHTTPClient_Embed_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req ollama.EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "chilled water pump", req.Prompt)

		require.NoError(t, json.NewEncoder(w).Encode(ollama.EmbeddingResponse{
			Embedding: []float64{0.4, 0.5, 0.6},
		}))
	}))
	defer server.Close()

	client := ollama.NewHTTPClient(server.URL, "")

	vector, err := client.Embed(context.Background(), "chilled water pump")

	require.NoError(t, err)
	assert.Equal(t, []float64{0.4, 0.5, 0.6}, vector)
}

func TestHTTPClient_Embed_ModelNotFoundHintsPull(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ollama.ErrorResponse{Error: "model not found"})
	}))
	defer server.Close()

	client := ollama.NewHTTPClient(server.URL, "nomic-embed-text")
	client.SetRetryConfig(fastRetry())

	_, err := client.Embed(context.Background(), "pump")

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, llmhttp.ErrTypeModelNotFound, httpErr.Type)
	assert.Contains(t, httpErr.Message, "ollama pull nomic-embed-text")
}

func TestHTTPClient_Embed_ServerErrorRetriedToSuccess(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(ollama.EmbeddingResponse{
			Embedding: []float64{1},
		}))
	}))
	defer server.Close()

	client := ollama.NewHTTPClient(server.URL, "")
	client.SetRetryConfig(fastRetry())

	vector, err := client.Embed(context.Background(), "pump")

	require.NoError(t, err)
	assert.Equal(t, []float64{1}, vector)
	assert.Equal(t, int64(2), calls.Load())
}

func TestHTTPClient_Embed_EmptyEmbeddingRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(ollama.EmbeddingResponse{}))
	}))
	defer server.Close()

	client := ollama.NewHTTPClient(server.URL, "")
	client.SetRetryConfig(fastRetry())

	_, err := client.Embed(context.Background(), "pump")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty embedding")
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	client := ollama.NewHTTPClient("", "")
	assert.Equal(t, "nomic-embed-text", client.Model())
}

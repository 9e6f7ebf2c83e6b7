package static_test

import (
	"context"
	"math"
	"testing"

	"github.com/bkyoung/mtscreen/internal/adapter/llm/static"
	"github.com/bkyoung/mtscreen/internal/usecase/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Deterministic(t *testing.T) {
	embedder := static.NewEmbedder(0)

	first, err := embedder.Embed(context.Background(), "replace the isolation valve")
	require.NoError(t, err)
	second, err := embedder.Embed(context.Background(), "replace the isolation valve")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, static.DefaultDimensions)
}

func TestEmbedder_NormalizedVector(t *testing.T) {
	embedder := static.NewEmbedder(64)

	vector, err := embedder.Embed(context.Background(), "pump motor bearing replacement")
	require.NoError(t, err)

	var magnitude float64
	for _, v := range vector {
		magnitude += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-9)
}

func TestEmbedder_SharedVocabularyScoresHigher(t *testing.T) {
	embedder := static.NewEmbedder(0)
	ctx := context.Background()

	query, err := embedder.Embed(ctx, "containment isolation valve replacement")
	require.NoError(t, err)
	related, err := embedder.Embed(ctx, "containment isolation valve emergency closure")
	require.NoError(t, err)
	unrelated, err := embedder.Embed(ctx, "diesel generator fuel day tank")
	require.NoError(t, err)

	relatedScore := semantic.CosineSimilarity(query, related)
	unrelatedScore := semantic.CosineSimilarity(query, unrelated)
	assert.Greater(t, relatedScore, unrelatedScore)
}

func TestEmbedder_EmptyTextYieldsZeroVector(t *testing.T) {
	embedder := static.NewEmbedder(16)

	vector, err := embedder.Embed(context.Background(), "")
	require.NoError(t, err)

	for _, v := range vector {
		assert.Zero(t, v)
	}
}

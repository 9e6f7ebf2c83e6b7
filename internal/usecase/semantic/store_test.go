package semantic_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bkyoung/mtscreen/internal/usecase/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder records how many Embed calls it served and can be told
// to fail the first N calls.
type countingEmbedder struct {
	calls    atomic.Int64
	failures atomic.Int64
	vectors  map[string][]float64
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.calls.Add(1)
	if e.failures.Load() > 0 {
		e.failures.Add(-1)
		return nil, errors.New("embedding provider unavailable")
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0, 0}, nil
}

func testExemplars() []semantic.Exemplar {
	return []semantic.Exemplar{
		{Label: "Pump", Category: "rotating equipment", Text: "centrifugal pump"},
		{Label: "Valve", Category: "isolation valve", Text: "gate valve"},
	}
}

func TestReferenceStore_BuildIsIdempotent(t *testing.T) {
	// Given a store over two exemplars
	embedder := &countingEmbedder{}
	store := semantic.NewReferenceStore(semantic.AxisEquipment, embedder, testExemplars())

	// When references are requested repeatedly
	ctx := context.Background()
	first, err := store.References(ctx)
	require.NoError(t, err)
	second, err := store.References(ctx)
	require.NoError(t, err)

	// Then the build ran exactly once and returns the same set
	assert.Equal(t, int64(2), embedder.calls.Load(), "one embed call per exemplar, once")
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestReferenceStore_ConcurrentWarmBuildsOnce(t *testing.T) {
	// Given many goroutines warming the same store at once
	embedder := &countingEmbedder{}
	store := semantic.NewReferenceStore(semantic.AxisModificationType, embedder, testExemplars())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Warm(context.Background()))
		}()
	}
	wg.Wait()

	// Then the embedding provider saw a single build
	assert.Equal(t, int64(2), embedder.calls.Load())
}

func TestReferenceStore_FailedBuildRetries(t *testing.T) {
	// Given an embedder that fails its first call
	embedder := &countingEmbedder{}
	embedder.failures.Store(1)
	store := semantic.NewReferenceStore(semantic.AxisEquipment, embedder, testExemplars())

	// When the first build fails
	ctx := context.Background()
	_, err := store.References(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pump")

	// Then the next caller retries and succeeds
	refs, err := store.References(ctx)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestReferenceStore_EmptyExemplarSet(t *testing.T) {
	store := semantic.NewReferenceStore(semantic.AxisEquipment, &countingEmbedder{}, nil)

	_, err := store.References(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

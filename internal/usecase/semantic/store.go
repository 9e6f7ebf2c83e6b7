// Package semantic implements nearest-neighbor text classification over
// embedding vectors: a read-only reference vector store built once per
// process, and a classifier that ranks reference vectors by cosine
// similarity against embedded input text.
package semantic

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Embedder is the outbound port to the embedding provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ReferenceVector is one embedded exemplar. Immutable once built.
type ReferenceVector struct {
	Label     string
	Category  string
	Embedding []float64
}

// ReferenceStore holds the embedded exemplars for one classification axis.
// The build runs at most once per process: concurrent first callers share a
// single in-flight build through singleflight, so the embedding provider is
// never asked to embed the same exemplar set twice. After the build completes
// the store is immutable and safe for unsynchronized concurrent reads.
type ReferenceStore struct {
	axis      string
	embedder  Embedder
	exemplars []Exemplar

	group singleflight.Group
	refs  atomic.Pointer[[]ReferenceVector]
}

// NewReferenceStore creates an unbuilt store for the given axis.
func NewReferenceStore(axis string, embedder Embedder, exemplars []Exemplar) *ReferenceStore {
	return &ReferenceStore{
		axis:      axis,
		embedder:  embedder,
		exemplars: exemplars,
	}
}

// Axis returns the classification axis this store serves.
func (s *ReferenceStore) Axis() string {
	return s.axis
}

// References returns the embedded reference set, building it on first use.
// A failed build is not cached: the next caller retries, so a transient
// provider outage during warm-up does not poison the process.
func (s *ReferenceStore) References(ctx context.Context) ([]ReferenceVector, error) {
	if refs := s.refs.Load(); refs != nil {
		return *refs, nil
	}

	result, err, _ := s.group.Do(s.axis, func() (interface{}, error) {
		// Re-check: a previous flight may have completed between the
		// fast-path load and entering the group.
		if refs := s.refs.Load(); refs != nil {
			return *refs, nil
		}

		refs, err := s.build(ctx)
		if err != nil {
			return nil, err
		}
		s.refs.Store(&refs)
		return refs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]ReferenceVector), nil
}

// Warm eagerly builds the reference set. Optional; classification builds
// lazily on first use when Warm was never called.
func (s *ReferenceStore) Warm(ctx context.Context) error {
	_, err := s.References(ctx)
	return err
}

func (s *ReferenceStore) build(ctx context.Context) ([]ReferenceVector, error) {
	refs := make([]ReferenceVector, 0, len(s.exemplars))
	for _, exemplar := range s.exemplars {
		embedding, err := s.embedder.Embed(ctx, exemplar.Text)
		if err != nil {
			return nil, fmt.Errorf("embed %s exemplar %q: %w", s.axis, exemplar.Label, err)
		}
		refs = append(refs, ReferenceVector{
			Label:     exemplar.Label,
			Category:  exemplar.Category,
			Embedding: embedding,
		})
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%s reference set is empty", s.axis)
	}
	return refs, nil
}

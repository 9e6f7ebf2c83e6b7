package static

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultDimensions is the vector width of the offline embedder. Large
// enough that distinct tokens rarely collide, small enough to stay cheap.
const DefaultDimensions = 256

// Embedder produces deterministic bag-of-words embeddings by hashing each
// token into a fixed-width vector. Texts sharing vocabulary land near each
// other under cosine similarity, so nearest-neighbor classification still
// behaves sensibly without a network provider.
type Embedder struct {
	dimensions int
}

// NewEmbedder creates an offline embedder. A dimensions value of zero or
// less selects DefaultDimensions.
func NewEmbedder(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Embedder{dimensions: dimensions}
}

// Embed hashes the tokens of text into a normalized vector. It never fails
// and ignores the context; the signature matches the embedding port.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	vector := make([]float64, e.dimensions)

	for _, token := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vector[int(h.Sum32())%e.dimensions]++
	}

	var magnitude float64
	for _, v := range vector {
		magnitude += v * v
	}
	if magnitude > 0 {
		magnitude = math.Sqrt(magnitude)
		for i := range vector {
			vector[i] /= magnitude
		}
	}
	return vector, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '-':
			return false
		default:
			return true
		}
	})
}

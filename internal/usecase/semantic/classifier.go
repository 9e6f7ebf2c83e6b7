package semantic

import (
	"context"
	"sort"

	"github.com/bkyoung/mtscreen/internal/domain"
)

// DefaultMaxAlternatives bounds how many runner-up labels a verdict carries.
const DefaultMaxAlternatives = 3

// Logger is the optional warning sink for degraded classifications.
type Logger interface {
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Classifier ranks reference vectors by cosine similarity against embedded
// input text. It never returns an error: provider failures degrade to the
// zero-confidence Unknown verdict so the pipeline can keep going.
type Classifier struct {
	embedder        Embedder
	store           *ReferenceStore
	maxAlternatives int
	logger          Logger
}

// NewClassifier constructs a classifier over the given reference store.
func NewClassifier(embedder Embedder, store *ReferenceStore) *Classifier {
	return &Classifier{
		embedder:        embedder,
		store:           store,
		maxAlternatives: DefaultMaxAlternatives,
	}
}

// Axis returns the classification axis this classifier serves.
func (c *Classifier) Axis() string {
	return c.store.Axis()
}

// SetLogger attaches a warning logger for degraded classifications.
func (c *Classifier) SetLogger(logger Logger) {
	c.logger = logger
}

// SetMaxAlternatives overrides how many alternatives each verdict carries.
func (c *Classifier) SetMaxAlternatives(n int) {
	if n >= 0 {
		c.maxAlternatives = n
	}
}

// Classify embeds the text and returns the nearest reference label with its
// similarity as confidence, plus up to maxAlternatives runners-up.
func (c *Classifier) Classify(ctx context.Context, text string) domain.SemanticVerdict {
	refs, err := c.store.References(ctx)
	if err != nil {
		c.warn(ctx, "reference store build failed", err)
		return domain.UnknownSemanticVerdict()
	}

	embedding, err := c.embedder.Embed(ctx, text)
	if err != nil {
		c.warn(ctx, "input embedding failed", err)
		return domain.UnknownSemanticVerdict()
	}

	scored := make([]struct {
		ref   ReferenceVector
		score float64
	}, 0, len(refs))
	for _, ref := range refs {
		scored = append(scored, struct {
			ref   ReferenceVector
			score float64
		}{ref: ref, score: CosineSimilarity(embedding, ref.Embedding)})
	}

	// Stable sort keeps the curated exemplar order as the tiebreaker so
	// equal scores rank deterministically.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	top := scored[0]
	verdict := domain.SemanticVerdict{
		Label:      top.ref.Label,
		Category:   top.ref.Category,
		Confidence: clampScore(top.score),
	}

	for _, alt := range scored[1:] {
		if len(verdict.Alternatives) >= c.maxAlternatives {
			break
		}
		verdict.Alternatives = append(verdict.Alternatives, domain.ScoredLabel{
			Label: alt.ref.Label,
			Score: clampScore(alt.score),
		})
	}

	return verdict
}

// clampScore maps raw cosine similarity into the [0,1] confidence range.
// Negative similarity carries no useful signal for this reference set.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func (c *Classifier) warn(ctx context.Context, message string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.LogWarning(ctx, message, map[string]interface{}{
		"axis":  c.store.Axis(),
		"error": err.Error(),
	})
}

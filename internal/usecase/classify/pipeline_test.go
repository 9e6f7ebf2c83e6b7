package classify_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bkyoung/mtscreen/internal/domain"
	"github.com/bkyoung/mtscreen/internal/usecase/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	axis    string
	verdict domain.SemanticVerdict

	mu    sync.Mutex
	texts []string
}

func (f *fakeClassifier) Classify(_ context.Context, text string) domain.SemanticVerdict {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	return f.verdict
}

func (f *fakeClassifier) Axis() string { return f.axis }

type fakeAnalyzer struct {
	verdict domain.NarrativeVerdict
	err     error
	inputs  []domain.ClassificationInput
}

func (f *fakeAnalyzer) Analyze(_ context.Context, input domain.ClassificationInput) (domain.NarrativeVerdict, error) {
	f.inputs = append(f.inputs, input)
	return f.verdict, f.err
}

type fakeStore struct {
	runs []classify.StoreRun
	err  error
}

func (f *fakeStore) SaveRun(_ context.Context, run classify.StoreRun) error {
	f.runs = append(f.runs, run)
	return f.err
}

func (f *fakeStore) Close() error { return nil }

type fakeLogger struct {
	mu       sync.Mutex
	warnings []string
	infos    []string
}

func (l *fakeLogger) LogInfo(_ context.Context, message string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, message)
}

func (l *fakeLogger) LogWarning(_ context.Context, message string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, message)
}

type fakeRedactor struct {
	err error
}

func (r *fakeRedactor) Redact(input string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return strings.ReplaceAll(input, "SECRET", "[REDACTED]"), nil
}

func equipmentFake() *fakeClassifier {
	return &fakeClassifier{
		axis:    "equipment",
		verdict: domain.SemanticVerdict{Label: "Centrifugal Pump", Category: "rotating equipment", Confidence: 0.8},
	}
}

func modTypeFake() *fakeClassifier {
	return &fakeClassifier{
		axis:    "modification-type",
		verdict: domain.SemanticVerdict{Label: "Identical Replacement", Category: "identical replacement", Confidence: 0.7},
	}
}

func scenarioAInput() domain.ClassificationInput {
	return domain.ClassificationInput{
		IsPhysicalChange:       true,
		IsIdenticalReplacement: true,
		IsSingleDiscipline:     true,
		ProblemDescription:     "Replace pump P-001 with identical pump model XYZ-123 due to bearing wear.",
		ProposedSolution:       "No procedure changes required.",
	}
}

func TestPipeline_RequiresBothSemanticAxes(t *testing.T) {
	_, err := classify.NewPipeline(classify.PipelineDeps{ModType: modTypeFake()}).
		Classify(context.Background(), scenarioAInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equipment classifier is required")

	_, err = classify.NewPipeline(classify.PipelineDeps{Equipment: equipmentFake()}).
		Classify(context.Background(), scenarioAInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modification-type classifier is required")
}

func TestPipeline_IdenticalReplacementScenario(t *testing.T) {
	// Given the full pipeline over an identical pump replacement
	pipeline := classify.NewPipeline(classify.PipelineDeps{
		Equipment: equipmentFake(),
		ModType:   modTypeFake(),
	})

	// When classifying
	result, err := pipeline.Classify(context.Background(), scenarioAInput())

	// Then no traveler is needed and the verdict is type V
	require.NoError(t, err)
	assert.False(t, result.Decision.MTRequired)
	assert.Equal(t, domain.DesignTypeV, result.Decision.DesignType)
	assert.InDelta(t, 0.8, result.Decision.Confidence, 1e-9)
	assert.NotEmpty(t, result.RunID)
	assert.NotEmpty(t, result.Fingerprint)
	assert.NotEmpty(t, result.Risk.OverallRisk)
}

func TestPipeline_NarrativeFailureDegradesNotAborts(t *testing.T) {
	// Given a narrative provider that is down
	logger := &fakeLogger{}
	pipeline := classify.NewPipeline(classify.PipelineDeps{
		Equipment: equipmentFake(),
		ModType:   modTypeFake(),
		Narrative: &fakeAnalyzer{err: errors.New("dial tcp: connection refused")},
		Logger:    logger,
	})

	// When classifying
	result, err := pipeline.Classify(context.Background(), scenarioAInput())

	// Then the decision still completes without narrative evidence
	require.NoError(t, err)
	assert.False(t, result.NarrativeAvailable)
	assert.False(t, result.Decision.MTRequired)
	assert.Contains(t, logger.warnings, "narrative assessment unavailable")
}

func TestPipeline_NarrativeVerdictJoinsEvidence(t *testing.T) {
	required := true
	analyzer := &fakeAnalyzer{verdict: domain.NarrativeVerdict{
		ExplicitRequired: &required,
		ExtractedType:    domain.DesignTypeIII,
		RawText:          "MT Required: Yes\nDesign Type: III",
	}}
	pipeline := classify.NewPipeline(classify.PipelineDeps{
		Equipment: equipmentFake(),
		ModType:   modTypeFake(),
		Narrative: analyzer,
	})

	result, err := pipeline.Classify(context.Background(), scenarioAInput())

	require.NoError(t, err)
	assert.True(t, result.NarrativeAvailable)
	assert.True(t, result.Decision.MTRequired, "explicit narrative flag is authoritative")
	require.Len(t, analyzer.inputs, 1)
	assert.Len(t, result.Decision.EvidenceTrail, 4)
}

func TestPipeline_RedactsTextBeforeProviders(t *testing.T) {
	// Given an input whose text carries a secret
	equipment := equipmentFake()
	modType := modTypeFake()
	analyzer := &fakeAnalyzer{verdict: domain.NarrativeVerdict{RawText: "ok"}}
	pipeline := classify.NewPipeline(classify.PipelineDeps{
		Equipment: equipment,
		ModType:   modType,
		Narrative: analyzer,
		Redactor:  &fakeRedactor{},
	})

	input := scenarioAInput()
	input.Justification = "Vendor portal password is SECRET"

	// When classifying
	_, err := pipeline.Classify(context.Background(), input)

	// Then no provider saw the original text
	require.NoError(t, err)
	require.Len(t, equipment.texts, 1)
	assert.NotContains(t, equipment.texts[0], "secret")
	assert.Contains(t, equipment.texts[0], "[redacted]")
	require.Len(t, analyzer.inputs, 1)
	assert.NotContains(t, analyzer.inputs[0].Justification, "SECRET")
}

func TestPipeline_RedactionFailureKeepsTreeVerdict(t *testing.T) {
	// Given a redactor that fails
	equipment := equipmentFake()
	logger := &fakeLogger{}
	pipeline := classify.NewPipeline(classify.PipelineDeps{
		Equipment: equipment,
		ModType:   modTypeFake(),
		Redactor:  &fakeRedactor{err: errors.New("pattern compile failed")},
		Logger:    logger,
	})

	// When classifying a temporary change
	input := scenarioAInput()
	input.IsTemporary = true
	result, err := pipeline.Classify(context.Background(), input)

	// Then no provider was called and the tree verdict stands
	require.NoError(t, err)
	assert.Empty(t, equipment.texts)
	assert.False(t, result.Decision.MTRequired)
	assert.Equal(t, domain.DesignTypeIV, result.Decision.DesignType)
	assert.Contains(t, logger.warnings, "redaction failed, skipping provider calls")
}

func TestPipeline_AllProvidersFailConservativeFallback(t *testing.T) {
	// Given degraded semantic axes, a failing narrative, and an input no
	// screening gate decides
	pipeline := classify.NewPipeline(classify.PipelineDeps{
		Equipment: &fakeClassifier{axis: "equipment", verdict: domain.UnknownSemanticVerdict()},
		ModType:   &fakeClassifier{axis: "modification-type", verdict: domain.UnknownSemanticVerdict()},
		Narrative: &fakeAnalyzer{err: errors.New("timeout")},
	})

	input := domain.ClassificationInput{
		IsPhysicalChange:   true,
		IsSingleDiscipline: true,
		ProblemDescription: "Adjust configuration",
	}

	// When classifying
	result, err := pipeline.Classify(context.Background(), input)

	// Then the conservative default applies
	require.NoError(t, err)
	assert.True(t, result.Decision.MTRequired)
	assert.LessOrEqual(t, result.Decision.Confidence, 0.5)
	assert.Contains(t, result.Decision.Reason, "insufficient evidence")
}

func TestPipeline_PersistsRunWarningOnly(t *testing.T) {
	t.Run("saves the run record", func(t *testing.T) {
		store := &fakeStore{}
		pipeline := classify.NewPipeline(classify.PipelineDeps{
			Equipment: equipmentFake(),
			ModType:   modTypeFake(),
			Store:     store,
		})

		result, err := pipeline.Classify(context.Background(), scenarioAInput())

		require.NoError(t, err)
		require.Len(t, store.runs, 1)
		assert.Equal(t, result.RunID, store.runs[0].ID)
		assert.Equal(t, result.Fingerprint, store.runs[0].Fingerprint)
		assert.Equal(t, "Centrifugal Pump", store.runs[0].EquipmentLabel)
	})

	t.Run("store failure does not break the classification", func(t *testing.T) {
		logger := &fakeLogger{}
		pipeline := classify.NewPipeline(classify.PipelineDeps{
			Equipment: equipmentFake(),
			ModType:   modTypeFake(),
			Store:     &fakeStore{err: errors.New("disk full")},
			Logger:    logger,
		})

		result, err := pipeline.Classify(context.Background(), scenarioAInput())

		require.NoError(t, err)
		assert.Equal(t, domain.DesignTypeV, result.Decision.DesignType)
		assert.Contains(t, logger.warnings, "failed to save run record")
	})
}

func TestPipeline_ResultCarriesFullEvidenceBundle(t *testing.T) {
	pipeline := classify.NewPipeline(classify.PipelineDeps{
		Equipment: equipmentFake(),
		ModType:   modTypeFake(),
	})

	result, err := pipeline.Classify(context.Background(), scenarioAInput())

	require.NoError(t, err)
	assert.NotEmpty(t, result.Tree.EvaluationPath)
	assert.Equal(t, "Centrifugal Pump", result.Equipment.Label)
	assert.Equal(t, "Identical Replacement", result.ModType.Label)
	assert.Equal(t, scenarioAInput(), result.Input)
}

// Package classify implements the request-scoped classification pipeline:
// the deterministic screening tree runs synchronously, the two semantic axes
// and the optional narrative assessment are dispatched concurrently, and the
// joined evidence is synthesized into a decision and risk assessment.
package classify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bkyoung/mtscreen/internal/domain"
	"github.com/bkyoung/mtscreen/internal/usecase/decision"
	"github.com/bkyoung/mtscreen/internal/usecase/risk"
	"github.com/bkyoung/mtscreen/internal/usecase/synthesis"
)

// Default per-call timeouts for the network-bound evidence sources. Each
// call is cancelled independently so one slow provider cannot stall the
// whole decision.
const (
	DefaultSemanticTimeout  = 15 * time.Second
	DefaultNarrativeTimeout = 60 * time.Second
)

// SemanticClassifier is the inbound port of one semantic axis.
type SemanticClassifier interface {
	Classify(ctx context.Context, text string) domain.SemanticVerdict
	Axis() string
}

// NarrativeAnalyzer is the inbound port of the optional narrative source.
type NarrativeAnalyzer interface {
	Analyze(ctx context.Context, input domain.ClassificationInput) (domain.NarrativeVerdict, error)
}

// Redactor scrubs sensitive strings before they leave the process.
type Redactor interface {
	Redact(input string) (string, error)
}

// Store defines the outbound port for persisting classification history.
type Store interface {
	SaveRun(ctx context.Context, run StoreRun) error
	Close() error
}

// StoreRun is one persisted classification outcome.
type StoreRun struct {
	ID          string
	Fingerprint string
	CreatedAt   time.Time
	Input       domain.ClassificationInput
	Decision    domain.Decision
	Risk        domain.RiskAssessment

	EquipmentLabel string
	ModTypeLabel   string
	NarrativeUsed  bool
	DurationMS     int64
}

// Logger defines the outbound port for structured logging.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// PipelineDeps wires the pipeline dependencies.
type PipelineDeps struct {
	Equipment SemanticClassifier
	ModType   SemanticClassifier
	Narrative NarrativeAnalyzer // Optional: runs offline without an LLM
	Redactor  Redactor          // Optional: scrubs text before provider calls
	Store     Store             // Optional: persistence for classification history
	Logger    Logger            // Optional: structured logging for warnings and info

	SemanticTimeout  time.Duration
	NarrativeTimeout time.Duration
}

// Result captures the pipeline outcome with the full evidence bundle, so
// report writers can render the audit trail without re-running anything.
type Result struct {
	RunID       string
	Fingerprint string

	Input              domain.ClassificationInput
	Tree               domain.DecisionTreeVerdict
	Equipment          domain.SemanticVerdict
	ModType            domain.SemanticVerdict
	Narrative          domain.NarrativeVerdict
	NarrativeAvailable bool

	Decision domain.Decision
	Risk     domain.RiskAssessment

	Duration time.Duration
}

// Pipeline implements the classification flow.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline wires the pipeline dependencies, filling in default timeouts.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.SemanticTimeout <= 0 {
		deps.SemanticTimeout = DefaultSemanticTimeout
	}
	if deps.NarrativeTimeout <= 0 {
		deps.NarrativeTimeout = DefaultNarrativeTimeout
	}
	return &Pipeline{deps: deps}
}

// validateDependencies checks that all required dependencies are present.
func (p *Pipeline) validateDependencies() error {
	if p.deps.Equipment == nil {
		return errors.New("equipment classifier is required")
	}
	if p.deps.ModType == nil {
		return errors.New("modification-type classifier is required")
	}
	// Narrative is optional
	// Redactor is optional
	// Store is optional
	return nil
}

// Classify runs the full pipeline for one input. The error return covers
// wiring problems only; provider failures degrade to sentinel verdicts and
// the caller always receives a complete decision and risk assessment.
func (p *Pipeline) Classify(ctx context.Context, input domain.ClassificationInput) (Result, error) {
	if err := p.validateDependencies(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	fingerprint := input.Fingerprint()
	result := Result{
		RunID:       generateRunID(start, fingerprint),
		Fingerprint: fingerprint,
		Input:       input,
		Equipment:   domain.UnknownSemanticVerdict(),
		ModType:     domain.UnknownSemanticVerdict(),
	}

	// The tree is CPU-only and never fails; run it before any network call
	// so its verdict survives as a last-resort partial result.
	result.Tree = decision.Evaluate(input)

	text, redactedInput, ok := p.redact(ctx, input)
	if ok {
		p.gatherEvidence(ctx, text, redactedInput, &result)
	}

	result.Decision = synthesis.Synthesize(input, synthesis.Evidence{
		Tree:               result.Tree,
		Equipment:          result.Equipment,
		ModType:            result.ModType,
		Narrative:          result.Narrative,
		NarrativeAvailable: result.NarrativeAvailable,
	})
	result.Risk = risk.Derive(input, result.Decision)
	result.Duration = time.Since(start)

	p.persist(ctx, result)
	p.logInfo(ctx, "classification complete", map[string]interface{}{
		"runID":      result.RunID,
		"mtRequired": result.Decision.MTRequired,
		"designType": string(result.Decision.DesignType),
		"confidence": result.Decision.Confidence,
		"durationMS": result.Duration.Milliseconds(),
	})

	return result, nil
}

// redact scrubs the free-text fields before they leave the process. A
// redaction failure degrades all network evidence rather than leaking the
// original text to a provider.
func (p *Pipeline) redact(ctx context.Context, input domain.ClassificationInput) (string, domain.ClassificationInput, bool) {
	if p.deps.Redactor == nil {
		return input.CombinedText(), input, true
	}

	redacted := input
	for _, field := range []*string{&redacted.ProblemDescription, &redacted.ProposedSolution, &redacted.Justification} {
		scrubbed, err := p.deps.Redactor.Redact(*field)
		if err != nil {
			p.logWarning(ctx, "redaction failed, skipping provider calls", map[string]interface{}{
				"error": err.Error(),
			})
			return "", domain.ClassificationInput{}, false
		}
		*field = scrubbed
	}
	return redacted.CombinedText(), redacted, true
}

type evidenceResult struct {
	source    string
	semantic  domain.SemanticVerdict
	narrative domain.NarrativeVerdict
	err       error
}

// gatherEvidence dispatches the network-bound evidence sources concurrently
// and joins them. Any subset may fail; failures are logged and leave the
// corresponding degraded sentinel in place.
func (p *Pipeline) gatherEvidence(ctx context.Context, text string, input domain.ClassificationInput, result *Result) {
	tasks := 2
	if p.deps.Narrative != nil {
		tasks++
	}

	var wg sync.WaitGroup
	resultsChan := make(chan evidenceResult, tasks)

	classifyAxis := func(source string, classifier SemanticClassifier) {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, p.deps.SemanticTimeout)
		defer cancel()
		resultsChan <- evidenceResult{source: source, semantic: classifier.Classify(callCtx, text)}
	}

	wg.Add(2)
	go classifyAxis(domain.SourceSemanticEquipment, p.deps.Equipment)
	go classifyAxis(domain.SourceSemanticModType, p.deps.ModType)

	if p.deps.Narrative != nil {
		wg.Add(1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					resultsChan <- evidenceResult{
						source: domain.SourceNarrative,
						err:    fmt.Errorf("narrative analyzer panicked: %v", r),
					}
				}
				wg.Done()
			}()
			callCtx, cancel := context.WithTimeout(ctx, p.deps.NarrativeTimeout)
			defer cancel()
			verdict, err := p.deps.Narrative.Analyze(callCtx, input)
			resultsChan <- evidenceResult{source: domain.SourceNarrative, narrative: verdict, err: err}
		}()
	}

	wg.Wait()
	close(resultsChan)

	for r := range resultsChan {
		switch r.source {
		case domain.SourceSemanticEquipment:
			result.Equipment = r.semantic
		case domain.SourceSemanticModType:
			result.ModType = r.semantic
		case domain.SourceNarrative:
			if r.err != nil {
				p.logWarning(ctx, "narrative assessment unavailable", map[string]interface{}{
					"error": r.err.Error(),
				})
				continue
			}
			result.Narrative = r.narrative
			result.NarrativeAvailable = true
		}
	}
}

// persist saves the run when a store is wired. Store failures are logged
// and never break the classification.
func (p *Pipeline) persist(ctx context.Context, result Result) {
	if p.deps.Store == nil {
		return
	}

	run := StoreRun{
		ID:             result.RunID,
		Fingerprint:    result.Fingerprint,
		CreatedAt:      time.Now().UTC(),
		Input:          result.Input,
		Decision:       result.Decision,
		Risk:           result.Risk,
		EquipmentLabel: result.Equipment.Label,
		ModTypeLabel:   result.ModType.Label,
		NarrativeUsed:  result.NarrativeAvailable,
		DurationMS:     result.Duration.Milliseconds(),
	}
	if err := p.deps.Store.SaveRun(ctx, run); err != nil {
		p.logWarning(ctx, "failed to save run record", map[string]interface{}{
			"runID": result.RunID,
			"error": err.Error(),
		})
	}
}

func (p *Pipeline) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if p.deps.Logger != nil {
		p.deps.Logger.LogInfo(ctx, message, fields)
	}
}

func (p *Pipeline) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if p.deps.Logger != nil {
		p.deps.Logger.LogWarning(ctx, message, fields)
	}
}

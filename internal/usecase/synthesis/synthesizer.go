// Package synthesis merges the three evidence sources into one final
// decision: the deterministic tree verdict, the two semantic axes, and the
// optional narrative assessment, reconciled under an explicit precedence
// policy that tolerates any subset of sources degrading.
package synthesis

import (
	"fmt"
	"strings"

	"github.com/bkyoung/mtscreen/internal/domain"
	"github.com/bkyoung/mtscreen/internal/usecase/decision"
)

// Narrative evidence is advisory prose, so it shifts confidence as binary
// weight rather than contributing a numeric score of its own.
const (
	explicitFlagWeight  = 0.35
	extractedTypeWeight = 0.15

	// fallbackConfidence is reported when every evidence source degraded
	// and the conservative default applies.
	fallbackConfidence = 0.25
)

// fallbackReason is the reason text of the conservative default decision.
const fallbackReason = "insufficient evidence - manual review required"

// Evidence bundles everything the pipeline gathered for one input.
type Evidence struct {
	Tree      domain.DecisionTreeVerdict
	Equipment domain.SemanticVerdict
	ModType   domain.SemanticVerdict
	Narrative domain.NarrativeVerdict

	// NarrativeAvailable distinguishes a provider that answered with
	// unparseable prose from one that failed outright.
	NarrativeAvailable bool
}

// Synthesize reconciles the evidence into a final decision.
//
// Precedence, highest first: an explicit required flag extracted from the
// narrative is authoritative; next, a decision tree gate that actually fired
// carries its structurally grounded verdict; when the tree fell through,
// design-type heuristics over keyword signals decide; and when every source
// degraded with the tree undecided, the conservative default applies.
func Synthesize(input domain.ClassificationInput, ev Evidence) domain.Decision {
	text := input.CombinedText()
	fellThrough := decision.FellThrough(ev.Tree)
	designType := resolveDesignType(ev, fellThrough)

	d := domain.Decision{
		DesignType:    designType,
		EvidenceTrail: buildTrail(ev),
	}

	switch {
	case ev.Narrative.ExplicitRequired != nil:
		d.MTRequired = *ev.Narrative.ExplicitRequired
		d.Reason = narrativeReason(d.MTRequired)

	case !fellThrough:
		d.MTRequired = ev.Tree.Required
		d.Reason = ev.Tree.Reason

	case allDegraded(ev):
		d.MTRequired = true
		d.Reason = fallbackReason
		d.Confidence = fallbackConfidence
		return d

	default:
		d.MTRequired, d.Reason = applyTypeHeuristics(designType, text)
	}

	d.Reason = strengthenReason(d.Reason, designType, text)
	d.Confidence = synthesizeConfidence(ev)
	return d
}

// resolveDesignType prefers the tree's provisional type; the narrative's
// extracted type substitutes only when the tree fell through without a
// decisive gate.
func resolveDesignType(ev Evidence, fellThrough bool) domain.DesignType {
	if fellThrough && ev.Narrative.ExtractedType != "" {
		return ev.Narrative.ExtractedType
	}
	if ev.Tree.ProvisionalType.Valid() {
		return ev.Tree.ProvisionalType
	}
	return domain.DesignTypeII
}

// applyTypeHeuristics decides required-ness from the design type and keyword
// signals when no structural gate settled the question.
func applyTypeHeuristics(designType domain.DesignType, text string) (bool, string) {
	switch designType {
	case domain.DesignTypeI:
		return true, "new installation requires a modification traveler"
	case domain.DesignTypeII:
		return true, "design change requires a modification traveler"
	case domain.DesignTypeIII:
		return true, "non-identical replacement requires a modification traveler"
	case domain.DesignTypeIV:
		if domain.ContainsAny(text, domain.SafetySignificantKeywords) {
			return true, "temporary modification to safety-significant equipment requires a modification traveler"
		}
		return false, "temporary modification without safety significance"
	case domain.DesignTypeV:
		if domain.ContainsAny(text, domain.CriticalSafetyKeywords) {
			return true, "identical replacement of critical safety equipment requires a modification traveler"
		}
		return false, "identical replacement is maintenance in kind"
	}
	return true, "design change requires a modification traveler"
}

// strengthenReason appends the safety or digital-upgrade signal to the
// reason text for type II and III decisions.
func strengthenReason(reason string, designType domain.DesignType, text string) string {
	var signals []string
	switch designType {
	case domain.DesignTypeII:
		if domain.ContainsAny(text, domain.SafetySignificantKeywords) {
			signals = append(signals, "safety-significant equipment involved")
		}
	case domain.DesignTypeIII:
		if domain.ContainsAny(text, domain.SafetySignificantKeywords) {
			signals = append(signals, "safety-significant equipment involved")
		}
		if domain.ContainsAny(text, domain.DigitalUpgradeKeywords) {
			signals = append(signals, "digital upgrade pattern detected")
		}
	}
	if len(signals) == 0 {
		return reason
	}
	return reason + "; " + strings.Join(signals, "; ")
}

func narrativeReason(required bool) string {
	if required {
		return "narrative assessment explicitly requires a modification traveler"
	}
	return "narrative assessment explicitly waives the modification traveler"
}

// allDegraded reports whether neither semantic axis nor the narrative
// produced usable evidence.
func allDegraded(ev Evidence) bool {
	return semanticDegraded(ev.Equipment) &&
		semanticDegraded(ev.ModType) &&
		!ev.NarrativeAvailable
}

func semanticDegraded(v domain.SemanticVerdict) bool {
	return v.Confidence == 0
}

// synthesizeConfidence starts from the best available semantic similarity
// and shifts it toward certainty by the narrative's binary weight when the
// narrative carried a structured signal.
func synthesizeConfidence(ev Evidence) float64 {
	base := ev.Equipment.Confidence
	if ev.ModType.Confidence > base {
		base = ev.ModType.Confidence
	}

	weight := 0.0
	switch {
	case ev.Narrative.ExplicitRequired != nil:
		weight = explicitFlagWeight
	case ev.NarrativeAvailable && ev.Narrative.ExtractedType != "":
		weight = extractedTypeWeight
	}
	if weight == 0 {
		return base
	}
	return (1-weight)*base + weight
}

// buildTrail renders one evidence record per contributing source, in
// pipeline order, for the audit trail.
func buildTrail(ev Evidence) []domain.EvidenceRecord {
	treeConfidence := 1.0
	if decision.FellThrough(ev.Tree) {
		treeConfidence = 0
	}
	trail := []domain.EvidenceRecord{
		{
			Source:     domain.SourceDecisionTree,
			Summary:    fmt.Sprintf("required=%t type=%s: %s", ev.Tree.Required, ev.Tree.ProvisionalType, ev.Tree.Reason),
			Confidence: treeConfidence,
		},
		{
			Source:     domain.SourceSemanticEquipment,
			Summary:    semanticSummary(ev.Equipment),
			Confidence: ev.Equipment.Confidence,
		},
		{
			Source:     domain.SourceSemanticModType,
			Summary:    semanticSummary(ev.ModType),
			Confidence: ev.ModType.Confidence,
		},
	}
	if ev.NarrativeAvailable {
		trail = append(trail, domain.EvidenceRecord{
			Source:     domain.SourceNarrative,
			Summary:    narrativeSummary(ev.Narrative),
			Confidence: narrativeWeight(ev.Narrative),
		})
	}
	return trail
}

func semanticSummary(v domain.SemanticVerdict) string {
	if v.Category == "" {
		return v.Label
	}
	return fmt.Sprintf("%s (%s)", v.Label, v.Category)
}

func narrativeSummary(v domain.NarrativeVerdict) string {
	parts := make([]string, 0, 2)
	if v.ExplicitRequired != nil {
		parts = append(parts, fmt.Sprintf("explicit required=%t", *v.ExplicitRequired))
	}
	if v.ExtractedType != "" {
		parts = append(parts, fmt.Sprintf("extracted type=%s", v.ExtractedType))
	}
	if len(parts) == 0 {
		return "no structured signal extracted"
	}
	return strings.Join(parts, ", ")
}

func narrativeWeight(v domain.NarrativeVerdict) float64 {
	if v.ExplicitRequired != nil {
		return explicitFlagWeight
	}
	if v.ExtractedType != "" {
		return extractedTypeWeight
	}
	return 0
}

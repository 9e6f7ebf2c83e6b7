package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DesignType is one of the five engineering change categories.
type DesignType string

const (
	DesignTypeI   DesignType = "I"   // new design
	DesignTypeII  DesignType = "II"  // modification of an existing design
	DesignTypeIII DesignType = "III" // non-identical replacement
	DesignTypeIV  DesignType = "IV"  // temporary modification
	DesignTypeV   DesignType = "V"   // identical replacement
)

// Description returns the engineering meaning of the design type.
func (d DesignType) Description() string {
	switch d {
	case DesignTypeI:
		return "New design"
	case DesignTypeII:
		return "Modification of an existing design"
	case DesignTypeIII:
		return "Non-identical replacement"
	case DesignTypeIV:
		return "Temporary modification"
	case DesignTypeV:
		return "Identical replacement"
	default:
		return "Unknown"
	}
}

// Valid reports whether the design type is one of the five defined categories.
func (d DesignType) Valid() bool {
	switch d {
	case DesignTypeI, DesignTypeII, DesignTypeIII, DesignTypeIV, DesignTypeV:
		return true
	}
	return false
}

// Safety classifications recognized by the risk deriver.
const (
	SafetyClassificationClass       = "Safety-Class"
	SafetyClassificationSignificant = "Safety-Significant"
	SafetyClassificationGeneral     = "General-Service"
)

// ClassificationInput describes a proposed facility change. It is created
// per request and owned exclusively by one pipeline invocation.
type ClassificationInput struct {
	// Structured screening attributes.
	IsTemporary                     bool `json:"isTemporary"`
	IsPhysicalChange                bool `json:"isPhysicalChange"`
	IsIdenticalReplacement          bool `json:"isIdenticalReplacement"`
	IsDesignOutsideAuthority        bool `json:"isDesignOutsideAuthority"`
	RequiresNewProcedures           bool `json:"requiresNewProcedures"`
	RequiresMultipleDocuments       bool `json:"requiresMultipleDocuments"`
	IsSingleDiscipline              bool `json:"isSingleDiscipline"`
	RevisionsOutsideAuthority       bool `json:"revisionsOutsideAuthority"`
	RequiresSoftwareChange          bool `json:"requiresSoftwareChange"`
	RequiresHoistingRigging         bool `json:"requiresHoistingRigging"`
	FacilityChangePackageApplicable bool `json:"facilityChangePackageApplicable"`

	// Free-text change description.
	ProblemDescription string `json:"problemDescription"`
	ProposedSolution   string `json:"proposedSolution"`
	Justification      string `json:"justification"`

	// Optional categorical attributes.
	SafetyClassification string `json:"safetyClassification,omitempty"`
	HazardCategory       string `json:"hazardCategory,omitempty"`
}

// CombinedText returns the lowercased concatenation of the free-text fields,
// which is what every keyword-based rule scans.
func (in ClassificationInput) CombinedText() string {
	return strings.ToLower(strings.TrimSpace(
		in.ProblemDescription + " " + in.ProposedSolution + " " + in.Justification,
	))
}

// Fingerprint returns a deterministic hash of the input, used to correlate
// persisted runs for the same change description.
func (in ClassificationInput) Fingerprint() string {
	payload := fmt.Sprintf("%t|%t|%t|%t|%t|%t|%t|%t|%t|%t|%t|%s|%s|%s|%s|%s",
		in.IsTemporary,
		in.IsPhysicalChange,
		in.IsIdenticalReplacement,
		in.IsDesignOutsideAuthority,
		in.RequiresNewProcedures,
		in.RequiresMultipleDocuments,
		in.IsSingleDiscipline,
		in.RevisionsOutsideAuthority,
		in.RequiresSoftwareChange,
		in.RequiresHoistingRigging,
		in.FacilityChangePackageApplicable,
		in.ProblemDescription,
		in.ProposedSolution,
		in.Justification,
		in.SafetyClassification,
		in.HazardCategory,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// DecisionTreeVerdict is the deterministic output of the screening flowchart.
type DecisionTreeVerdict struct {
	Required        bool       `json:"required"`
	Reason          string     `json:"reason"`
	ProvisionalType DesignType `json:"provisionalDesignType"`
	// EvaluationPath lists the gates evaluated, in order, ending with the
	// gate that decided the verdict.
	EvaluationPath []string `json:"evaluationPath"`
}

// ScoredLabel is a classifier alternative with its similarity score.
type ScoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SemanticVerdict is the output of one nearest-neighbor classification axis.
type SemanticVerdict struct {
	Label        string        `json:"label"`
	Confidence   float64       `json:"confidence"`
	Category     string        `json:"category"`
	Alternatives []ScoredLabel `json:"alternatives,omitempty"`
}

// UnknownSemanticVerdict is the degraded sentinel returned when the embedding
// provider is unavailable.
func UnknownSemanticVerdict() SemanticVerdict {
	return SemanticVerdict{Label: "Unknown", Confidence: 0}
}

// NarrativeVerdict is the best-effort structured reading of the narrative
// provider's prose. Both structured fields may be absent.
type NarrativeVerdict struct {
	ExplicitRequired *bool      `json:"explicitRequired,omitempty"`
	ExtractedType    DesignType `json:"extractedDesignType,omitempty"`
	RawText          string     `json:"rawText"`
}

// Empty reports whether extraction found nothing structured.
func (v NarrativeVerdict) Empty() bool {
	return v.ExplicitRequired == nil && v.ExtractedType == ""
}

// Evidence source identifiers recorded in the decision trail.
const (
	SourceDecisionTree      = "decision-tree"
	SourceSemanticEquipment = "semantic-equipment"
	SourceSemanticModType   = "semantic-modification-type"
	SourceNarrative         = "narrative"
)

// EvidenceRecord is one entry of the audit trail: which source contributed,
// what it concluded, and how confident it was.
type EvidenceRecord struct {
	Source     string  `json:"source"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
}

// Decision is the final synthesized outcome. DesignType is always one of the
// five categories and Confidence is populated even in full degradation.
type Decision struct {
	MTRequired    bool             `json:"mtRequired"`
	DesignType    DesignType       `json:"designType"`
	Reason        string           `json:"reason"`
	Confidence    float64          `json:"confidence"`
	EvidenceTrail []EvidenceRecord `json:"evidenceTrail"`
}

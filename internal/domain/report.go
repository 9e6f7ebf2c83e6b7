package domain

import "time"

// Report bundles everything a classification run produced for rendering.
type Report struct {
	RunID       string    `json:"runId"`
	Fingerprint string    `json:"fingerprint"`
	GeneratedAt time.Time `json:"generatedAt"`
	DurationMS  int64     `json:"durationMs"`

	Input            ClassificationInput `json:"input"`
	Tree             DecisionTreeVerdict `json:"decisionTree"`
	Equipment        SemanticVerdict     `json:"equipment"`
	ModificationType SemanticVerdict     `json:"modificationType"`
	NarrativeUsed    bool                `json:"narrativeUsed"`

	Decision Decision       `json:"decision"`
	Risk     RiskAssessment `json:"risk"`
}

// ReportArtifact carries a report plus its output destination.
type ReportArtifact struct {
	OutputDir string
	Report    Report
}

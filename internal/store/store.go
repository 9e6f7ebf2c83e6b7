// Package store defines the persistence interface for classification
// history.
package store

import (
	"context"
	"time"
)

// Store defines the persistence layer interface for classification runs.
type Store interface {
	// Run management
	CreateRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// GetRunsByFingerprint returns prior runs whose input matched the
	// given content fingerprint, newest first. Used for audit and for
	// spotting repeat submissions.
	GetRunsByFingerprint(ctx context.Context, fingerprint string) ([]Run, error)

	// Utility
	Close() error
}

// Run represents a single persisted classification outcome. The input and
// evidence trail are stored as JSON alongside the flattened decision
// columns so the history stays queryable without re-running anything.
type Run struct {
	RunID       string
	Fingerprint string
	CreatedAt   time.Time

	MTRequired bool
	DesignType string
	Reason     string
	Confidence float64

	OverallRisk       string
	SafetyRisk        string
	EnvironmentalRisk string
	OperationalRisk   string

	EquipmentLabel string
	ModTypeLabel   string
	NarrativeUsed  bool
	DurationMS     int64

	InputJSON    string
	EvidenceJSON string
	RiskJSON     string
}

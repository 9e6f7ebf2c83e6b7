// Package sqlite implements the classification history store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bkyoung/mtscreen/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- One row per classification run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		mt_required INTEGER NOT NULL,
		design_type TEXT NOT NULL,
		reason TEXT NOT NULL,
		confidence REAL NOT NULL,
		overall_risk TEXT NOT NULL,
		safety_risk TEXT NOT NULL,
		environmental_risk TEXT NOT NULL,
		operational_risk TEXT NOT NULL,
		equipment_label TEXT,
		mod_type_label TEXT,
		narrative_used INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		input_json TEXT NOT NULL,
		evidence_json TEXT,
		risk_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun stores a new classification run.
func (s *Store) CreateRun(ctx context.Context, run store.Run) error {
	query := `
		INSERT INTO runs (
			run_id, fingerprint, created_at,
			mt_required, design_type, reason, confidence,
			overall_risk, safety_risk, environmental_risk, operational_risk,
			equipment_label, mod_type_label, narrative_used, duration_ms,
			input_json, evidence_json, risk_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.RunID,
		run.Fingerprint,
		run.CreatedAt.Unix(),
		boolToInt(run.MTRequired),
		run.DesignType,
		run.Reason,
		run.Confidence,
		run.OverallRisk,
		run.SafetyRisk,
		run.EnvironmentalRisk,
		run.OperationalRisk,
		run.EquipmentLabel,
		run.ModTypeLabel,
		boolToInt(run.NarrativeUsed),
		run.DurationMS,
		run.InputJSON,
		run.EvidenceJSON,
		run.RiskJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (store.Run, error) {
	query := selectColumns + ` FROM runs WHERE run_id = ?`

	row := s.db.QueryRowContext(ctx, query, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return store.Run{}, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	query := selectColumns + ` FROM runs ORDER BY created_at DESC, run_id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// GetRunsByFingerprint returns runs for the same input content, newest first.
func (s *Store) GetRunsByFingerprint(ctx context.Context, fingerprint string) ([]store.Run, error) {
	query := selectColumns + ` FROM runs WHERE fingerprint = ? ORDER BY created_at DESC, run_id DESC`

	rows, err := s.db.QueryContext(ctx, query, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs by fingerprint: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const selectColumns = `
	SELECT run_id, fingerprint, created_at,
		mt_required, design_type, reason, confidence,
		overall_risk, safety_risk, environmental_risk, operational_risk,
		equipment_label, mod_type_label, narrative_used, duration_ms,
		input_json, evidence_json, risk_json
`

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scannable) (store.Run, error) {
	var run store.Run
	var createdAt int64
	var mtRequired, narrativeUsed int

	err := row.Scan(
		&run.RunID,
		&run.Fingerprint,
		&createdAt,
		&mtRequired,
		&run.DesignType,
		&run.Reason,
		&run.Confidence,
		&run.OverallRisk,
		&run.SafetyRisk,
		&run.EnvironmentalRisk,
		&run.OperationalRisk,
		&run.EquipmentLabel,
		&run.ModTypeLabel,
		&narrativeUsed,
		&run.DurationMS,
		&run.InputJSON,
		&run.EvidenceJSON,
		&run.RiskJSON,
	)
	if err != nil {
		return store.Run{}, err
	}

	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	run.MTRequired = mtRequired != 0
	run.NarrativeUsed = narrativeUsed != 0

	return run, nil
}

func collectRuns(rows *sql.Rows) ([]store.Run, error) {
	var runs []store.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

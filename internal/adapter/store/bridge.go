// Package store adapts the persistence layer to the classification
// pipeline's store port.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bkyoung/mtscreen/internal/store"
	"github.com/bkyoung/mtscreen/internal/usecase/classify"
)

// Bridge adapts store.Store to the classify.Store interface.
// This avoids circular dependencies between packages.
type Bridge struct {
	store store.Store
}

// NewBridge creates a new store adapter.
func NewBridge(s store.Store) *Bridge {
	return &Bridge{store: s}
}

// SaveRun flattens and persists a classification outcome. The structured
// input, evidence trail, and risk assessment are serialized to JSON.
func (b *Bridge) SaveRun(ctx context.Context, run classify.StoreRun) error {
	inputJSON, err := json.Marshal(run.Input)
	if err != nil {
		return fmt.Errorf("marshal input: %w", err)
	}
	evidenceJSON, err := json.Marshal(run.Decision.EvidenceTrail)
	if err != nil {
		return fmt.Errorf("marshal evidence trail: %w", err)
	}
	riskJSON, err := json.Marshal(run.Risk)
	if err != nil {
		return fmt.Errorf("marshal risk assessment: %w", err)
	}

	return b.store.CreateRun(ctx, store.Run{
		RunID:       run.ID,
		Fingerprint: run.Fingerprint,
		CreatedAt:   run.CreatedAt,

		MTRequired: run.Decision.MTRequired,
		DesignType: string(run.Decision.DesignType),
		Reason:     run.Decision.Reason,
		Confidence: run.Decision.Confidence,

		OverallRisk:       string(run.Risk.OverallRisk),
		SafetyRisk:        string(run.Risk.SafetyRisk),
		EnvironmentalRisk: string(run.Risk.EnvironmentalRisk),
		OperationalRisk:   string(run.Risk.OperationalRisk),

		EquipmentLabel: run.EquipmentLabel,
		ModTypeLabel:   run.ModTypeLabel,
		NarrativeUsed:  run.NarrativeUsed,
		DurationMS:     run.DurationMS,

		InputJSON:    string(inputJSON),
		EvidenceJSON: string(evidenceJSON),
		RiskJSON:     string(riskJSON),
	})
}

// Close closes the underlying store.
func (b *Bridge) Close() error {
	return b.store.Close()
}

package store_test

import (
	"context"
	"testing"
	"time"

	adapter "github.com/bkyoung/mtscreen/internal/adapter/store"
	"github.com/bkyoung/mtscreen/internal/adapter/store/sqlite"
	"github.com/bkyoung/mtscreen/internal/domain"
	"github.com/bkyoung/mtscreen/internal/usecase/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_SaveRun(t *testing.T) {
	backend, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	defer backend.Close()

	bridge := adapter.NewBridge(backend)
	ctx := context.Background()

	run := classify.StoreRun{
		ID:          "run-20260829T110000Z-bbbbbb",
		Fingerprint: "fp-bridge",
		CreatedAt:   time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC),
		Input: domain.ClassificationInput{
			ProblemDescription: "containment isolation valve failed",
			ProposedSolution:   "replace with different manufacturer model",
		},
		Decision: domain.Decision{
			MTRequired: true,
			DesignType: domain.DesignTypeIII,
			Reason:     "replacement with non-identical component",
			Confidence: 0.78,
			EvidenceTrail: []domain.EvidenceRecord{
				{Source: domain.SourceDecisionTree, Summary: "physical change", Confidence: 1.0},
			},
		},
		Risk: domain.RiskAssessment{
			OverallRisk:       domain.RiskHigh,
			SafetyRisk:        domain.RiskHigh,
			EnvironmentalRisk: domain.RiskLow,
			OperationalRisk:   domain.RiskMedium,
			RiskFactors:       []string{"safety-significant equipment"},
		},
		EquipmentLabel: "Containment Isolation Valve",
		ModTypeLabel:   "Replacement",
		NarrativeUsed:  true,
		DurationMS:     900,
	}

	require.NoError(t, bridge.SaveRun(ctx, run))

	saved, err := backend.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.True(t, saved.MTRequired)
	assert.Equal(t, "III", saved.DesignType)
	assert.Equal(t, "High", saved.OverallRisk)
	assert.Equal(t, "Containment Isolation Valve", saved.EquipmentLabel)
	assert.True(t, saved.NarrativeUsed)
	assert.Contains(t, saved.InputJSON, "containment isolation valve failed")
	assert.Contains(t, saved.EvidenceJSON, "decision-tree")
	assert.Contains(t, saved.RiskJSON, "safety-significant equipment")
}

func TestBridge_Close(t *testing.T) {
	backend, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)

	bridge := adapter.NewBridge(backend)
	require.NoError(t, bridge.Close())
}

package markdown_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bkyoung/mtscreen/internal/adapter/output/markdown"
	"github.com/bkyoung/mtscreen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() domain.Report {
	return domain.Report{
		RunID:       "run-20260829T120000Z-a1b2c3",
		GeneratedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		DurationMS:  850,
		Equipment: domain.SemanticVerdict{
			Label:      "Containment Isolation Valve",
			Confidence: 0.74,
			Category:   "isolation valve",
			Alternatives: []domain.ScoredLabel{
				{Label: "Relief Valve", Score: 0.41},
			},
		},
		ModificationType: domain.SemanticVerdict{
			Label:      "Replacement",
			Confidence: 0.69,
		},
		Decision: domain.Decision{
			MTRequired: true,
			DesignType: domain.DesignTypeIII,
			Reason:     "replacement with non-identical component",
			Confidence: 0.78,
			EvidenceTrail: []domain.EvidenceRecord{
				{Source: domain.SourceDecisionTree, Summary: "physical change to the facility", Confidence: 1.0},
				{Source: domain.SourceSemanticEquipment, Summary: "Containment Isolation Valve", Confidence: 0.74},
			},
		},
		Risk: domain.RiskAssessment{
			OverallRisk:       domain.RiskHigh,
			SafetyRisk:        domain.RiskHigh,
			EnvironmentalRisk: domain.RiskLow,
			OperationalRisk:   domain.RiskMedium,
			RiskFactors:       []string{"safety-significant equipment involved"},
			MitigationRecommendations: []string{
				"perform post-installation leak test",
			},
		},
	}
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	writer := markdown.NewWriter()

	path, err := writer.Write(context.Background(), domain.ReportArtifact{
		OutputDir: dir,
		Report:    sampleReport(),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "run-20260829T120000Z-a1b2c3.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# Modification Screening Report")
	assert.Contains(t, content, "- MT Required: Yes")
	assert.Contains(t, content, "- Design Type: III (Non-identical replacement)")
	assert.Contains(t, content, "- Confidence: 0.78")
	assert.Contains(t, content, "Decision Tree (1.00): physical change to the facility")
	assert.Contains(t, content, "Semantic Equipment (0.74)")
	assert.Contains(t, content, "- Equipment: Containment Isolation Valve (0.74)")
	assert.Contains(t, content, "alternative: Relief Valve (0.41)")
	assert.Contains(t, content, "- Overall: High")
	assert.Contains(t, content, "### Risk Factors")
	assert.Contains(t, content, "safety-significant equipment involved")
	assert.Contains(t, content, "### Recommended Mitigations")
}

func TestWriter_Write_UnavailableSemanticAxis(t *testing.T) {
	report := sampleReport()
	report.Equipment = domain.UnknownSemanticVerdict()
	writer := markdown.NewWriter()

	path, err := writer.Write(context.Background(), domain.ReportArtifact{
		OutputDir: t.TempDir(),
		Report:    report,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "- Equipment: unavailable")
}

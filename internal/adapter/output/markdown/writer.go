// Package markdown renders classification reports into Markdown files.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bkyoung/mtscreen/internal/domain"
)

// Writer renders classification reports into Markdown files.
type Writer struct{}

// NewWriter constructs a Markdown writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write persists a Markdown artifact to disk, named after the run ID.
func (w *Writer) Write(ctx context.Context, artifact domain.ReportArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(artifact.OutputDir, fmt.Sprintf("%s.md", artifact.Report.RunID))

	content := buildContent(artifact.Report)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return path, nil
}

func buildContent(report domain.Report) string {
	var builder strings.Builder
	builder.WriteString("# Modification Screening Report\n\n")
	builder.WriteString(fmt.Sprintf("- Run: %s\n", report.RunID))
	builder.WriteString(fmt.Sprintf("- Generated: %s\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))
	builder.WriteString(fmt.Sprintf("- Duration: %dms\n\n", report.DurationMS))

	builder.WriteString("## Decision\n\n")
	builder.WriteString(fmt.Sprintf("- MT Required: %s\n", yesNo(report.Decision.MTRequired)))
	builder.WriteString(fmt.Sprintf("- Design Type: %s (%s)\n", report.Decision.DesignType, report.Decision.DesignType.Description()))
	builder.WriteString(fmt.Sprintf("- Confidence: %.2f\n", report.Decision.Confidence))
	builder.WriteString(fmt.Sprintf("- Reason: %s\n\n", report.Decision.Reason))

	writeEvidence(&builder, report)
	writeSemantic(&builder, report)
	writeRisk(&builder, report)

	return builder.String()
}

func writeEvidence(builder *strings.Builder, report domain.Report) {
	if len(report.Decision.EvidenceTrail) == 0 {
		return
	}

	caser := cases.Title(language.English)
	builder.WriteString("## Evidence\n\n")
	for _, record := range report.Decision.EvidenceTrail {
		source := caser.String(strings.ReplaceAll(record.Source, "-", " "))
		builder.WriteString(fmt.Sprintf("- %s (%.2f): %s\n", source, record.Confidence, record.Summary))
	}
	builder.WriteString("\n")
}

func writeSemantic(builder *strings.Builder, report domain.Report) {
	builder.WriteString("## Semantic Matches\n\n")
	writeVerdict(builder, "Equipment", report.Equipment)
	writeVerdict(builder, "Modification type", report.ModificationType)
	builder.WriteString("\n")
}

func writeVerdict(builder *strings.Builder, axis string, verdict domain.SemanticVerdict) {
	if verdict.Confidence == 0 {
		builder.WriteString(fmt.Sprintf("- %s: unavailable\n", axis))
		return
	}
	builder.WriteString(fmt.Sprintf("- %s: %s (%.2f)\n", axis, verdict.Label, verdict.Confidence))
	for _, alt := range verdict.Alternatives {
		builder.WriteString(fmt.Sprintf("  - alternative: %s (%.2f)\n", alt.Label, alt.Score))
	}
}

func writeRisk(builder *strings.Builder, report domain.Report) {
	builder.WriteString("## Risk Assessment\n\n")
	builder.WriteString(fmt.Sprintf("- Overall: %s\n", report.Risk.OverallRisk))
	builder.WriteString(fmt.Sprintf("- Safety: %s\n", report.Risk.SafetyRisk))
	builder.WriteString(fmt.Sprintf("- Environmental: %s\n", report.Risk.EnvironmentalRisk))
	builder.WriteString(fmt.Sprintf("- Operational: %s\n", report.Risk.OperationalRisk))

	if len(report.Risk.RiskFactors) > 0 {
		builder.WriteString("\n### Risk Factors\n\n")
		for _, factor := range report.Risk.RiskFactors {
			builder.WriteString(fmt.Sprintf("- %s\n", factor))
		}
	}

	if len(report.Risk.MitigationRecommendations) > 0 {
		builder.WriteString("\n### Recommended Mitigations\n\n")
		for _, mitigation := range report.Risk.MitigationRecommendations {
			builder.WriteString(fmt.Sprintf("- %s\n", mitigation))
		}
	}
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

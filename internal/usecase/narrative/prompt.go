package narrative

import (
	"fmt"
	"strings"

	"github.com/bkyoung/mtscreen/internal/domain"
)

// BuildPrompt renders the classification input as an assessment prompt. The
// response format instructions match what ParseVerdict knows how to read.
func BuildPrompt(input domain.ClassificationInput) string {
	var b strings.Builder

	b.WriteString("You are a facility modification screening engineer. ")
	b.WriteString("Assess whether the change below requires a Modification Traveler (MT) ")
	b.WriteString("and which design type (I, II, III, IV, or V) applies.\n\n")

	b.WriteString("## Modification\n\n")
	writeField(&b, "Problem", input.ProblemDescription)
	writeField(&b, "Proposed solution", input.ProposedSolution)
	writeField(&b, "Justification", input.Justification)
	writeField(&b, "Safety classification", input.SafetyClassification)
	writeField(&b, "Hazard category", input.HazardCategory)

	b.WriteString("\n## Screening attributes\n\n")
	writeAttribute(&b, "Temporary modification", input.IsTemporary)
	writeAttribute(&b, "Physical change", input.IsPhysicalChange)
	writeAttribute(&b, "Identical replacement", input.IsIdenticalReplacement)
	writeAttribute(&b, "Design outside preparer authority", input.IsDesignOutsideAuthority)
	writeAttribute(&b, "Requires new procedures", input.RequiresNewProcedures)
	writeAttribute(&b, "Changes multiple design documents", input.RequiresMultipleDocuments)
	writeAttribute(&b, "Single engineering discipline", input.IsSingleDiscipline)
	writeAttribute(&b, "Document revisions outside authority", input.RevisionsOutsideAuthority)
	writeAttribute(&b, "Requires software change", input.RequiresSoftwareChange)
	writeAttribute(&b, "Requires hoisting and rigging", input.RequiresHoistingRigging)
	writeAttribute(&b, "Facility change package applicable", input.FacilityChangePackageApplicable)

	b.WriteString("\n## Response format\n\n")
	b.WriteString("Start your response with exactly two lines:\n")
	b.WriteString("MT Required: Yes or No\n")
	b.WriteString("Design Type: I, II, III, IV, or V\n")
	b.WriteString("Then explain your reasoning in two or three sentences, ")
	b.WriteString("citing the attributes that drove the conclusion.\n")

	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", name, strings.TrimSpace(value))
}

func writeAttribute(b *strings.Builder, name string, value bool) {
	fmt.Fprintf(b, "- %s: %t\n", name, value)
}

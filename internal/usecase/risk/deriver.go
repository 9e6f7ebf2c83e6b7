// Package risk derives a risk assessment from the final decision and
// keyword signals in the change description. It is a small forward-chaining
// rule engine: every matching rule appends its factor and mitigation, and
// level escalations only ever raise, never lower.
package risk

import (
	"strings"

	"github.com/bkyoung/mtscreen/internal/domain"
)

// rule is one tuple of the fixed rule table. A rule fires when the text
// contains any of anyOf, or all of allOf when anyOf is empty. Escalations
// are applied on top of whatever level previous rules reached.
type rule struct {
	anyOf      []string
	allOf      []string
	factor     string
	mitigation string

	safety      domain.RiskLevel
	environment domain.RiskLevel
	operational domain.RiskLevel
	overall     domain.RiskLevel
}

// ruleTable is scanned in order against the lowercased problem and solution
// text. No short-circuit: multiple rules may fire on one input.
var ruleTable = []rule{
	{
		allOf:      []string{"different manufacturer", "replace"},
		factor:     "non-identical replacement from different manufacturer",
		mitigation: "perform an equivalency evaluation against the original design requirements",
		overall:    domain.RiskHigh,
	},
	{
		anyOf:      domain.NewInstallationKeywords,
		factor:     "new equipment installation in an existing facility configuration",
		mitigation: "verify interface and support-system capacity for the new equipment",
		overall:    domain.RiskHigh,
	},
	{
		anyOf:       domain.TemporaryKeywords,
		factor:      "temporary configuration deviates from the approved design basis",
		mitigation:  "track the temporary modification with a defined restoration date",
		operational: domain.RiskMedium,
	},
	{
		anyOf:      domain.SafetySignificantKeywords,
		factor:     "change affects equipment with a safety function",
		mitigation: "screen the change against the documented safety analysis",
		safety:     domain.RiskHigh,
		overall:    domain.RiskHigh,
	},
	{
		anyOf:      domain.CriticalSafetyKeywords,
		factor:     "change involves safety-class or criticality-related equipment",
		mitigation: "obtain safety committee review before implementation",
		safety:     domain.RiskVeryHigh,
		overall:    domain.RiskHigh,
	},
	{
		anyOf:       domain.DigitalUpgradeKeywords,
		factor:      "software or digital change introduces common-cause failure potential",
		mitigation:  "perform software qualification and verification testing",
		operational: domain.RiskHigh,
	},
	{
		anyOf:       []string{"crane", "hoist", "rigging", "heavy lift", "lift plan"},
		factor:      "hoisting and rigging over or near installed equipment",
		mitigation:  "prepare an engineered lift plan with a defined load path",
		operational: domain.RiskHigh,
	},
	{
		anyOf:       []string{"asbestos", "lead paint", "chemical", "waste", "effluent", "discharge", "spill", "emission", "contamina"},
		factor:      "work may generate or disturb hazardous material",
		mitigation:  "involve environmental compliance before field work begins",
		environment: domain.RiskHigh,
	},
	{
		anyOf:       []string{"outage", "shutdown", "downtime", "loss of power", "interrupt"},
		factor:      "implementation interrupts normal facility operation",
		mitigation:  "schedule the work window with operations and define contingency steps",
		operational: domain.RiskHigh,
	},
}

// Derive computes the risk assessment for a decided change. Pure function;
// defined to never fail for any well-typed input.
func Derive(input domain.ClassificationInput, d domain.Decision) domain.RiskAssessment {
	text := strings.ToLower(input.ProblemDescription + " " + input.ProposedSolution)

	assessment := domain.RiskAssessment{
		OverallRisk:       domain.RiskLow,
		SafetyRisk:        domain.RiskLow,
		EnvironmentalRisk: domain.RiskLow,
		OperationalRisk:   domain.RiskMedium,
	}

	for _, r := range ruleTable {
		if !r.matches(text) {
			continue
		}
		assessment.RiskFactors = append(assessment.RiskFactors, r.factor)
		assessment.MitigationRecommendations = append(assessment.MitigationRecommendations, r.mitigation)
		assessment.SafetyRisk = assessment.SafetyRisk.Escalate(r.safety)
		assessment.EnvironmentalRisk = assessment.EnvironmentalRisk.Escalate(r.environment)
		assessment.OperationalRisk = assessment.OperationalRisk.Escalate(r.operational)
		assessment.OverallRisk = assessment.OverallRisk.Escalate(r.overall)
	}

	applyClassification(&assessment, input.SafetyClassification)
	applyDecision(&assessment, d)

	assessment.OverallRisk = assessment.OverallRisk.
		Escalate(assessment.SafetyRisk).
		Escalate(assessment.EnvironmentalRisk)

	return assessment
}

func (r rule) matches(text string) bool {
	if len(r.anyOf) > 0 {
		return domain.ContainsAny(text, r.anyOf)
	}
	return domain.ContainsAll(text, r.allOf)
}

// applyClassification escalates the safety axis from the declared
// classification, independent of any keyword match.
func applyClassification(a *domain.RiskAssessment, classification string) {
	switch classification {
	case domain.SafetyClassificationClass:
		a.SafetyRisk = a.SafetyRisk.Escalate(domain.RiskVeryHigh)
		a.OverallRisk = a.OverallRisk.Escalate(domain.RiskVeryHigh)
	case domain.SafetyClassificationSignificant:
		a.SafetyRisk = a.SafetyRisk.Escalate(domain.RiskHigh)
		a.OverallRisk = a.OverallRisk.Escalate(domain.RiskHigh)
	}
}

// applyDecision folds the synthesized decision in: changes that need a
// traveler start at least at medium overall risk, and a new design carries
// more unknowns than a modification.
func applyDecision(a *domain.RiskAssessment, d domain.Decision) {
	if d.MTRequired {
		a.OverallRisk = a.OverallRisk.Escalate(domain.RiskMedium)
	}
	if d.DesignType == domain.DesignTypeI {
		a.OverallRisk = a.OverallRisk.Escalate(domain.RiskHigh)
	}
}

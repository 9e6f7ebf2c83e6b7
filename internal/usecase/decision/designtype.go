package decision

import (
	"github.com/bkyoung/mtscreen/internal/domain"
)

// typeRule pairs a keyword set with the design type it selects. Rules are
// evaluated in order; the first match wins, so more specific categories are
// listed before broader ones.
type typeRule struct {
	keywords   []string
	designType domain.DesignType
}

// designTypeRules is the ordered table scanned by DetermineDesignType.
// Temporary and identical-replacement language outranks replacement language
// because replacement keywords appear in almost every change description.
var designTypeRules = []typeRule{
	{keywords: domain.TemporaryKeywords, designType: domain.DesignTypeIV},
	{keywords: domain.IdenticalReplacementKeywords, designType: domain.DesignTypeV},
	{keywords: domain.ReplacementKeywords, designType: domain.DesignTypeIII},
	{keywords: domain.NewInstallationKeywords, designType: domain.DesignTypeI},
}

// DetermineDesignType classifies the change description text into one of the
// five design types. Only the problem description and proposed solution are
// scanned; justification text tends to restate policy language and produces
// false matches. Defaults to type II (modification) when no rule fires.
func DetermineDesignType(input domain.ClassificationInput) domain.DesignType {
	text := domain.ClassificationInput{
		ProblemDescription: input.ProblemDescription,
		ProposedSolution:   input.ProposedSolution,
	}.CombinedText()

	for _, rule := range designTypeRules {
		if domain.ContainsAny(text, rule.keywords) {
			return rule.designType
		}
	}
	return domain.DesignTypeII
}

package domain

// RiskLevel is an ordered qualitative risk rating.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "VeryHigh"
)

// rank orders levels so that escalation never downgrades.
func (r RiskLevel) rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskVeryHigh:
		return 3
	default:
		return 0
	}
}

// Escalate returns the higher of the two levels. Risk rules are additive:
// a level can only move up as rules fire.
func (r RiskLevel) Escalate(to RiskLevel) RiskLevel {
	if to.rank() > r.rank() {
		return to
	}
	return r
}

// AtLeast reports whether the level is at or above the given threshold.
func (r RiskLevel) AtLeast(threshold RiskLevel) bool {
	return r.rank() >= threshold.rank()
}

// RiskAssessment is derived from the final Decision plus keyword signals in
// the input text. Recomputed on every request, never persisted as state.
type RiskAssessment struct {
	OverallRisk       RiskLevel `json:"overallRisk"`
	SafetyRisk        RiskLevel `json:"safetyRisk"`
	EnvironmentalRisk RiskLevel `json:"environmentalRisk"`
	OperationalRisk   RiskLevel `json:"operationalRisk"`

	RiskFactors               []string `json:"riskFactors"`
	MitigationRecommendations []string `json:"mitigationRecommendations"`
}

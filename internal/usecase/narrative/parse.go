package narrative

import (
	"strings"

	"github.com/bkyoung/mtscreen/internal/domain"
)

// Negative phrases are checked before positive ones: "not required" contains
// "required", so order is load-bearing.
var negativeRequiredPhrases = []string{
	"mt required: no",
	"mt is not required",
	"mt not required",
	"modification traveler is not required",
	"modification traveler not required",
	"does not require a modification traveler",
	"does not require an mt",
	"no mt is required",
	"no modification traveler is required",
}

var positiveRequiredPhrases = []string{
	"mt required: yes",
	"mt is required",
	"an mt is required",
	"modification traveler is required",
	"a modification traveler is required",
	"requires a modification traveler",
	"requires an mt",
}

// Longer roman numerals first: "type iii" would otherwise match "type ii",
// and "type iv" would match "type i".
var designTypePhrases = []struct {
	phrase     string
	designType domain.DesignType
}{
	{"type iii", domain.DesignTypeIII},
	{"type ii", domain.DesignTypeII},
	{"type iv", domain.DesignTypeIV},
	{"type v", domain.DesignTypeV},
	{"type i", domain.DesignTypeI},
}

// ParseVerdict extracts structured signals from the model's prose. Both
// fields stay unset when the text carries nothing recognizable; the raw
// text is always preserved for the audit trail.
func ParseVerdict(raw string) domain.NarrativeVerdict {
	verdict := domain.NarrativeVerdict{RawText: raw}
	lowered := strings.ToLower(raw)

	if domain.ContainsAny(lowered, negativeRequiredPhrases) {
		verdict.ExplicitRequired = boolPtr(false)
	} else if domain.ContainsAny(lowered, positiveRequiredPhrases) {
		verdict.ExplicitRequired = boolPtr(true)
	}

	// Accept both "type iii" and the prompted "type: iii" form.
	normalized := strings.ReplaceAll(lowered, ":", "")
	for _, entry := range designTypePhrases {
		if strings.Contains(normalized, entry.phrase) {
			verdict.ExtractedType = entry.designType
			break
		}
	}

	return verdict
}

func boolPtr(v bool) *bool {
	return &v
}

package domain_test

import (
	"testing"

	"github.com/bkyoung/mtscreen/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDesignType_Valid(t *testing.T) {
	valid := []domain.DesignType{
		domain.DesignTypeI,
		domain.DesignTypeII,
		domain.DesignTypeIII,
		domain.DesignTypeIV,
		domain.DesignTypeV,
	}
	for _, dt := range valid {
		assert.True(t, dt.Valid(), "expected %s to be valid", dt)
	}

	assert.False(t, domain.DesignType("").Valid())
	assert.False(t, domain.DesignType("VI").Valid())
}

func TestDesignType_Description(t *testing.T) {
	assert.Equal(t, "New design", domain.DesignTypeI.Description())
	assert.Equal(t, "Identical replacement", domain.DesignTypeV.Description())
	assert.Equal(t, "Unknown", domain.DesignType("bogus").Description())
}

func TestClassificationInput_CombinedText(t *testing.T) {
	input := domain.ClassificationInput{
		ProblemDescription: "Pump P-001 FAILED",
		ProposedSolution:   "Replace with Model XYZ",
		Justification:      "Restore flow",
	}

	combined := input.CombinedText()

	assert.Equal(t, "pump p-001 failed replace with model xyz restore flow", combined)
}

func TestClassificationInput_Fingerprint(t *testing.T) {
	a := domain.ClassificationInput{ProblemDescription: "valve leak"}
	b := domain.ClassificationInput{ProblemDescription: "valve leak"}
	c := domain.ClassificationInput{ProblemDescription: "valve leak", IsTemporary: true}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "identical inputs must hash identically")
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint(), "flag changes must change the fingerprint")
	assert.Len(t, a.Fingerprint(), 64)
}

func TestNarrativeVerdict_Empty(t *testing.T) {
	assert.True(t, domain.NarrativeVerdict{RawText: "prose only"}.Empty())

	required := true
	assert.False(t, domain.NarrativeVerdict{ExplicitRequired: &required}.Empty())
	assert.False(t, domain.NarrativeVerdict{ExtractedType: domain.DesignTypeIII}.Empty())
}

func TestUnknownSemanticVerdict(t *testing.T) {
	verdict := domain.UnknownSemanticVerdict()

	assert.Equal(t, "Unknown", verdict.Label)
	assert.Zero(t, verdict.Confidence)
}

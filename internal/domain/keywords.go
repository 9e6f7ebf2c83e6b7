package domain

import (
	"strings"
)

// Keyword sets used by the design-type classifier, the evidence synthesizer,
// and the risk deriver. All matching is case-insensitive substring
// containment against the combined change description text.

// TemporaryKeywords signal a temporary modification (design type IV).
var TemporaryKeywords = []string{
	"temporary",
	"interim",
	"short-term",
	"short term",
	"until permanent",
}

// IdenticalReplacementKeywords signal a like-for-like replacement (type V).
var IdenticalReplacementKeywords = []string{
	"identical",
	"like-for-like",
	"like for like",
	"same model",
	"same part number",
	"exact replacement",
}

// ReplacementKeywords signal a non-identical replacement of failed or
// degraded equipment (type III).
var ReplacementKeywords = []string{
	"replace",
	"replacement",
	"failed",
	"failure",
	"worn",
	"degraded",
	"obsolete",
	"end of life",
	"different manufacturer",
	"different model",
	"upgrade",
}

// NewInstallationKeywords signal equipment being installed where none
// existed before (type I).
var NewInstallationKeywords = []string{
	"new installation",
	"new install",
	"install new",
	"install a new",
	"add new",
	"new system",
	"new equipment",
	"first time",
	"not currently installed",
}

// SafetySignificantKeywords indicate the change touches a safety function.
var SafetySignificantKeywords = []string{
	"safety",
	"nuclear",
	"radiation",
	"radiological",
	"criticality",
	"fire protection",
	"emergency",
	"containment",
	"seismic",
	"pressure boundary",
}

// CriticalSafetyKeywords are the narrower set that forces an MT even for an
// identical replacement.
var CriticalSafetyKeywords = []string{
	"safety-class",
	"safety class",
	"criticality",
	"containment",
	"reactor",
	"life safety",
}

// DigitalUpgradeKeywords indicate an analog-to-digital or software-bearing
// replacement, which carries extra qualification burden.
var DigitalUpgradeKeywords = []string{
	"digital",
	"plc",
	"software",
	"firmware",
	"microprocessor",
	"analog to digital",
}

// ContainsAny reports whether the lowercased text contains any of the
// keywords. Keywords are expected to already be lowercase.
func ContainsAny(textLower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(textLower, keyword) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether the lowercased text contains every keyword.
// Used for compound trigger patterns such as "different manufacturer" plus
// "replace".
func ContainsAll(textLower string, keywords []string) bool {
	for _, keyword := range keywords {
		if !strings.Contains(textLower, keyword) {
			return false
		}
	}
	return true
}

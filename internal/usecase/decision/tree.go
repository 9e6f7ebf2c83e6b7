// Package decision implements the deterministic screening flowchart that
// maps structured change attributes to a provisional Modification Traveler
// verdict. Evaluation is pure: identical input always yields an identical
// verdict and evaluation path, and no input can make it fail.
package decision

import (
	"github.com/bkyoung/mtscreen/internal/domain"
)

// Gate identifiers recorded in the evaluation path.
const (
	GateTemporary            = "temporary"
	GateNonPhysical          = "non-physical"
	GateIdenticalReplacement = "identical-replacement"
	GateDesignOutsideAuth    = "design-outside-authority"
	GateNewProcedures        = "new-procedures"
	GateMultipleDocuments    = "multiple-documents"
	GateMultiDiscipline      = "multi-discipline"
	GateRevisionsOutsideAuth = "revisions-outside-authority"
	GateSoftwareChange       = "software-change"
	GateHoistingRigging      = "hoisting-rigging"
	GateFallthrough          = "fallthrough"
)

// Evaluate runs the ordered screening gates against the input. Gates are
// checked strictly in order and the first gate whose condition holds decides
// the verdict. At most ten gates are evaluated; there are no cycles.
func Evaluate(input domain.ClassificationInput) domain.DecisionTreeVerdict {
	var path []string

	// Gate 1: temporary changes never need a traveler; they follow the
	// temporary modification process instead.
	path = append(path, GateTemporary)
	if input.IsTemporary {
		return domain.DecisionTreeVerdict{
			Required:        false,
			Reason:          "temporary modification - use the temporary modification process instead of an MT",
			ProvisionalType: domain.DesignTypeIV,
			EvaluationPath:  path,
		}
	}

	// Gate 2: non-physical changes. Checked before identical replacement;
	// the source flowchart orders it this way even for inputs that are
	// simultaneously non-physical and nominally identical.
	path = append(path, GateNonPhysical)
	if !input.IsPhysicalChange {
		return nonPhysicalVerdict(input, path)
	}

	path = append(path, GateIdenticalReplacement)
	if input.IsIdenticalReplacement {
		return domain.DecisionTreeVerdict{
			Required:        false,
			Reason:          "identical replacement - no MT required",
			ProvisionalType: domain.DesignTypeV,
			EvaluationPath:  path,
		}
	}

	// Gates 4-10 all require an MT and differ only in the reason; the
	// design type comes from the keyword classifier.
	requiredGates := []struct {
		id        string
		condition bool
		reason    string
	}{
		{GateDesignOutsideAuth, input.IsDesignOutsideAuthority, "design input changes are outside the authority of existing documents"},
		{GateNewProcedures, input.RequiresNewProcedures, "new or revised operating procedures are required"},
		{GateMultipleDocuments, input.RequiresMultipleDocuments, "multiple design documents require coordinated revision"},
		{GateMultiDiscipline, !input.IsSingleDiscipline, "change spans multiple engineering disciplines"},
		{GateRevisionsOutsideAuth, input.RevisionsOutsideAuthority, "document revisions exceed the preparer's approval authority"},
		{GateSoftwareChange, input.RequiresSoftwareChange, "software or control logic changes are required"},
		{GateHoistingRigging, input.RequiresHoistingRigging, "engineered hoisting and rigging is required"},
	}

	for _, gate := range requiredGates {
		path = append(path, gate.id)
		if gate.condition {
			return domain.DecisionTreeVerdict{
				Required:        true,
				Reason:          gate.reason,
				ProvisionalType: DetermineDesignType(input),
				EvaluationPath:  path,
			}
		}
	}

	path = append(path, GateFallthrough)
	return domain.DecisionTreeVerdict{
		Required:        false,
		Reason:          "possibly exempt - no screening criterion met; confirm with design authority",
		ProvisionalType: DetermineDesignType(input),
		EvaluationPath:  path,
	}
}

// FellThrough reports whether the verdict came from the fallthrough branch
// rather than a fired gate. The synthesizer treats a fallthrough provisional
// type as weaker evidence than a gate-backed one.
func FellThrough(verdict domain.DecisionTreeVerdict) bool {
	n := len(verdict.EvaluationPath)
	return n > 0 && verdict.EvaluationPath[n-1] == GateFallthrough
}

// nonPhysicalVerdict resolves the gate 2 sub-branches. A non-physical change
// routed through a Facility Change Package keeps design type II even though
// no MT is required; that pairing comes from the source flowchart and is
// preserved as observed.
func nonPhysicalVerdict(input domain.ClassificationInput, path []string) domain.DecisionTreeVerdict {
	if input.FacilityChangePackageApplicable {
		return domain.DecisionTreeVerdict{
			Required:        false,
			Reason:          "non-physical change - process through a Facility Change Package instead of an MT",
			ProvisionalType: domain.DesignTypeII,
			EvaluationPath:  path,
		}
	}

	if input.RequiresNewProcedures {
		return domain.DecisionTreeVerdict{
			Required:        true,
			Reason:          "non-physical change requiring new or revised procedures",
			ProvisionalType: domain.DesignTypeII,
			EvaluationPath:  path,
		}
	}

	return domain.DecisionTreeVerdict{
		Required:        false,
		Reason:          "non-physical change - no MT required",
		ProvisionalType: domain.DesignTypeII,
		EvaluationPath:  path,
	}
}

package calculation

import (
	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/natzcalc/filing-calculator/pkg/dateutil"
)

// Branch descriptors. Downstream consumers key notification suppression off
// these strings, so they must never change.
const (
	DescLPRC1A = "LPRC - 1A"
	DescLPRC1B = "LPRC - 1B"
	DescLPRC1C = "LPRC - 1C"

	DescMarriedNoBenefitPF = "LPRC - Married No Benefit PF"
	DescMarriedNoBenefitEA = "LPRC - Married No Benefit EA"
	DescSpouseNoBenefitPF  = "LPRC - Spouse No Benefit PF"
	DescSpouseNoBenefitEA  = "LPRC - Spouse No Benefit EA"
)

// branch is one leaf of the decision tree.
type branch struct {
	date   dateutil.Date
	desc   string
	status domain.Status
}

// spouseTrack parameterises the three-year marriage-based decision tree.
// The DM and SC trees are identical apart from these rows.
type spouseTrack struct {
	full  dateutil.Date // DMC or SCC: three-year date
	early dateutil.Date // DM2 or SC2: two-year date
	descs trackDescs
}

type trackDescs struct {
	a, b, d, e, f, g, h, i string
}

var (
	marriageDescs = trackDescs{
		a: "DMC - 2A", b: "LPR3 - 2B", d: "DMC - 2D", e: "DMC - 2E",
		f: "LPR3 - 2F", g: "LPR3 - 2G", h: "DMC - 2H", i: "LPR3 - 2I",
	}
	spouseCitizenDescs = trackDescs{
		a: "SCC - 2A", b: "LPR3 - 2B", d: "SCC - 2D", e: "SCC - 2E",
		f: "LPR3 - 2F", g: "LPR3 - 2G", h: "SCC - 2H", i: "LPR3 - 2I",
	}
)

// ClassifyControllingFactor selects the controlling factor and walks its
// decision tree. It is a pure function of its arguments; a zero Today simply
// loses every comparison.
func ClassifyControllingFactor(d domain.DerivedDates, marital domain.MaritalStatus) domain.ControllingFactorResult {
	src := d.Source
	if src.LPRDate.IsZero() {
		return domain.ControllingFactorResult{}
	}

	result := domain.ControllingFactorResult{ControllingFactor: selectFactor(d, marital)}
	today := src.Today

	if result.ControllingFactor == domain.FactorLPR {
		result = apply(result, classifyResidentTrack(d, today))
	}

	// Exactly one of the two spouse dates is contradictory input: clear the
	// outcome but keep whatever factor was selected.
	hasMarriage, hasSpouse := src.HasMarriageDate(), src.HasSpouseCitizenshipDate()
	if hasMarriage != hasSpouse {
		result.ControllingDate = dateutil.Date{}
		result.ControllingDesc = ""
		result.Status = domain.StatusNone
		return result
	}
	if !hasMarriage {
		return result
	}

	switch result.ControllingFactor {
	case domain.FactorLPRM:
		result = apply(result, classifyNoBenefit(d, today, DescMarriedNoBenefitPF, DescMarriedNoBenefitEA))
	case domain.FactorLPRS:
		result = apply(result, classifyNoBenefit(d, today, DescSpouseNoBenefitPF, DescSpouseNoBenefitEA))
	case domain.FactorDM:
		result = apply(result, classifySpouseTrack(d, today, spouseTrack{full: d.DMC, early: d.DM2, descs: marriageDescs}))
	case domain.FactorSC:
		result = apply(result, classifySpouseTrack(d, today, spouseTrack{full: d.SCC, early: d.SC2, descs: spouseCitizenDescs}))
	}
	return result
}

// selectFactor makes the initial pathway guess from the marital answer.
// Any answer other than NotMarried takes the married path; a missing spouse
// date loses every comparison it takes part in.
func selectFactor(d domain.DerivedDates, marital domain.MaritalStatus) domain.ControllingFactor {
	if marital == domain.MaritalStatusNotMarried {
		return domain.FactorLPR
	}

	later := dateutil.Later(d.DMC, d.SCC)
	if later.Equal(d.DMC) {
		if d.LPRC.OnOrAfter(d.DMC) || d.LPR2.OnOrAfter(d.DMC) {
			return domain.FactorDM
		}
		return domain.FactorLPRM
	}
	if d.LPRC.OnOrAfter(d.SCC) || d.LPR2.OnOrAfter(d.SCC) {
		return domain.FactorSC
	}
	return domain.FactorLPRS
}

func classifyResidentTrack(d domain.DerivedDates, today dateutil.Date) branch {
	switch {
	case today.OnOrAfter(d.LPRC):
		return branch{d.LPRC, DescLPRC1A, domain.StatusEligibleNow}
	case today.OnOrAfter(d.LPR4):
		return branch{d.LPRC, DescLPRC1B, domain.StatusPrepareFileLater}
	default:
		return branch{d.LPRC, DescLPRC1C, domain.StatusEligibilityAssessment}
	}
}

func classifyNoBenefit(d domain.DerivedDates, today dateutil.Date, prepareDesc, assessDesc string) branch {
	if today.OnOrAfter(d.LPR4) {
		return branch{d.LPRC, prepareDesc, domain.StatusPrepareFileLater}
	}
	return branch{d.LPRC, assessDesc, domain.StatusEligibilityAssessment}
}

// classifySpouseTrack walks the shared DM/SC tree. Each case is a guard that
// excludes every case above it, and the final default is the assessment outcome.
func classifySpouseTrack(d domain.DerivedDates, today dateutil.Date, tr spouseTrack) branch {
	switch {
	case today.OnOrAfter(tr.full) && today.OnOrAfter(d.LPR3):
		return branch{tr.full, tr.descs.a, domain.StatusEligibleNow}
	case today.OnOrAfter(tr.full):
		return branch{d.LPR3, tr.descs.b, domain.StatusPrepareFileLater}
	case today.OnOrAfter(tr.early):
		return classifyEarlyWindow(d, today, tr)
	case tr.early.OnOrAfter(d.LPR2):
		return branch{tr.full, tr.descs.h, domain.StatusEligibilityAssessment}
	default:
		return branch{d.LPR3, tr.descs.i, domain.StatusEligibilityAssessment}
	}
}

// classifyEarlyWindow covers today between the two-year and three-year spouse dates.
func classifyEarlyWindow(d domain.DerivedDates, today dateutil.Date, tr spouseTrack) branch {
	switch {
	case tr.early.OnOrAfter(d.LPR3):
		return branch{tr.full, tr.descs.d, domain.StatusPrepareFileLater}
	case tr.early.OnOrAfter(d.LPR2):
		return branch{tr.full, tr.descs.e, domain.StatusPrepareFileLater}
	case today.OnOrAfter(d.LPR2):
		return branch{d.LPR3, tr.descs.f, domain.StatusPrepareFileLater}
	default:
		return branch{d.LPR3, tr.descs.g, domain.StatusEligibilityAssessment}
	}
}

func apply(r domain.ControllingFactorResult, b branch) domain.ControllingFactorResult {
	r.ControllingDate = b.date
	r.ControllingDesc = b.desc
	r.Status = b.status
	return r
}

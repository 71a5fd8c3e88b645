package calculation

import (
	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/natzcalc/filing-calculator/pkg/dateutil"
)

// EligibilityEngine orchestrates derived dates, classification and presence
// for an applicant. It holds no per-call state and is safe for concurrent use
// as long as its fields are not reassigned while evaluations run.
type EligibilityEngine struct {
	Debug  bool // Enable debug output for the decision path
	Logger Logger
}

// NewEligibilityEngine creates a new eligibility engine
func NewEligibilityEngine() *EligibilityEngine {
	return &EligibilityEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *EligibilityEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Evaluate runs the full evaluation for one applicant. The applicant's Today
// wins over asOf, and a zero asOf falls back to the clock.
func (e *EligibilityEngine) Evaluate(applicant domain.Applicant, asOf dateutil.Date) *domain.EligibilityReport {
	src := applicant.Dates
	if src.Today.IsZero() {
		src.Today = asOf
	}
	if src.Today.IsZero() {
		src.Today = Today()
	}
	applicant.Dates = src

	derived := ComputeDerivedDates(src)
	result := ClassifyControllingFactor(derived, applicant.MaritalStatus)
	lookback := LookbackYearsFor(result.ControllingFactor)
	presence := EvaluateIntervals(applicant.Trips, lookback, src.Today)

	report := &domain.EligibilityReport{
		Applicant:          applicant,
		Derived:            derived,
		Result:             result,
		Presence:           presence,
		EarliestFilingDate: EarliestFilingDate(result, presence),
	}

	e.logReport(report)
	return report
}

// EvaluateAll evaluates every applicant in a case file against the file's
// Today (or asOf when the file has none).
func (e *EligibilityEngine) EvaluateAll(cf *domain.CaseFile, asOf dateutil.Date) []*domain.EligibilityReport {
	if !cf.Today.IsZero() {
		asOf = cf.Today
	}
	reports := make([]*domain.EligibilityReport, 0, len(cf.Applicants))
	for _, a := range cf.Applicants {
		reports = append(reports, e.Evaluate(a, asOf))
	}
	return reports
}

// EarliestFilingDate is the latest of the controlling date and any delay the
// trip history imposes. It is absent when there is no controlling date.
func EarliestFilingDate(result domain.ControllingFactorResult, presence domain.PresenceAssessment) dateutil.Date {
	if result.ControllingDate.IsZero() {
		return dateutil.Date{}
	}
	earliest := result.ControllingDate
	earliest = dateutil.Later(earliest, presence.DelayedFilingDate)
	earliest = dateutil.Later(earliest, presence.PresenceDelayDate)
	return earliest
}

func (e *EligibilityEngine) logReport(r *domain.EligibilityReport) {
	if e.Logger == nil {
		return
	}
	id := r.Applicant.ID
	src := r.Applicant.Dates

	if src.LPRDate.IsZero() {
		e.Logger.Warnf("applicant %s: no permanent resident date, no determination made", id)
		return
	}
	if src.HasMarriageDate() != src.HasSpouseCitizenshipDate() {
		e.Logger.Warnf("applicant %s: only one of marriage/spouse citizenship date present, outcome cleared (factor %s)",
			id, r.Result.ControllingFactor)
	}
	if n := len(r.Presence.MalformedTrips); n > 0 {
		e.Logger.Warnf("applicant %s: %d trip(s) end before they start", id, n)
	}

	if e.Debug {
		d := r.Derived
		e.Logger.Debugf("applicant %s derived dates:", id)
		e.Logger.Debugf("  LPR2=%s LPR3=%s LPR4=%s LPRC=%s LPR36=%s LPRC6=%s", d.LPR2, d.LPR3, d.LPR4, d.LPRC, d.LPR36, d.LPRC6)
		e.Logger.Debugf("  DM2=%s DMC=%s DMC6=%s", d.DM2, d.DMC, d.DMC6)
		e.Logger.Debugf("  SC2=%s SCC=%s SCC6=%s", d.SC2, d.SCC, d.SCC6)
		e.Logger.Debugf("  presence: window=%d abroad=%d present=%d required=%d",
			r.Presence.WindowDays, r.Presence.DaysAbroad, r.Presence.DaysPresent, r.Presence.RequiredPresenceDays)
	}

	e.Logger.Infof("applicant %s: factor=%s desc=%q status=%q date=%s",
		id, r.Result.ControllingFactor, r.Result.ControllingDesc, r.Result.Status, r.Result.ControllingDate)
}

package calculation

import (
	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/natzcalc/filing-calculator/pkg/dateutil"
)

// Early-filing and lookback offsets. The 90-day window is the early-filing
// allowance on the permanent-resident track.
const (
	earlyFilingDays    = -90
	preNoticeMonths    = 6
	marriageTrackYears = 3
	marriageEarlyYears = 2
	residentTrackYears = 5
	residentFourthYear = 4
	residentThirdYear  = 3
	residentSecondYear = 2
)

// ComputeDerivedDates computes every filing threshold from the source dates.
// A missing source date leaves the dates derived from it absent.
func ComputeDerivedDates(src domain.SourceDates) domain.DerivedDates {
	d := domain.DerivedDates{Source: src}

	d.LPR2 = dateutil.AddYears(src.LPRDate, residentSecondYear, earlyFilingDays)
	d.LPR3 = dateutil.AddYears(src.LPRDate, residentThirdYear, earlyFilingDays)
	d.LPR4 = dateutil.AddYears(src.LPRDate, residentFourthYear, earlyFilingDays)
	d.LPRC = dateutil.AddYears(src.LPRDate, residentTrackYears, earlyFilingDays)
	d.LPR36 = dateutil.SubtractMonths(d.LPR3, preNoticeMonths, 0)
	d.LPRC6 = dateutil.SubtractMonths(d.LPRC, preNoticeMonths, 0)

	d.DM2 = dateutil.AddYears(src.MarriageDate, marriageEarlyYears, 0)
	d.DMC = dateutil.AddYears(src.MarriageDate, marriageTrackYears, 0)
	d.DMC6 = dateutil.SubtractMonths(d.DMC, preNoticeMonths, 0)

	d.SC2 = dateutil.AddYears(src.SpouseCitizenshipDate, marriageEarlyYears, 0)
	d.SCC = dateutil.AddYears(src.SpouseCitizenshipDate, marriageTrackYears, 0)
	d.SCC6 = dateutil.SubtractMonths(d.SCC, preNoticeMonths, 0)

	return d
}

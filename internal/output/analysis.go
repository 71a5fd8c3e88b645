package output

import (
	"sort"

	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/natzcalc/filing-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// BatchSummary aggregates a set of reports for the summary sections of the formatters.
type BatchSummary struct {
	Total           int
	ByStatus        map[domain.Status]int
	ShortOfPresence int
	WithLongTrips   int
	// NextFiling is the soonest earliest-filing date among applicants not yet
	// eligible, with the applicant ID it belongs to.
	NextFiling   dateutil.Date
	NextFilingID string
	// EligibleShare is the fraction of applicants eligible now.
	EligibleShare decimal.Decimal
}

// SummarizeReports builds a BatchSummary. Extracted from the console path for testability.
func SummarizeReports(reports []*domain.EligibilityReport) BatchSummary {
	s := BatchSummary{ByStatus: map[domain.Status]int{}, EligibleShare: decimal.Zero}
	for _, r := range reports {
		s.Total++
		s.ByStatus[r.Result.Status]++
		if !r.Presence.MeetsRequirement {
			s.ShortOfPresence++
		}
		if len(r.Presence.LongTrips) > 0 {
			s.WithLongTrips++
		}
		if r.Result.Status == domain.StatusEligibleNow || r.EarliestFilingDate.IsZero() {
			continue
		}
		if s.NextFiling.IsZero() || r.EarliestFilingDate.Before(s.NextFiling) {
			s.NextFiling = r.EarliestFilingDate
			s.NextFilingID = r.Applicant.ID
		}
	}
	if s.Total > 0 {
		s.EligibleShare = decimal.NewFromInt(int64(s.ByStatus[domain.StatusEligibleNow])).
			Div(decimal.NewFromInt(int64(s.Total)))
	}
	return s
}

// statusOrder is the display order for status counts.
var statusOrder = []domain.Status{
	domain.StatusEligibleNow,
	domain.StatusPrepareFileLater,
	domain.StatusEligibilityAssessment,
	domain.StatusNone,
}

// sortedReports returns reports ordered by applicant ID for deterministic output.
func sortedReports(reports []*domain.EligibilityReport) []*domain.EligibilityReport {
	out := append([]*domain.EligibilityReport(nil), reports...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Applicant.ID < out[j].Applicant.ID })
	return out
}

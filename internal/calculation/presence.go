package calculation

import (
	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/natzcalc/filing-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Physical presence policy.
const (
	MarriageLookbackYears = 3
	ResidentLookbackYears = 5

	MarriagePresenceDays = 548
	ResidentPresenceDays = 913

	// LongTripDays is the inclusive trip length that breaks continuous residence.
	LongTripDays = 183

	// delayedFilingLeadMonths is how far before the end of the new lookback
	// period a broken-residence applicant may file again.
	delayedFilingLeadMonths = 3
)

// LookbackYearsFor returns the statutory lookback for a controlling factor:
// three years on the marriage tracks, five otherwise.
func LookbackYearsFor(factor domain.ControllingFactor) int {
	switch factor {
	case domain.FactorDM, domain.FactorSC:
		return MarriageLookbackYears
	default:
		return ResidentLookbackYears
	}
}

// RequiredPresenceDaysFor returns the physical presence required for a lookback.
func RequiredPresenceDaysFor(lookbackYears int) int {
	if lookbackYears == MarriageLookbackYears {
		return MarriagePresenceDays
	}
	return ResidentPresenceDays
}

// EvaluateIntervals measures physical presence over the lookback window ending
// today. Any lookback other than 3 years is treated as the 5-year default.
//
// Trip days are counted inclusively while the window itself is counted
// exclusively (today - lookbackStart). The asymmetry is intentional.
//
// Malformed trips (end before start) are reported as given: they still take
// part in overlap and long-trip detection with their raw endpoints, and only
// contribute abroad days when the clamped range is non-empty.
func EvaluateIntervals(intervals []domain.TripInterval, lookbackYears int, today dateutil.Date) domain.PresenceAssessment {
	if lookbackYears != MarriageLookbackYears {
		lookbackYears = ResidentLookbackYears
	}

	lookbackStart := dateutil.AddYears(today, -lookbackYears, 0)
	pa := domain.PresenceAssessment{
		LookbackYears:        lookbackYears,
		LookbackStart:        lookbackStart,
		LookbackEnd:          today,
		RequiredPresenceDays: RequiredPresenceDaysFor(lookbackYears),
		WindowDays:           dateutil.DaysBetween(lookbackStart, today),
		LongTrips:            []domain.TripInterval{},
		Overlaps:             []domain.TripPair{},
	}

	for _, trip := range intervals {
		pa.DaysAbroad += daysAbroadWithin(trip, lookbackStart, today)
		if trip.IsMalformed() {
			pa.MalformedTrips = append(pa.MalformedTrips, trip)
		}
		if trip.Days() >= LongTripDays {
			pa.LongTrips = append(pa.LongTrips, trip)
		}
	}
	pa.Overlaps = findOverlaps(intervals)

	pa.DaysPresent = pa.WindowDays - pa.DaysAbroad
	if pa.DaysPresent < 0 {
		pa.DaysPresent = 0
	}
	pa.MeetsRequirement = pa.DaysPresent >= pa.RequiredPresenceDays
	pa.PresenceRatio = presenceRatio(pa.DaysPresent, pa.RequiredPresenceDays)

	if latest, ok := latestEnding(pa.LongTrips); ok {
		restart := dateutil.AddYears(dateutil.AddDays(latest.End, 1), lookbackYears, 0)
		pa.DelayedFilingDate = dateutil.SubtractMonths(restart, delayedFilingLeadMonths, 0)
	}

	if !pa.MeetsRequirement {
		pa.DaysShort = pa.RequiredPresenceDays - pa.DaysPresent
		pa.PresenceDelayDate = dateutil.AddDays(today, pa.DaysShort)
	}

	return pa
}

// daysAbroadWithin clamps a trip to [start, end] and counts the days inside, inclusively.
func daysAbroadWithin(trip domain.TripInterval, start, end dateutil.Date) int {
	if trip.Start.IsZero() || trip.End.IsZero() {
		return 0
	}
	from := dateutil.Later(trip.Start, start)
	to := dateutil.Earlier(trip.End, end)
	if !to.OnOrAfter(from) {
		return 0
	}
	return dateutil.DaysBetweenInclusive(from, to)
}

// findOverlaps reports each overlapping pair once, in input order.
func findOverlaps(intervals []domain.TripInterval) []domain.TripPair {
	pairs := []domain.TripPair{}
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			a, b := intervals[i], intervals[j]
			if dateutil.IntervalsOverlap(a.Start, a.End, b.Start, b.End) {
				pairs = append(pairs, domain.TripPair{First: a, Second: b})
			}
		}
	}
	return pairs
}

// latestEnding returns the trip with the latest end date; ties keep the first.
func latestEnding(trips []domain.TripInterval) (domain.TripInterval, bool) {
	if len(trips) == 0 {
		return domain.TripInterval{}, false
	}
	latest := trips[0]
	for _, t := range trips[1:] {
		if t.End.After(latest.End) {
			latest = t
		}
	}
	return latest, true
}

func presenceRatio(present, required int) decimal.Decimal {
	if required <= 0 {
		return decimal.Zero
	}
	ratio := decimal.NewFromInt(int64(present)).Div(decimal.NewFromInt(int64(required)))
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		ratio = decimal.NewFromInt(1)
	}
	return ratio.Round(4)
}

package dateutil

import (
	"strings"
	"time"
)

// DisplayLayout is the MM/DD/YYYY layout used at every persisted or display boundary.
const DisplayLayout = "01/02/2006"

// parseLayouts lists accepted input layouts in priority order. Single-digit
// month and day forms are accepted by the "1" and "2" layout elements.
var parseLayouts = []string{
	"1/2/2006",   // MM/DD/YYYY
	"2006-01-02", // YYYY-MM-DD
	"1-2-2006",   // MM-DD-YYYY
}

const day = 24 * time.Hour

// Date is a calendar date with no time-of-day or zone component.
// The zero Date means "absent"; every function in this package is total over it.
type Date struct {
	t time.Time
}

// New builds a Date from its calendar fields, normalizing out-of-range values
// the same way time.Date does.
func New(year int, month time.Month, d int) Date {
	return Date{t: time.Date(year, month, d, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the clock and zone of t, keeping its calendar day.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return New(y, m, d)
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time { return d.t }

// Year returns the calendar year, or 0 for an absent date.
func (d Date) Year() int {
	if d.IsZero() {
		return 0
	}
	return d.t.Year()
}

// String formats the date as MM/DD/YYYY; an absent date formats as "".
func (d Date) String() string { return FormatDate(d) }

// Equal reports whether both dates are present and fall on the same calendar day.
func (d Date) Equal(o Date) bool {
	if d.IsZero() || o.IsZero() {
		return false
	}
	return d.t.Equal(o.t)
}

// Before reports d < o. A missing operand loses: absent dates are never before anything.
func (d Date) Before(o Date) bool {
	if d.IsZero() {
		return false
	}
	if o.IsZero() {
		return false
	}
	return d.t.Before(o.t)
}

// After reports d > o. A missing d is never after; a missing o is beaten by any present d.
func (d Date) After(o Date) bool {
	if d.IsZero() {
		return false
	}
	if o.IsZero() {
		return true
	}
	return d.t.After(o.t)
}

// OnOrAfter reports d >= o with missing-loses semantics:
// absent >= x is false, and x >= absent is true for any present x.
func (d Date) OnOrAfter(o Date) bool {
	if d.IsZero() {
		return false
	}
	if o.IsZero() {
		return true
	}
	return !d.t.Before(o.t)
}

// Later returns the later of a and b. A missing date loses, and ties return a.
func Later(a, b Date) Date {
	if b.After(a) {
		return b
	}
	if a.IsZero() {
		return b
	}
	return a
}

// Earlier returns the earlier of two present dates, or whichever one is present.
func Earlier(a, b Date) Date {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.t.Before(a.t):
		return b
	default:
		return a
	}
}

// ParseDate accepts MM/DD/YYYY, YYYY-MM-DD and MM-DD-YYYY. Anything it cannot
// parse, including impossible calendar days, yields the absent Date.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t)
		}
	}
	return Date{}
}

// FormatDate renders d as zero-padded MM/DD/YYYY, or "" when absent.
func FormatDate(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DisplayLayout)
}

// AddYears adds calendar years (set-year semantics, so Feb 29 rolls to Mar 1
// in a common year) and then dayOffset days, which may be negative.
func AddYears(d Date, years, dayOffset int) Date {
	if d.IsZero() {
		return Date{}
	}
	return Date{t: d.t.AddDate(years, 0, 0).AddDate(0, 0, dayOffset)}
}

// SubtractMonths moves d back by calendar months and then adds dayOffset days.
// Day overflow normalizes forward, e.g. Aug 31 - 6 months is Mar 3 (Mar 2 in a leap year).
func SubtractMonths(d Date, months, dayOffset int) Date {
	if d.IsZero() {
		return Date{}
	}
	return Date{t: d.t.AddDate(0, -months, 0).AddDate(0, 0, dayOffset)}
}

// AddDays shifts d by n days.
func AddDays(d Date, n int) Date {
	if d.IsZero() {
		return Date{}
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysBetween returns floor((b - a) / 1 day). It is signed and exclusive of the end day.
func DaysBetween(a, b Date) int {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	return int(b.t.Sub(a.t) / day)
}

// DaysBetweenInclusive returns floor(|b - a| / 1 day) + 1, counting both endpoints.
// It returns 0 if either date is absent.
func DaysBetweenInclusive(a, b Date) int {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	diff := b.t.Sub(a.t)
	if diff < 0 {
		diff = -diff
	}
	return int(diff/day) + 1
}

// IntervalsOverlap reports aStart <= bEnd && aEnd >= bStart. Endpoints are used
// as given, so reversed intervals are compared raw. Any missing endpoint means no overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd Date) bool {
	if aStart.IsZero() || aEnd.IsZero() || bStart.IsZero() || bEnd.IsZero() {
		return false
	}
	return bEnd.OnOrAfter(aStart) && aEnd.OnOrAfter(bStart)
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in a given year
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

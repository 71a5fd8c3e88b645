package dateutil

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestParseDate tests the accepted input layouts and the absent fallback
func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Date
		description string
	}{
		{"US slash", "06/01/2020", New(2020, 6, 1), "MM/DD/YYYY"},
		{"ISO", "2020-06-01", New(2020, 6, 1), "YYYY-MM-DD"},
		{"US dash", "06-01-2020", New(2020, 6, 1), "MM-DD-YYYY"},
		{"Single digits", "6/1/2020", New(2020, 6, 1), "M/D/YYYY is tolerated"},
		{"Surrounding space", "  12/31/2019 ", New(2019, 12, 31), "whitespace trimmed"},
		{"Empty", "", Date{}, "empty input is absent"},
		{"Garbage", "next tuesday", Date{}, "unparseable input is absent"},
		{"Impossible day", "02/30/2021", Date{}, "Feb 30 never normalizes"},
		{"Bad month", "13/01/2020", Date{}, "month out of range"},
		{"Two digit year", "06/01/20", Date{}, "year must have four digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			assert.Equal(t, tt.expected, got, tt.description)
		})
	}
}

func TestParseDate_NormalizesToMidnight(t *testing.T) {
	d := ParseDate("2021-03-14")
	assert.Equal(t, time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC), d.Time())

	withClock := FromTime(time.Date(2021, 3, 14, 23, 59, 59, 0, time.FixedZone("EST", -5*3600)))
	assert.True(t, withClock.Equal(d), "clock and zone must not affect the calendar day")
	assert.Equal(t, d, withClock)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "06/01/2020", FormatDate(New(2020, 6, 1)))
	assert.Equal(t, "12/31/1999", New(1999, 12, 31).String())
	assert.Equal(t, "", FormatDate(Date{}))
}

// TestAddYears tests calendar-year addition with day offsets
func TestAddYears(t *testing.T) {
	tests := []struct {
		name      string
		date      Date
		years     int
		dayOffset int
		expected  string
	}{
		{"Five years less ninety days", New(2020, 6, 1), 5, -90, "03/03/2025"},
		{"Five years less ninety days across new year", New(2019, 1, 1), 5, -90, "10/03/2023"},
		{"Plain years", New(2022, 1, 1), 3, 0, "01/01/2025"},
		{"Leap day into common year", New(2020, 2, 29), 1, 0, "03/01/2021"},
		{"Leap day into leap year", New(2020, 2, 29), 4, 0, "02/29/2024"},
		{"Negative years", New(2024, 1, 1), -3, 0, "01/01/2021"},
		{"Positive offset", New(2024, 1, 1), 0, 1, "01/02/2024"},
		{"Absent stays absent", Date{}, 5, -90, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDate(AddYears(tt.date, tt.years, tt.dayOffset)))
		})
	}
}

func TestSubtractMonths(t *testing.T) {
	tests := []struct {
		name      string
		date      Date
		months    int
		dayOffset int
		expected  string
	}{
		{"Six months", New(2025, 3, 3), 6, 0, "09/03/2024"},
		{"Overflow in common year", New(2023, 8, 31), 6, 0, "03/03/2023"},
		{"Overflow in leap year", New(2024, 8, 31), 6, 0, "03/02/2024"},
		{"Three months", New(2027, 1, 2), 3, 0, "10/02/2026"},
		{"With offset", New(2025, 3, 3), 6, -1, "09/02/2024"},
		{"Absent stays absent", Date{}, 6, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDate(SubtractMonths(tt.date, tt.months, tt.dayOffset)))
		})
	}
}

func TestDaysBetweenInclusive(t *testing.T) {
	tests := []struct {
		name string
		a, b Date
		want int
	}{
		{"Same day", New(2023, 1, 1), New(2023, 1, 1), 1},
		{"January", New(2023, 1, 1), New(2023, 1, 31), 31},
		{"Reversed", New(2023, 1, 31), New(2023, 1, 1), 31},
		{"183 days", New(2023, 1, 1), New(2023, 7, 2), 183},
		{"182 days", New(2023, 1, 1), New(2023, 7, 1), 182},
		{"Leap February", New(2024, 2, 1), New(2024, 2, 29), 29},
		{"Absent", Date{}, New(2023, 1, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetweenInclusive(tt.a, tt.b))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 1095, DaysBetween(New(2021, 1, 1), New(2024, 1, 1)))
	assert.Equal(t, 1826, DaysBetween(New(2019, 1, 1), New(2024, 1, 1)))
	assert.Equal(t, -30, DaysBetween(New(2023, 1, 31), New(2023, 1, 1)))
	assert.Equal(t, 0, DaysBetween(New(2023, 1, 1), New(2023, 1, 1)))
	assert.Equal(t, 0, DaysBetween(Date{}, New(2023, 1, 1)))
}

func TestIntervalsOverlap(t *testing.T) {
	jan1, feb1 := New(2023, 1, 1), New(2023, 2, 1)
	jan15, mar1 := New(2023, 1, 15), New(2023, 3, 1)

	assert.True(t, IntervalsOverlap(jan1, feb1, jan15, mar1))
	assert.True(t, IntervalsOverlap(jan15, mar1, jan1, feb1), "overlap is symmetric")
	assert.True(t, IntervalsOverlap(jan1, jan15, jan15, feb1), "shared boundary day overlaps")
	assert.False(t, IntervalsOverlap(jan1, jan15, New(2023, 1, 16), feb1))
	assert.False(t, IntervalsOverlap(jan1, Date{}, jan15, feb1), "missing endpoint never overlaps")
}

func TestComparisons_MissingLoses(t *testing.T) {
	a := New(2024, 1, 1)
	b := New(2024, 1, 2)
	var missing Date

	assert.True(t, b.OnOrAfter(a))
	assert.True(t, a.OnOrAfter(a))
	assert.False(t, a.OnOrAfter(b))
	assert.True(t, a.OnOrAfter(missing))
	assert.False(t, missing.OnOrAfter(a))
	assert.False(t, missing.OnOrAfter(missing))

	assert.True(t, a.Equal(New(2024, 1, 1)))
	assert.False(t, missing.Equal(missing))

	assert.True(t, a.Before(b))
	assert.False(t, missing.Before(a))
	assert.True(t, a.After(missing))
	assert.False(t, missing.After(a))
}

func TestLaterAndEarlier(t *testing.T) {
	a := New(2024, 1, 1)
	b := New(2025, 1, 1)
	var missing Date

	assert.Equal(t, b, Later(a, b))
	assert.Equal(t, b, Later(b, a))
	assert.Equal(t, a, Later(a, missing))
	assert.Equal(t, a, Later(missing, a))
	assert.True(t, Later(missing, missing).IsZero())

	assert.Equal(t, a, Earlier(a, b))
	assert.Equal(t, a, Earlier(missing, a))
	assert.Equal(t, b, Earlier(b, missing))
}

func TestLeapYears(t *testing.T) {
	assert.True(t, IsLeapYear(2024))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(2023))
	assert.Equal(t, 366, DaysInYear(2024))
	assert.Equal(t, 365, DaysInYear(2025))
}

func TestDateCodecs(t *testing.T) {
	type record struct {
		LPR      Date `yaml:"lpr" json:"lpr"`
		Marriage Date `yaml:"marriage" json:"marriage"`
	}

	t.Run("yaml accepts unquoted ISO and US dates", func(t *testing.T) {
		var r record
		require.NoError(t, yaml.Unmarshal([]byte("lpr: 2020-06-01\nmarriage: \"07/04/2021\"\n"), &r))
		assert.Equal(t, New(2020, 6, 1), r.LPR)
		assert.Equal(t, New(2021, 7, 4), r.Marriage)
	})

	t.Run("yaml unparseable date is absent", func(t *testing.T) {
		var r record
		require.NoError(t, yaml.Unmarshal([]byte("lpr: soon\n"), &r))
		assert.True(t, r.LPR.IsZero())
	})

	t.Run("yaml writes display format", func(t *testing.T) {
		out, err := yaml.Marshal(record{LPR: New(2020, 6, 1)})
		require.NoError(t, err)
		assert.Contains(t, string(out), "lpr: 06/01/2020")
	})

	t.Run("json round trip", func(t *testing.T) {
		out, err := json.Marshal(record{LPR: New(2020, 6, 1)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"lpr":"06/01/2020","marriage":""}`, string(out))

		var r record
		require.NoError(t, json.Unmarshal(out, &r))
		assert.Equal(t, New(2020, 6, 1), r.LPR)
		assert.True(t, r.Marriage.IsZero())
	})
}

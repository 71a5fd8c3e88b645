package output

import (
	"fmt"

	"github.com/natzcalc/filing-calculator/internal/calculation"
)

// PolicyNotes lists the filing rules rendered in detailed outputs, built from
// the constants the calculation actually uses.
func PolicyNotes() []string {
	return []string{
		"Permanent resident track: file up to 90 days before the 5-year anniversary",
		"Marriage and spouse citizenship tracks: 3 years from the later spouse date",
		fmt.Sprintf("Physical presence: %d days in 3 years (marriage tracks), %d days in 5 years otherwise",
			calculation.MarriagePresenceDays, calculation.ResidentPresenceDays),
		fmt.Sprintf("A trip of %d days or more breaks continuous residence", calculation.LongTripDays),
		"Trip days count inclusively; the lookback window does not count its first day",
	}
}

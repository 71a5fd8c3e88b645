package output

import (
	"bytes"
	"fmt"

	"github.com/natzcalc/filing-calculator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(reports []*domain.EligibilityReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "FILING ELIGIBILITY SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for _, r := range sortedReports(reports) {
		fmt.Fprintf(&buf, "%s: Factor=%s Desc=%s Status=%s Date=%s Earliest=%s\n",
			r.Applicant.ID,
			displayText(string(r.Result.ControllingFactor)),
			displayText(r.Result.ControllingDesc),
			displayText(string(r.Result.Status)),
			displayDate(r.Result.ControllingDate),
			displayDate(r.EarliestFilingDate),
		)
		fmt.Fprintf(&buf, "  Presence=%d/%d (%s) LongTrips=%d Overlaps=%d\n",
			r.Presence.DaysPresent,
			r.Presence.RequiredPresenceDays,
			FormatRatio(r.Presence.PresenceRatio),
			len(r.Presence.LongTrips),
			len(r.Presence.Overlaps),
		)
	}
	sum := SummarizeReports(reports)
	if sum.Total > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Eligible now: %d of %d (%s)\n", sum.ByStatus[domain.StatusEligibleNow], sum.Total, FormatRatio(sum.EligibleShare))
		if sum.NextFilingID != "" {
			fmt.Fprintf(&buf, "Next filing: %s on %s\n", sum.NextFilingID, sum.NextFiling)
		}
	}
	return buf.Bytes(), nil
}

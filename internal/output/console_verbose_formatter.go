package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/natzcalc/filing-calculator/pkg/dateutil"
)

// ConsoleVerboseFormatter renders the detailed per-applicant console report.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(reports []*domain.EligibilityReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "NATURALIZATION FILING ELIGIBILITY ANALYSIS")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "FILING RULES APPLIED:")
	for _, n := range PolicyNotes() {
		fmt.Fprintf(&buf, "• %s\n", n)
	}
	fmt.Fprintln(&buf)

	for i, r := range sortedReports(reports) {
		title := r.Applicant.ID
		if r.Applicant.Name != "" {
			title = fmt.Sprintf("%s (%s)", r.Applicant.Name, r.Applicant.ID)
		}
		fmt.Fprintf(&buf, "APPLICANT %d: %s\n", i+1, title)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeSourceDates(&buf, r)
		writeDerivedDates(&buf, r.Derived)
		writeDecision(&buf, r)
		writePresence(&buf, r.Presence)
		fmt.Fprintln(&buf)
	}

	writeBatchSummary(&buf, SummarizeReports(reports))
	return buf.Bytes(), nil
}

func writeSourceDates(buf *bytes.Buffer, r *domain.EligibilityReport) {
	src := r.Applicant.Dates
	fmt.Fprintln(buf, "SOURCE DATES:")
	fmt.Fprintf(buf, "  As of:                     %s\n", displayDate(src.Today))
	fmt.Fprintf(buf, "  Marital status:            %s\n", displayText(string(r.Applicant.MaritalStatus)))
	fmt.Fprintf(buf, "  Permanent resident since:  %s\n", displayDate(src.LPRDate))
	fmt.Fprintf(buf, "  Marriage date:             %s\n", displayDate(src.MarriageDate))
	fmt.Fprintf(buf, "  Spouse citizen since:      %s\n", displayDate(src.SpouseCitizenshipDate))
	fmt.Fprintln(buf)
}

func writeDerivedDates(buf *bytes.Buffer, d domain.DerivedDates) {
	fmt.Fprintln(buf, "DERIVED DATES:")
	rows := []struct {
		label string
		date  dateutil.Date
	}{
		{"LPR2", d.LPR2}, {"LPR3", d.LPR3}, {"LPR4", d.LPR4}, {"LPRC", d.LPRC},
		{"LPR36", d.LPR36}, {"LPRC6", d.LPRC6},
		{"DM2", d.DM2}, {"DMC", d.DMC}, {"DMC6", d.DMC6},
		{"SC2", d.SC2}, {"SCC", d.SCC}, {"SCC6", d.SCC6},
	}
	for _, row := range rows {
		fmt.Fprintf(buf, "  %-6s %s\n", row.label, displayDate(row.date))
	}
	fmt.Fprintln(buf)
}

func writeDecision(buf *bytes.Buffer, r *domain.EligibilityReport) {
	fmt.Fprintln(buf, "DETERMINATION:")
	fmt.Fprintf(buf, "  Controlling factor:   %s\n", displayText(string(r.Result.ControllingFactor)))
	fmt.Fprintf(buf, "  Branch:               %s\n", displayText(r.Result.ControllingDesc))
	fmt.Fprintf(buf, "  Status:               %s\n", displayText(string(r.Result.Status)))
	fmt.Fprintf(buf, "  Controlling date:     %s\n", displayDate(r.Result.ControllingDate))
	fmt.Fprintf(buf, "  Earliest filing date: %s\n", displayDate(r.EarliestFilingDate))
	if r.Message != "" {
		fmt.Fprintf(buf, "  Message:              %s\n", r.Message)
	}
	fmt.Fprintln(buf)
}

func writePresence(buf *bytes.Buffer, p domain.PresenceAssessment) {
	fmt.Fprintf(buf, "PHYSICAL PRESENCE (%d-year lookback, %s to %s):\n", p.LookbackYears, displayDate(p.LookbackStart), displayDate(p.LookbackEnd))
	fmt.Fprintf(buf, "  Window days:   %d\n", p.WindowDays)
	fmt.Fprintf(buf, "  Days abroad:   %d\n", p.DaysAbroad)
	fmt.Fprintf(buf, "  Days present:  %d of %d required (%s)\n", p.DaysPresent, p.RequiredPresenceDays, FormatRatio(p.PresenceRatio))
	if p.MeetsRequirement {
		fmt.Fprintln(buf, "  Requirement:   met")
	} else {
		fmt.Fprintf(buf, "  Requirement:   short by %d days, earliest on %s\n", p.DaysShort, displayDate(p.PresenceDelayDate))
	}
	for _, t := range p.LongTrips {
		fmt.Fprintf(buf, "  Long trip:     %s %s - %s (%d days)\n", displayText(t.Label), displayDate(t.Start), displayDate(t.End), t.Days())
	}
	if !p.DelayedFilingDate.IsZero() {
		fmt.Fprintf(buf, "  Residence restarts; file from %s\n", p.DelayedFilingDate)
	}
	for _, pair := range p.Overlaps {
		fmt.Fprintf(buf, "  Overlap:       %s and %s\n", displayText(pair.First.Label), displayText(pair.Second.Label))
	}
	for _, t := range p.MalformedTrips {
		fmt.Fprintf(buf, "  Check dates:   %s ends before it starts\n", displayText(t.Label))
	}
}

func writeBatchSummary(buf *bytes.Buffer, s BatchSummary) {
	fmt.Fprintln(buf, "SUMMARY")
	fmt.Fprintln(buf, "=============================================")
	fmt.Fprintf(buf, "Applicants:            %d\n", s.Total)
	for _, st := range statusOrder {
		if n := s.ByStatus[st]; n > 0 {
			label := string(st)
			if st == domain.StatusNone {
				label = "No determination"
			}
			fmt.Fprintf(buf, "%-22s %d\n", label+":", n)
		}
	}
	fmt.Fprintf(buf, "Short of presence:     %d\n", s.ShortOfPresence)
	fmt.Fprintf(buf, "With long trips:       %d\n", s.WithLongTrips)
	if s.NextFilingID != "" {
		fmt.Fprintf(buf, "Next to file:          %s on %s\n", s.NextFilingID, s.NextFiling)
	}
}

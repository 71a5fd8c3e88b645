package output

import (
	"bytes"
	"encoding/csv"

	"github.com/natzcalc/filing-calculator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per applicant).
// Dates use the persisted MM/DD/YYYY form with absent dates left empty.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(reports []*domain.EligibilityReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"ApplicantID", "Name", "Today", "LPRDate", "MarriageDate", "SpouseCitizenshipDate", "ControllingFactor", "ControllingDate", "ControllingDesc", "Status", "LookbackYears", "DaysPresent", "RequiredPresenceDays", "MeetsRequirement", "LongTrips", "DelayedFilingDate", "PresenceDelayDate", "EarliestFilingDate", "Message"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range sortedReports(reports) {
		src := r.Applicant.Dates
		row := []string{
			r.Applicant.ID,
			r.Applicant.Name,
			src.Today.String(),
			src.LPRDate.String(),
			src.MarriageDate.String(),
			src.SpouseCitizenshipDate.String(),
			string(r.Result.ControllingFactor),
			r.Result.ControllingDate.String(),
			r.Result.ControllingDesc,
			string(r.Result.Status),
			intToString(r.Presence.LookbackYears),
			intToString(r.Presence.DaysPresent),
			intToString(r.Presence.RequiredPresenceDays),
			boolToString(r.Presence.MeetsRequirement),
			intToString(len(r.Presence.LongTrips)),
			r.Presence.DelayedFilingDate.String(),
			r.Presence.PresenceDelayDate.String(),
			r.EarliestFilingDate.String(),
			r.Message,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

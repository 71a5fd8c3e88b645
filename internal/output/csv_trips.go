package output

import (
	"bytes"
	"encoding/csv"

	"github.com/natzcalc/filing-calculator/internal/calculation"
	"github.com/natzcalc/filing-calculator/internal/domain"
)

// CSVTripsExporter provides raw trip detail per applicant, one row per trip.
type CSVTripsExporter struct{}

func (c CSVTripsExporter) Name() string { return "trips-csv" }

func (c CSVTripsExporter) Format(reports []*domain.EligibilityReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"ApplicantID", "Trip", "Start", "End", "Days", "LongTrip", "EndsBeforeStart"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range sortedReports(reports) {
		for _, t := range r.Applicant.Trips {
			row := []string{
				r.Applicant.ID,
				t.Label,
				t.Start.String(),
				t.End.String(),
				intToString(t.Days()),
				boolToString(t.Days() >= calculation.LongTripDays),
				boolToString(t.IsMalformed()),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

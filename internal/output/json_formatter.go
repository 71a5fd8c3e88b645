package output

import (
	"github.com/goccy/go-json"
	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// JSONFormatter serializes the reports as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

type jsonSummary struct {
	Total           int                   `json:"total"`
	ByStatus        map[domain.Status]int `json:"by_status"`
	ShortOfPresence int                   `json:"short_of_presence"`
	WithLongTrips   int                   `json:"with_long_trips"`
	EligibleShare   decimal.Decimal       `json:"eligible_share"`
}

type jsonDocument struct {
	Reports []*domain.EligibilityReport `json:"reports"`
	Summary jsonSummary                 `json:"summary"`
}

func (j JSONFormatter) Format(reports []*domain.EligibilityReport) ([]byte, error) {
	sum := SummarizeReports(reports)
	doc := jsonDocument{
		Reports: sortedReports(reports),
		Summary: jsonSummary{
			Total:           sum.Total,
			ByStatus:        sum.ByStatus,
			ShortOfPresence: sum.ShortOfPresence,
			WithLongTrips:   sum.WithLongTrips,
			EligibleShare:   sum.EligibleShare.Round(4),
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}

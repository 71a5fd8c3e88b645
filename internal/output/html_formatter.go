package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/goccy/go-json"
	"github.com/natzcalc/filing-calculator/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date":  displayDate,
	"text":  displayText,
	"ratio": FormatRatio,
	"add":   func(i, j int) int { return i + j },
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(reports []*domain.EligibilityReport) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Reports []*domain.EligibilityReport
		Summary BatchSummary
		Notes   []string
	}{sortedReports(reports), SummarizeReports(reports), PolicyNotes()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

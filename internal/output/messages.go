package output

import (
	"strings"

	"github.com/natzcalc/filing-calculator/internal/domain"
)

// Placeholder tokens recognized in message templates.
const (
	TokenControllingDate    = "{controlling_date}"
	TokenLPRDate            = "{lpr_date}"
	TokenLPRC               = "{lprc}"
	TokenLPR3               = "{lpr3}"
	TokenLPR4               = "{lpr4}"
	TokenDMC                = "{dmc}"
	TokenSCC                = "{scc}"
	TokenDelayedFilingDate  = "{delayed_filing_date}"
	TokenPresenceDelayDate  = "{presence_delay_date}"
	TokenEarliestFilingDate = "{earliest_filing_date}"
)

// MessageTemplates maps a status to the text shown for it.
type MessageTemplates map[domain.Status]string

// DefaultMessageTemplates returns the built-in text for every status,
// including the empty status used when no determination was made.
func DefaultMessageTemplates() MessageTemplates {
	return MessageTemplates{
		domain.StatusEligibleNow: "You are eligible to file now. Your filing date was " +
			TokenControllingDate + ".",
		domain.StatusPrepareFileLater: "You may prepare your application now, but do not file before " +
			TokenEarliestFilingDate + ".",
		domain.StatusEligibilityAssessment: "You are not yet eligible to file. Based on the dates provided, " +
			"the earliest you could file is " + TokenEarliestFilingDate + ".",
		domain.StatusNone: "We could not determine when you can file from the dates provided.",
	}
}

// Merge returns a copy of t with non-empty overrides applied.
func (t MessageTemplates) Merge(overrides map[domain.Status]string) MessageTemplates {
	out := make(MessageTemplates, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	return out
}

// RenderMessage fills the template for the report's status with values already
// computed on the report. A status without a template renders as "".
// Absent dates substitute as "".
func RenderMessage(report *domain.EligibilityReport, templates MessageTemplates) string {
	if report == nil {
		return ""
	}
	tmpl, ok := templates[report.Result.Status]
	if !ok {
		return ""
	}
	d := report.Derived
	r := strings.NewReplacer(
		TokenControllingDate, report.Result.ControllingDate.String(),
		TokenLPRDate, d.Source.LPRDate.String(),
		TokenLPRC, d.LPRC.String(),
		TokenLPR3, d.LPR3.String(),
		TokenLPR4, d.LPR4.String(),
		TokenDMC, d.DMC.String(),
		TokenSCC, d.SCC.String(),
		TokenDelayedFilingDate, report.Presence.DelayedFilingDate.String(),
		TokenPresenceDelayDate, report.Presence.PresenceDelayDate.String(),
		TokenEarliestFilingDate, report.EarliestFilingDate.String(),
	)
	return r.Replace(tmpl)
}

// ApplyMessages renders and stores the message on each report.
func ApplyMessages(reports []*domain.EligibilityReport, templates MessageTemplates) {
	for _, r := range reports {
		r.Message = RenderMessage(r, templates)
	}
}

package domain

import (
	"fmt"
	"strings"

	"github.com/natzcalc/filing-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MaritalStatus is the applicant's raw marital-status answer.
type MaritalStatus string

const (
	MaritalStatusMarried    MaritalStatus = "Married"
	MaritalStatusNotMarried MaritalStatus = "NotMarried"
)

// ParseMaritalStatus accepts the canonical values plus the common answer spellings
// a form produces ("yes", "no", "single", ...).
func ParseMaritalStatus(s string) (MaritalStatus, error) {
	switch strings.ToLower(strings.Join(strings.Fields(s), "")) {
	case "married", "yes", "y", "true":
		return MaritalStatusMarried, nil
	case "notmarried", "no", "n", "false", "single", "divorced", "widowed", "unmarried":
		return MaritalStatusNotMarried, nil
	default:
		return "", fmt.Errorf("unknown marital status %q", s)
	}
}

// UnmarshalYAML normalizes recognized spellings and keeps anything else verbatim
// so validation can report it.
func (m *MaritalStatus) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if parsed, err := ParseMaritalStatus(raw); err == nil {
		*m = parsed
		return nil
	}
	*m = MaritalStatus(raw)
	return nil
}

// Valid reports whether m is one of the two canonical answers.
func (m MaritalStatus) Valid() bool {
	return m == MaritalStatusMarried || m == MaritalStatusNotMarried
}

// ControllingFactor names the legal pathway that governs the applicant.
type ControllingFactor string

const (
	FactorNone ControllingFactor = ""
	FactorLPR  ControllingFactor = "LPR"
	FactorDM   ControllingFactor = "DM"
	FactorSC   ControllingFactor = "SC"
	// FactorLPRM and FactorLPRS mean the five-year LPR track was chosen over the
	// marriage or spouse-citizenship track because it arrives first.
	FactorLPRM ControllingFactor = "LPRM"
	FactorLPRS ControllingFactor = "LPRS"
)

// Status is the filing status shown to the applicant.
type Status string

const (
	StatusNone                  Status = ""
	StatusEligibleNow           Status = "Eligible Now"
	StatusPrepareFileLater      Status = "Prepare, but file later"
	StatusEligibilityAssessment Status = "Eligibility Assessment"
)

// SourceDates are the caller-supplied inputs. Any of them may be absent.
type SourceDates struct {
	Today                 dateutil.Date `yaml:"today,omitempty" json:"today"`
	LPRDate               dateutil.Date `yaml:"lpr_date" json:"lpr_date"`
	MarriageDate          dateutil.Date `yaml:"marriage_date,omitempty" json:"marriage_date"`
	SpouseCitizenshipDate dateutil.Date `yaml:"spouse_citizenship_date,omitempty" json:"spouse_citizenship_date"`
}

// HasMarriageDate reports whether a marriage date was supplied.
func (s SourceDates) HasMarriageDate() bool { return !s.MarriageDate.IsZero() }

// HasSpouseCitizenshipDate reports whether a spouse citizenship date was supplied.
func (s SourceDates) HasSpouseCitizenshipDate() bool { return !s.SpouseCitizenshipDate.IsZero() }

// DerivedDates holds the filing thresholds computed from SourceDates. The
// sources travel with them so the classifier sees every input it needs.
type DerivedDates struct {
	Source SourceDates `json:"source"`

	LPR2  dateutil.Date `json:"lpr2"`
	LPR3  dateutil.Date `json:"lpr3"`
	LPR4  dateutil.Date `json:"lpr4"`
	LPRC  dateutil.Date `json:"lprc"`
	LPR36 dateutil.Date `json:"lpr36"`
	LPRC6 dateutil.Date `json:"lprc6"`

	DM2  dateutil.Date `json:"dm2"`
	DMC  dateutil.Date `json:"dmc"`
	DMC6 dateutil.Date `json:"dmc6"`

	SC2  dateutil.Date `json:"sc2"`
	SCC  dateutil.Date `json:"scc"`
	SCC6 dateutil.Date `json:"scc6"`
}

// ControllingFactorResult is the classifier output. ControllingDate stays a
// Date so callers can keep comparing it; it is formatted only for display.
type ControllingFactorResult struct {
	ControllingFactor ControllingFactor `json:"controlling_factor"`
	ControllingDate   dateutil.Date     `json:"controlling_date"`
	ControllingDesc   string            `json:"controlling_desc"`
	Status            Status            `json:"status"`
}

// IsEmpty reports whether no determination at all was made.
func (r ControllingFactorResult) IsEmpty() bool {
	return r.ControllingFactor == FactorNone && r.ControllingDate.IsZero() && r.ControllingDesc == "" && r.Status == StatusNone
}

// TripInterval is a period outside the country (or a residence period).
// Start after End is tolerated and reported as-is.
type TripInterval struct {
	Start dateutil.Date `yaml:"start" json:"start"`
	End   dateutil.Date `yaml:"end" json:"end"`
	Label string        `yaml:"label,omitempty" json:"label,omitempty"`
}

// Days returns the inclusive length of the trip using its raw endpoints.
func (t TripInterval) Days() int {
	return dateutil.DaysBetweenInclusive(t.Start, t.End)
}

// IsMalformed reports a trip whose end precedes its start.
func (t TripInterval) IsMalformed() bool {
	return t.End.Before(t.Start)
}

// TripPair is one pair of overlapping trips, reported once with First earlier in the input.
type TripPair struct {
	First  TripInterval `json:"first"`
	Second TripInterval `json:"second"`
}

// PresenceAssessment is the physical-presence evaluation over a lookback window.
type PresenceAssessment struct {
	LookbackYears        int             `json:"lookback_years"`
	LookbackStart        dateutil.Date   `json:"lookback_start"`
	LookbackEnd          dateutil.Date   `json:"lookback_end"`
	RequiredPresenceDays int             `json:"required_presence_days"`
	WindowDays           int             `json:"window_days"`
	DaysAbroad           int             `json:"days_abroad"`
	DaysPresent          int             `json:"days_present"`
	MeetsRequirement     bool            `json:"meets_requirement"`
	PresenceRatio        decimal.Decimal `json:"presence_ratio"`
	LongTrips            []TripInterval  `json:"long_trips"`
	Overlaps             []TripPair      `json:"overlaps"`
	MalformedTrips       []TripInterval  `json:"malformed_trips,omitempty"`
	DelayedFilingDate    dateutil.Date   `json:"delayed_filing_date"`
	DaysShort            int             `json:"days_short"`
	PresenceDelayDate    dateutil.Date   `json:"presence_delay_date"`
}

// Applicant is one evaluation input record.
type Applicant struct {
	ID            string         `yaml:"id" json:"id"`
	Name          string         `yaml:"name,omitempty" json:"name,omitempty"`
	MaritalStatus MaritalStatus  `yaml:"marital_status" json:"marital_status"`
	Dates         SourceDates    `yaml:",inline" json:"dates"`
	Trips         []TripInterval `yaml:"trips,omitempty" json:"trips,omitempty"`
}

// EligibilityReport bundles everything computed for one applicant.
type EligibilityReport struct {
	Applicant          Applicant               `json:"applicant"`
	Derived            DerivedDates            `json:"derived"`
	Result             ControllingFactorResult `json:"result"`
	Presence           PresenceAssessment      `json:"presence"`
	EarliestFilingDate dateutil.Date           `json:"earliest_filing_date"`
	Message            string                  `json:"message,omitempty"`
}

// CaseFile is the on-disk batch of applicants evaluated together.
type CaseFile struct {
	Today      dateutil.Date     `yaml:"today,omitempty" json:"today"`
	Messages   map[Status]string `yaml:"messages,omitempty" json:"messages,omitempty"`
	Applicants []Applicant       `yaml:"applicants" json:"applicants"`
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/natzcalc/filing-calculator/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// Validation sentinels.
var (
	ErrNoApplicants         = errors.New("no applicants provided")
	ErrUnknownMaritalStatus = errors.New("unknown marital status")
	ErrDuplicateApplicant   = errors.New("duplicate applicant id")
	ErrUnknownStatus        = errors.New("unknown status in message templates")
)

// InputParser handles parsing of case files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a case file from YAML (JSON is accepted as a YAML subset).
func (ip *InputParser) LoadFromFile(filename string) (*domain.CaseFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a case file.
func (ip *InputParser) Parse(data []byte) (*domain.CaseFile, error) {
	var cf domain.CaseFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateCaseFile(&cf); err != nil {
		return nil, fmt.Errorf("case file validation failed: %w", err)
	}

	return &cf, nil
}

// ValidateCaseFile checks the structure of a case file. Dates that fail to
// parse are not errors here; they are absent and the evaluation handles them.
func (ip *InputParser) ValidateCaseFile(cf *domain.CaseFile) error {
	if len(cf.Applicants) == 0 {
		return ErrNoApplicants
	}

	seen := make(map[string]int, len(cf.Applicants))
	for i := range cf.Applicants {
		a := &cf.Applicants[i]
		if err := ip.validateApplicant(a); err != nil {
			return fmt.Errorf("applicant %d (%s) validation failed: %w", i+1, a.ID, err)
		}
		if prev, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateApplicant, a.ID, prev+1, i+1)
		}
		seen[a.ID] = i
	}

	for status := range cf.Messages {
		if !knownStatus(status) {
			return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
		}
	}

	return nil
}

// validateApplicant validates a single applicant's data
func (ip *InputParser) validateApplicant(a *domain.Applicant) error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if !a.MaritalStatus.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMaritalStatus, a.MaritalStatus)
	}
	return nil
}

func knownStatus(s domain.Status) bool {
	switch s {
	case domain.StatusNone, domain.StatusEligibleNow, domain.StatusPrepareFileLater, domain.StatusEligibilityAssessment:
		return true
	}
	return false
}

// Warnings lists data-quality issues that do not stop evaluation.
func (ip *InputParser) Warnings(cf *domain.CaseFile) []string {
	var out []string
	for _, a := range cf.Applicants {
		if a.Dates.LPRDate.IsZero() {
			out = append(out, fmt.Sprintf("applicant %s: no permanent resident date", a.ID))
		}
		if a.Dates.HasMarriageDate() != a.Dates.HasSpouseCitizenshipDate() {
			out = append(out, fmt.Sprintf("applicant %s: only one of marriage date and spouse citizenship date is set", a.ID))
		}
		for j, t := range a.Trips {
			label := t.Label
			if label == "" {
				label = fmt.Sprintf("#%d", j+1)
			}
			switch {
			case t.Start.IsZero() || t.End.IsZero():
				out = append(out, fmt.Sprintf("applicant %s: trip %s is missing a date and is ignored", a.ID, label))
			case t.IsMalformed():
				out = append(out, fmt.Sprintf("applicant %s: trip %s ends before it starts", a.ID, label))
			}
		}
	}
	return out
}

// CreateExampleCaseFile creates an example case file for documentation
func (ip *InputParser) CreateExampleCaseFile() *domain.CaseFile {
	d := dateutil.ParseDate
	return &domain.CaseFile{
		Today: d("01/01/2024"),
		Messages: map[domain.Status]string{
			domain.StatusPrepareFileLater: "Start gathering documents now; you can file on " +
				"{earliest_filing_date}.",
		},
		Applicants: []domain.Applicant{
			{
				ID:            "resident-1",
				Name:          "Five-year resident",
				MaritalStatus: domain.MaritalStatusNotMarried,
				Dates:         domain.SourceDates{LPRDate: d("01/01/2019")},
				Trips: []domain.TripInterval{
					{Start: d("07/01/2022"), End: d("08/15/2022"), Label: "summer visit"},
				},
			},
			{
				ID:            "married-1",
				Name:          "Married to a citizen",
				MaritalStatus: domain.MaritalStatusMarried,
				Dates: domain.SourceDates{
					LPRDate:               d("01/01/2021"),
					MarriageDate:          d("01/01/2022"),
					SpouseCitizenshipDate: d("01/01/2015"),
				},
			},
			{
				ID:            "traveller-1",
				Name:          "Long posting abroad",
				MaritalStatus: domain.MaritalStatusNotMarried,
				Dates:         domain.SourceDates{LPRDate: d("01/01/2020")},
				Trips: []domain.TripInterval{
					{Start: d("01/01/2021"), End: d("07/02/2022"), Label: "overseas posting"},
					{Start: d("03/01/2023"), End: d("03/20/2023"), Label: "conference"},
				},
			},
		},
	}
}

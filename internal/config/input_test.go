package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_Success(t *testing.T) {
	// Minimal, well-formed YAML (spaces only); dates in every accepted layout.
	testConfig := "today: 01/01/2024\n" +
		"messages:\n" +
		"  Eligible Now: \"File today ({controlling_date})\"\n" +
		"applicants:\n" +
		"  - id: a1\n" +
		"    name: \"Resident\"\n" +
		"    marital_status: no\n" +
		"    lpr_date: 2019-01-01\n" +
		"    trips:\n" +
		"      - start: 7/1/2022\n" +
		"        end: \"08-15-2022\"\n" +
		"        label: summer\n" +
		"  - id: a2\n" +
		"    marital_status: Married\n" +
		"    lpr_date: 01/01/2021\n" +
		"    marriage_date: 01/01/2022\n" +
		"    spouse_citizenship_date: 01/01/2015\n"

	parser := NewInputParser()
	cf, err := parser.LoadFromFile(writeTemp(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "01/01/2024", cf.Today.String())
	assert.Equal(t, "File today ({controlling_date})", cf.Messages[domain.StatusEligibleNow])
	require.Len(t, cf.Applicants, 2)

	a1 := cf.Applicants[0]
	assert.Equal(t, "a1", a1.ID)
	assert.Equal(t, domain.MaritalStatusNotMarried, a1.MaritalStatus)
	assert.Equal(t, "01/01/2019", a1.Dates.LPRDate.String())
	assert.True(t, a1.Dates.MarriageDate.IsZero())
	require.Len(t, a1.Trips, 1)
	assert.Equal(t, "07/01/2022", a1.Trips[0].Start.String())
	assert.Equal(t, "08/15/2022", a1.Trips[0].End.String())
	assert.Equal(t, "summer", a1.Trips[0].Label)

	a2 := cf.Applicants[1]
	assert.Equal(t, domain.MaritalStatusMarried, a2.MaritalStatus)
	assert.Equal(t, "01/01/2015", a2.Dates.SpouseCitizenshipDate.String())
}

func TestLoadFromFile_JSON(t *testing.T) {
	testConfig := `{"applicants": [{"id": "j1", "marital_status": "NotMarried", "lpr_date": "01/01/2020"}]}`
	cf, err := NewInputParser().LoadFromFile(writeTemp(t, testConfig))
	require.NoError(t, err)
	require.Len(t, cf.Applicants, 1)
	assert.Equal(t, "01/01/2020", cf.Applicants[0].Dates.LPRDate.String())
}

func TestLoadFromFile_InvalidDatesAreAbsent(t *testing.T) {
	testConfig := "applicants:\n" +
		"  - id: a1\n" +
		"    marital_status: Married\n" +
		"    lpr_date: 13/45/2020\n" +
		"    marriage_date: sometime\n"

	cf, err := NewInputParser().LoadFromFile(writeTemp(t, testConfig))
	require.NoError(t, err, "unparseable dates are not load errors")
	assert.True(t, cf.Applicants[0].Dates.LPRDate.IsZero())
	assert.True(t, cf.Applicants[0].Dates.MarriageDate.IsZero())
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	cf, err := parser.LoadFromFile("nonexistent_file.yaml")

	assert.Error(t, err)
	assert.Nil(t, cf)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	parser := NewInputParser()
	cf, err := parser.LoadFromFile(writeTemp(t, "applicants:\n  - id: [unclosed\n"))

	assert.Error(t, err)
	assert.Nil(t, cf)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateCaseFile(t *testing.T) {
	valid := func(id string) domain.Applicant {
		return domain.Applicant{ID: id, MaritalStatus: domain.MaritalStatusNotMarried}
	}

	tests := []struct {
		name    string
		cf      domain.CaseFile
		wantErr error
		wantMsg string
	}{
		{
			name: "valid",
			cf:   domain.CaseFile{Applicants: []domain.Applicant{valid("a"), valid("b")}},
		},
		{
			name:    "no applicants",
			cf:      domain.CaseFile{},
			wantErr: ErrNoApplicants,
		},
		{
			name:    "duplicate ids",
			cf:      domain.CaseFile{Applicants: []domain.Applicant{valid("a"), valid("b"), valid("a")}},
			wantErr: ErrDuplicateApplicant,
			wantMsg: `"a" at positions 1 and 3`,
		},
		{
			name:    "unknown marital status",
			cf:      domain.CaseFile{Applicants: []domain.Applicant{{ID: "a", MaritalStatus: "complicated"}}},
			wantErr: ErrUnknownMaritalStatus,
			wantMsg: "applicant 1 (a)",
		},
		{
			name:    "missing marital status",
			cf:      domain.CaseFile{Applicants: []domain.Applicant{{ID: "a"}}},
			wantErr: ErrUnknownMaritalStatus,
		},
		{
			name:    "missing id",
			cf:      domain.CaseFile{Applicants: []domain.Applicant{{ID: "  ", MaritalStatus: domain.MaritalStatusMarried}}},
			wantMsg: "id is required",
		},
		{
			name: "unknown message status",
			cf: domain.CaseFile{
				Applicants: []domain.Applicant{valid("a")},
				Messages:   map[domain.Status]string{"Eligible Soon": "x"},
			},
			wantErr: ErrUnknownStatus,
		},
		{
			name: "empty status message is allowed",
			cf: domain.CaseFile{
				Applicants: []domain.Applicant{valid("a")},
				Messages:   map[domain.Status]string{domain.StatusNone: "No determination"},
			},
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.ValidateCaseFile(&tt.cf)
			if tt.wantErr == nil && tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadFromFile_ValidationErrorWrapped(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(writeTemp(t, "today: 01/01/2024\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoApplicants)
	assert.Contains(t, err.Error(), "case file validation failed")
}

func TestWarnings(t *testing.T) {
	cf, err := NewInputParser().Parse([]byte("applicants:\n" +
		"  - id: a1\n" +
		"    marital_status: Married\n" +
		"    marriage_date: 01/01/2020\n" +
		"    trips:\n" +
		"      - start: 12/31/2023\n" +
		"        end: 01/01/2023\n" +
		"        label: reversed\n" +
		"      - start: 01/01/2023\n")) // second trip has no end and no label
	require.NoError(t, err)

	warnings := NewInputParser().Warnings(cf)
	assert.Equal(t, []string{
		"applicant a1: no permanent resident date",
		"applicant a1: only one of marriage date and spouse citizenship date is set",
		"applicant a1: trip reversed ends before it starts",
		"applicant a1: trip #2 is missing a date and is ignored",
	}, warnings)
}

func TestCreateExampleCaseFile(t *testing.T) {
	parser := NewInputParser()
	cf := parser.CreateExampleCaseFile()

	require.NotNil(t, cf)
	assert.NoError(t, parser.ValidateCaseFile(cf))
	assert.Len(t, cf.Applicants, 3)
	assert.False(t, cf.Today.IsZero())
	assert.Empty(t, parser.Warnings(cf))
}

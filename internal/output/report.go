package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natzcalc/filing-calculator/internal/domain"
	"gopkg.in/yaml.v3"
)

// ResolveFormatter finds a formatter by name or alias, returning an error that
// lists the alternatives when none matches.
func ResolveFormatter(format string) (Formatter, error) {
	if f := GetFormatterByName(format); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// GenerateReport writes the reports to a timestamped file in the given format
// and returns the file name.
func GenerateReport(reports []*domain.EligibilityReport, format string) (string, error) {
	f, err := ResolveFormatter(format)
	if err != nil {
		return "", err
	}
	return WriteFormatted(f, reports, ExtensionFor(f))
}

// WriteReport formats the reports onto w.
func WriteReport(w io.Writer, reports []*domain.EligibilityReport, format string) error {
	f, err := ResolveFormatter(format)
	if err != nil {
		return err
	}
	data, err := f.Format(reports)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// SaveCaseFile writes a case file as YAML.
func SaveCaseFile(cf *domain.CaseFile, filename string) error {
	b, err := yaml.Marshal(cf)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

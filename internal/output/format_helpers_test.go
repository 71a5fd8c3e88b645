//go:build unit

package output

import (
	"testing"

	"github.com/natzcalc/filing-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	got := FormatPercentage(v)
	want := "12.35%"
	if got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatRatio(t *testing.T) {
	v := decimal.RequireFromString("0.9982")
	got := FormatRatio(v)
	want := "99.82%"
	if got != want {
		t.Errorf("FormatRatio(%v) = %q, want %q", v, got, want)
	}
}

func TestDisplayDate(t *testing.T) {
	if got := displayDate(dateutil.Date{}); got != "-" {
		t.Errorf("displayDate(absent) = %q, want %q", got, "-")
	}
	if got := displayDate(dateutil.New(2024, 3, 3)); got != "03/03/2024" {
		t.Errorf("displayDate = %q, want %q", got, "03/03/2024")
	}
}

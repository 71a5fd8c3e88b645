package output

import (
	"strconv"

	"github.com/natzcalc/filing-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRatio formats a 0..1 ratio as a percentage.
func FormatRatio(ratio decimal.Decimal) string { return FormatPercentage(ratio.Mul(decimalHundred)) }

// displayDate renders an absent date as "-" for human-facing layouts.
func displayDate(d dateutil.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

// displayText renders an empty string as "-".
func displayText(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

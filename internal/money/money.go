// Package money holds the decimal helpers shared by pricing and the ledger.
// Values are carried at full precision; rounding to cents happens only in Format.
package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places currency amounts are displayed and posted with.
const Places = 2

// Hundred is the percentage base.
var Hundred = decimal.NewFromInt(100)

// DiscountFactor returns 1 - percent/100.
func DiscountFactor(percent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(percent.Div(Hundred))
}

// ValidPercent reports whether p lies in [0, 100].
func ValidPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(Hundred)
}

// HasAtMostCents reports whether d has no more than Places decimal places.
func HasAtMostCents(d decimal.Decimal) bool {
	scaled := d.Mul(Hundred)
	return scaled.Equal(scaled.Truncate(0))
}

// Format renders d rounded half away from zero to cents, e.g. "1145.63".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// groupedComma matches "1.234,56": dots group thousands, one comma marks decimals.
var groupedComma = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})*,\d+$`)

// Parse reads a user-entered amount. A comma decimal separator is accepted
// ("1.234,56" and "1234,56" both parse as 1234.56). Input mixing separators in
// any other arrangement, such as "1,000.50", is rejected as ambiguous.
func Parse(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	normalized := raw
	if strings.Contains(raw, ",") {
		switch {
		case strings.Count(raw, ",") > 1:
			return decimal.Zero, fmt.Errorf("parsing amount %q: more than one comma", raw)
		case strings.Contains(raw, ".") && !groupedComma.MatchString(raw):
			return decimal.Zero, fmt.Errorf("parsing amount %q: ambiguous separators, use 1234.56 or 1.234,56", raw)
		}
		normalized = strings.ReplaceAll(normalized, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return d, nil
}

// Package currencyutils converts spreadsheet money cells into decimals and
// renders decimals for display.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var amountReplacer = strings.NewReplacer("$", "", ",", "")

// StandardizeAmount removes the dollar sign and thousands separators and
// trims surrounding whitespace.
func StandardizeAmount(amountStr string) string {
	return strings.TrimSpace(amountReplacer.Replace(amountStr))
}

// ParseAmount parses a money string strictly. Empty input is zero; any other
// unparsable input is an error.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// Parse is the lenient form used during import: anything unparsable is zero.
func Parse(amountStr string) decimal.Decimal {
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// FormatAmount renders amount as dollars with two decimals, e.g. "$1234.50"
// or "-$12.00".
func FormatAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// Sum adds amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

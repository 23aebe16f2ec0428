package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected decimal.Decimal
		hasError bool
	}{
		{"empty", "", decimal.Zero, false},
		{"blank", "   ", decimal.Zero, false},
		{"plain", "150", decimal.NewFromInt(150), false},
		{"dollar and thousands", "$1,234.50", decimal.RequireFromString("1234.50"), false},
		{"negative", "-150", decimal.NewFromInt(-150), false},
		{"padded", "  80.25 ", decimal.RequireFromString("80.25"), false},
		{"non numeric", "abc", decimal.Zero, true},
		{"two dots", "1.2.3", decimal.Zero, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}
}

func TestParse_LenientZero(t *testing.T) {
	assert.True(t, Parse("abc").IsZero())
	assert.True(t, Parse("").IsZero())
	assert.True(t, decimal.RequireFromString("1234.5").Equal(Parse("$1,234.50")))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$2500.00", FormatAmount(decimal.NewFromInt(2500)))
	assert.Equal(t, "$0.50", FormatAmount(decimal.RequireFromString("0.5")))
	assert.Equal(t, "-$12.30", FormatAmount(decimal.RequireFromString("-12.3")))
}

func TestSum(t *testing.T) {
	got := Sum(decimal.NewFromInt(150), decimal.NewFromInt(80), decimal.RequireFromString("0.25"))
	assert.Equal(t, "230.25", got.String())
	assert.True(t, Sum().IsZero())
}

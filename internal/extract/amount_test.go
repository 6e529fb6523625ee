package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendscope/internal/normalize"
)

func TestExtractAmountsKeywordSymbol(t *testing.T) {
	got := ExtractAmounts(normalize.Normalize("Total Amount: $8.00"), "USD")
	require.NotEmpty(t, got)
	assert.True(t, got[0].Value.Equal(decimal.RequireFromString("8.00")))
	assert.Equal(t, 0.90, got[0].Confidence)
	assert.Equal(t, IDAmountKeywordSymbol, got[0].ExtractorID)
	assert.False(t, got[0].DecimalComma)
}

func TestExtractAmountsISOCode(t *testing.T) {
	got := ExtractAmounts(normalize.Normalize("USD 1,234.56 charged"), "")
	require.NotEmpty(t, got)
	assert.True(t, got[0].Value.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, IDAmountISOCode, got[0].ExtractorID)
}

func TestExtractAmountsEuropeanFormat(t *testing.T) {
	got := ExtractAmounts(normalize.Normalize("Total: €1.234,56"), "EUR")
	require.NotEmpty(t, got)
	assert.True(t, got[0].Value.Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, got[0].DecimalComma)
}

func TestExtractAmountsKeywordNumberFallback(t *testing.T) {
	got := ExtractAmounts(normalize.Normalize("Amount due: 45.00"), "")
	require.NotEmpty(t, got)
	assert.True(t, got[0].Value.Equal(decimal.RequireFromString("45.00")))
	assert.Equal(t, 0.60, got[0].Confidence)
}

func TestExtractAmountsExcludesPhoneLikeRuns(t *testing.T) {
	got := ExtractAmounts(normalize.Normalize("Total: 5551234567"), "")
	assert.Empty(t, got)
}

func TestExtractAmountsExcludesDates(t *testing.T) {
	got := ExtractAmounts(normalize.Normalize("Paid 15/07/2023"), "")
	assert.Empty(t, got)
}

func TestExtractAmountsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractAmounts(normalize.Normalize(""), "USD"))
}

func TestParseAmountToken(t *testing.T) {
	cases := []struct {
		tok       string
		commaHint bool
		want      string
		comma     bool
	}{
		{"1,234.56", false, "1234.56", false},
		{"1.234,56", false, "1234.56", true},
		{"12,34", false, "12.34", true},
		{"1,234", false, "1234", false},
		{"1,234", true, "1.234", true},
		{"1.234", true, "1234", false},
		{"8.00", false, "8.00", false},
		{"1,234,567", false, "1234567", false},
	}
	for _, tc := range cases {
		value, comma, ok := parseAmountToken(tc.tok, tc.commaHint)
		require.True(t, ok, "token %q", tc.tok)
		assert.True(t, value.Equal(decimal.RequireFromString(tc.want)),
			"token %q: got %s want %s", tc.tok, value, tc.want)
		assert.Equal(t, tc.comma, comma, "token %q", tc.tok)
	}
}

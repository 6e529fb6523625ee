package constants

import "strings"

// CurrencySymbols maps glyphs found in document text to ISO 4217 codes.
var CurrencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"₹": "INR",
}

var knownCurrencies = []string{"USD", "EUR", "GBP", "INR", "CAD", "AUD", "JPY"}

func KnownCurrencies() []string {
	out := make([]string, len(knownCurrencies))
	copy(out, knownCurrencies)
	return out
}

func IsKnownCurrency(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range knownCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// UsesDecimalComma reports whether amounts in the currency are conventionally
// written with a comma decimal separator ("1.234,56"). Used to disambiguate
// numeric tokens when the currency extractor has a guess.
func UsesDecimalComma(code string) bool {
	return strings.ToUpper(code) == "EUR"
}

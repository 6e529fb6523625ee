package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"spendscope/constants"
	"spendscope/internal/entity"
	"spendscope/internal/normalize"
)

const (
	confCurrencySymbol   = 0.90
	confCurrencyISOToken = 0.80
)

var reCurrencyISOToken = regexp.MustCompile(`(?i)\b(USD|EUR|GBP|INR|CAD|AUD|JPY)\b`)

// ExtractCurrencies proposes ISO currency-code candidates, ordered by
// descending confidence. Symbols tagged by the normalizer outrank spelled-out
// ISO tokens. At most one candidate per code survives.
func ExtractCurrencies(n normalize.NormalizedText) []entity.Field[string] {
	if n.Empty() {
		return nil
	}
	var out []entity.Field[string]
	seen := map[string]bool{}

	for _, pos := range n.CurrencyPositions {
		r, size := utf8.DecodeRuneInString(n.Text[pos:])
		code, ok := constants.CurrencySymbols[string(r)]
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, entity.Field[string]{
			Value:       code,
			Confidence:  confCurrencySymbol,
			Span:        entity.Span{Start: pos, End: pos + size},
			ExtractorID: IDCurrencySymbol,
		})
	}

	for _, m := range reCurrencyISOToken.FindAllStringIndex(n.Text, -1) {
		code := strings.ToUpper(n.Text[m[0]:m[1]])
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, entity.Field[string]{
			Value:       code,
			Confidence:  confCurrencyISOToken,
			Span:        entity.Span{Start: m[0], End: m[1]},
			ExtractorID: IDCurrencyISOToken,
		})
	}

	orderCandidates(out)
	return out
}

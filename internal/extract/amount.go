package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"spendscope/constants"
	"spendscope/internal/entity"
	"spendscope/internal/normalize"
)

const (
	confAmountKeywordSymbol = 0.90
	confAmountISOCode       = 0.85
	confAmountSymbol        = 0.70
	confAmountKeyword       = 0.60
)

// AmountCandidate carries the separator inference the resolver needs for its
// cross-field consistency pass against the currency guess.
type AmountCandidate struct {
	entity.Field[decimal.Decimal]
	// DecimalComma is true when the numeric token was read "1.234,56" style.
	DecimalComma bool
}

var (
	reAmountKeywordSymbol = regexp.MustCompile(`(?i)\b(?:grand total|total|amount|sum|bill|paid|due)\s*[:=]?\s*([$€£₹])\s*([0-9][0-9.,]*)`)
	reAmountISOCode       = regexp.MustCompile(`(?i)\b(USD|EUR|GBP|INR|CAD|AUD|JPY)\s*([0-9][0-9.,]*)`)
	reAmountSymbol        = regexp.MustCompile(`([$€£₹])\s*([0-9][0-9.,]*)`)
	reAmountKeyword       = regexp.MustCompile(`(?i)\b(?:grand total|total|amount|sum|bill|paid|due)\s*[:=]?\s*([0-9][0-9.,]*)`)
)

// ExtractAmounts proposes amount candidates, ordered by descending
// confidence. currencyGuess (ISO code, may be empty) disambiguates the
// decimal separator of tokens like "1.234,56" vs "1,234.56". Digit runs that
// look like dates or phone numbers are excluded.
func ExtractAmounts(n normalize.NormalizedText, currencyGuess string) []AmountCandidate {
	if n.Empty() {
		return nil
	}
	commaHint := constants.UsesDecimalComma(currencyGuess)
	var out []AmountCandidate

	appendMatches := func(re *regexp.Regexp, group int, conf float64, id string) {
		for _, m := range re.FindAllStringSubmatchIndex(n.Text, -1) {
			tok := n.Text[m[2*group]:m[2*group+1]]
			if looksLikeDate(n.Text, m[0], m[1]) || looksLikePhone(tok) {
				continue
			}
			value, decimalComma, ok := parseAmountToken(tok, commaHint)
			if !ok {
				continue
			}
			out = append(out, AmountCandidate{
				Field: entity.Field[decimal.Decimal]{
					Value:       value,
					Confidence:  conf,
					Span:        entity.Span{Start: m[0], End: m[1]},
					ExtractorID: id,
				},
				DecimalComma: decimalComma,
			})
		}
	}

	appendMatches(reAmountKeywordSymbol, 2, confAmountKeywordSymbol, IDAmountKeywordSymbol)
	appendMatches(reAmountISOCode, 2, confAmountISOCode, IDAmountISOCode)
	appendMatches(reAmountSymbol, 2, confAmountSymbol, IDAmountSymbol)
	appendMatches(reAmountKeyword, 1, confAmountKeyword, IDAmountKeyword)

	sortAmountCandidates(out)
	return out
}

// sortAmountCandidates mirrors orderCandidates; sorting the wrapper directly
// keeps the DecimalComma flag attached to its field.
func sortAmountCandidates(cands []AmountCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return amountLess(cands[i], cands[j])
	})
}

func amountLess(a, b AmountCandidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	pa, pb := PriorityOf(a.ExtractorID), PriorityOf(b.ExtractorID)
	if pa != pb {
		return pa < pb
	}
	return a.Span.Start < b.Span.Start
}

var reDateLike = regexp.MustCompile(`\d{1,4}[-/]\d{1,2}[-/]\d{1,4}`)

// looksLikeDate rejects matches that sit inside a date-shaped token.
func looksLikeDate(text string, start, end int) bool {
	lo, hi := start-6, end+6
	if lo < 0 {
		lo = 0
	}
	if hi > len(text) {
		hi = len(text)
	}
	return reDateLike.MatchString(text[lo:hi])
}

// looksLikePhone rejects long ungrouped digit runs (phone and account
// numbers); genuine totals carry separators or stay short.
func looksLikePhone(tok string) bool {
	if strings.ContainsAny(tok, ".,") {
		return false
	}
	return len(tok) >= 7
}

// parseAmountToken normalizes a numeric token to a decimal. Returns the
// inferred decimal-comma flag so the resolver can check it against the
// currency convention.
func parseAmountToken(tok string, commaHint bool) (decimal.Decimal, bool, bool) {
	tok = strings.Trim(tok, ".,")
	if tok == "" {
		return decimal.Zero, false, false
	}
	lastDot := strings.LastIndexByte(tok, '.')
	lastComma := strings.LastIndexByte(tok, ',')

	decimalComma := false
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// both present: the later separator is the decimal mark
		decimalComma = lastComma > lastDot
	case lastComma >= 0:
		decimalComma = soleSeparatorIsDecimal(tok, ',', commaHint)
	case lastDot >= 0:
		decimalComma = false
		if !soleSeparatorIsDecimal(tok, '.', !commaHint) {
			// dot used as a grouping separator ("1.234" under EUR)
			tok = strings.ReplaceAll(tok, ".", "")
		}
	}

	var normalized string
	if decimalComma {
		normalized = strings.ReplaceAll(tok, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
	} else {
		normalized = strings.ReplaceAll(tok, ",", "")
	}
	value, err := decimal.NewFromString(normalized)
	if err != nil || value.IsNegative() {
		return decimal.Zero, false, false
	}
	return value, decimalComma, true
}

// soleSeparatorIsDecimal decides whether a token's single separator kind
// marks the decimal part. "12,34" is a decimal mark; "1,234" is grouping
// unless the currency convention says otherwise; "1,234,567" is grouping.
func soleSeparatorIsDecimal(tok string, sep byte, hintDecimal bool) bool {
	first := strings.IndexByte(tok, sep)
	last := strings.LastIndexByte(tok, sep)
	if first != last {
		return false
	}
	frac := len(tok) - last - 1
	if frac != 3 {
		return true
	}
	// exactly three trailing digits is the ambiguous case; fall back to the
	// currency convention
	return hintDecimal
}

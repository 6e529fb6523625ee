package normalize

import (
	"regexp"
	"strings"
)

// NormalizedText is cleaned document text plus the byte offsets of likely
// currency symbols, tagged here so the amount and currency extractors do not
// rescan for them.
type NormalizedText struct {
	Text              string
	CurrencyPositions []int
}

func (n NormalizedText) Empty() bool { return n.Text == "" }

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reControl    = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	reHyphenWrap = regexp.MustCompile(`(\p{L})-\n[ \t]*(\p{L})`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Normalize collapses noisy whitespace, joins hyphen-broken line wraps and
// strips control characters. Conservative: keeps line breaks; collapses >2
// newlines into a single blank line. Empty input yields an empty value, not
// an error.
func Normalize(s string) NormalizedText {
	if s == "" {
		return NormalizedText{}
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reControl.ReplaceAllString(s, "")
	// re-join words broken across a line wrap ("Super-\nmart" -> "Supermart")
	s = reHyphenWrap.ReplaceAllString(s, "$1$2")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.TrimSpace(strings.Join(lines, "\n"))

	return NormalizedText{
		Text:              s,
		CurrencyPositions: currencyPositions(s),
	}
}

func currencyPositions(s string) []int {
	var positions []int
	for i, r := range s {
		switch r {
		case '$', '€', '£', '₹':
			positions = append(positions, i)
		}
	}
	return positions
}

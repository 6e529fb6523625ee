package extract

import (
	"regexp"
	"strings"
	"unicode"

	"spendscope/internal/entity"
	"spendscope/internal/normalize"
)

const (
	confVendorKeyword  = 0.85
	confVendorTopLines = 0.55
)

var (
	// phrase keywords may omit the colon; bare nouns require one
	reVendorPhrase  = regexp.MustCompile(`(?i)\b(?:invoice from|bill from|receipt from|sold by|purchased from|billed by)\s*:?\s*([^\n]+)`)
	reVendorLabeled = regexp.MustCompile(`(?i)\b(?:vendor|biller|store|company)\s*:\s*([^\n]+)`)
	reVendorJunk    = regexp.MustCompile(`(?i)[,;]\s*|\bphone\b|\btel\b|\bemail\b|\bwebsite\b|www\.`)
	reHasDigit      = regexp.MustCompile(`\d`)
)

var vendorLineBlacklist = []string{"date", "total", "amount", "invoice", "receipt", "street", "road", "avenue", "p.o. box"}

// ExtractVendors proposes vendor-name candidates: text preceded by known
// boilerplate keywords first, then a heuristic over the first lines of the
// document (vendor names tend to head receipts).
func ExtractVendors(n normalize.NormalizedText) []entity.Field[string] {
	if n.Empty() {
		return nil
	}
	var out []entity.Field[string]

	for _, re := range []*regexp.Regexp{reVendorPhrase, reVendorLabeled} {
		for _, m := range re.FindAllStringSubmatchIndex(n.Text, -1) {
			raw := n.Text[m[2]:m[3]]
			name := cleanVendor(raw)
			if len(name) <= 2 || len(name) >= 100 {
				continue
			}
			out = append(out, entity.Field[string]{
				Value:       titleCase(name),
				Confidence:  confVendorKeyword,
				Span:        entity.Span{Start: m[2], End: m[3]},
				ExtractorID: IDVendorKeyword,
			})
		}
	}

	// fallback: the first few lines often carry the vendor name
	offset := 0
	lines := strings.SplitAfter(n.Text, "\n")
	for i, line := range lines {
		if i >= 5 {
			break
		}
		start := offset
		offset += len(line)
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 4 || len(trimmed) >= 50 || reHasDigit.MatchString(trimmed) {
			continue
		}
		if containsAnyFold(trimmed, vendorLineBlacklist) {
			continue
		}
		out = append(out, entity.Field[string]{
			Value:       titleCase(trimmed),
			Confidence:  confVendorTopLines,
			Span:        entity.Span{Start: start, End: start + len(trimmed)},
			ExtractorID: IDVendorTopLines,
		})
		break
	}

	orderCandidates(out)
	return out
}

// cleanVendor cuts trailing contact noise off a keyword-matched vendor line.
func cleanVendor(s string) string {
	if loc := reVendorJunk.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(s)
}

func containsAnyFold(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

// titleCase capitalizes each word for display consistency.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

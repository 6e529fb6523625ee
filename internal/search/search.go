// Package search executes keyword, range and pattern queries over canonical
// record sequences. Every operation is pure: input order is preserved, a new
// slice is returned, and zero matches is a valid empty result.
package search

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendscope/internal/common"
	"spendscope/internal/entity"
	"spendscope/internal/index"
)

// Keyword filters records whose vendor or category contains term,
// case-insensitive.
func Keyword(records []entity.CanonicalRecord, term string) []entity.CanonicalRecord {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]entity.CanonicalRecord, 0)
	if needle == "" {
		return out
	}
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Vendor), needle) ||
			strings.Contains(strings.ToLower(string(r.Category)), needle) {
			out = append(out, r)
		}
	}
	return out
}

// KeywordExact is the forced linear-scan counterpart of the hashed vendor
// lookup: case-insensitive equality on vendor. Exists so the accelerated and
// scan paths can be checked against each other.
func KeywordExact(records []entity.CanonicalRecord, term string) []entity.CanonicalRecord {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]entity.CanonicalRecord, 0)
	for _, r := range records {
		if strings.ToLower(r.Vendor) == needle {
			out = append(out, r)
		}
	}
	return out
}

// KeywordIndexed serves an exact vendor term from the index's hashed vendor
// map (O(1) average, same result set as KeywordExact over a scan) and falls
// back to a linear substring scan otherwise.
func KeywordIndexed(ix *index.Index, term string) []entity.CanonicalRecord {
	if exact := ix.VendorExact(term); len(exact) > 0 {
		return exact
	}
	return Keyword(ix.All(), term)
}

// AmountBetween filters records with low <= amount <= high.
// An inverted range is ErrInvalidQuery.
func AmountBetween(records []entity.CanonicalRecord, low, high decimal.Decimal) ([]entity.CanonicalRecord, error) {
	if low.GreaterThan(high) {
		return nil, common.WrapError(common.ErrInvalidQuery, "amount range low > high")
	}
	out := make([]entity.CanonicalRecord, 0)
	for _, r := range records {
		if r.Amount.GreaterThanOrEqual(low) && r.Amount.LessThanOrEqual(high) {
			out = append(out, r)
		}
	}
	return out, nil
}

// DateBetween filters records with from <= date <= to (date-only, inclusive).
// An inverted range is ErrInvalidQuery.
func DateBetween(records []entity.CanonicalRecord, from, to time.Time) ([]entity.CanonicalRecord, error) {
	from, to = entity.DateOnly(from), entity.DateOnly(to)
	if from.After(to) {
		return nil, common.WrapError(common.ErrInvalidQuery, "date range from > to")
	}
	out := make([]entity.CanonicalRecord, 0)
	for _, r := range records {
		if !r.TxDate.Before(from) && !r.TxDate.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

// DateBetweenIndexed is DateBetween accelerated through the index's month
// map: only buckets overlapping the range are scanned.
func DateBetweenIndexed(ix *index.Index, from, to time.Time) ([]entity.CanonicalRecord, error) {
	if entity.DateOnly(from).After(entity.DateOnly(to)) {
		return nil, common.WrapError(common.ErrInvalidQuery, "date range from > to")
	}
	return ix.MonthRange(from, to), nil
}

// MatchPattern filters records whose vendor matches a restricted wildcard
// pattern: '*' is any run of characters, '?' a single character, all other
// runes literal (case-insensitive). No full regex surface, so matching cost
// stays bounded. An empty pattern is ErrInvalidQuery.
func MatchPattern(records []entity.CanonicalRecord, pattern string) ([]entity.CanonicalRecord, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, common.WrapError(common.ErrInvalidQuery, "empty pattern")
	}
	p := []rune(strings.ToLower(pattern))
	out := make([]entity.CanonicalRecord, 0)
	for _, r := range records {
		if wildcardMatch([]rune(strings.ToLower(r.Vendor)), p) {
			out = append(out, r)
		}
	}
	return out, nil
}

// wildcardMatch is the classic two-pointer glob matcher: linear in the
// subject with single-star backtracking, never exponential.
func wildcardMatch(s, p []rune) bool {
	si, pi := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == s[si]):
			si++
			pi++
		case pi < len(p) && p[pi] == '*':
			star = pi
			mark = si
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

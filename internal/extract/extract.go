// Package extract holds the rule-based field extractors and the resolver that
// merges their candidates into one record. Every extractor is a pure function
// over normalized text: no shared state, no errors, zero candidates on a miss.
package extract

import (
	"sort"

	"spendscope/internal/entity"
)

// Extractor rule identifiers. Slice order is the declared tie-break priority
// used by the resolver when two candidates carry equal confidence.
const (
	IDDateISO       = "date.iso"
	IDDateMonthName = "date.month_name"
	IDDateDMY       = "date.dmy"
	IDDateNumeric   = "date.numeric"

	IDAmountKeywordSymbol = "amount.keyword_symbol"
	IDAmountISOCode       = "amount.iso_code"
	IDAmountSymbol        = "amount.symbol"
	IDAmountKeyword       = "amount.keyword"

	IDCurrencySymbol   = "currency.symbol"
	IDCurrencyISOToken = "currency.iso_token"

	IDVendorKeyword  = "vendor.keyword"
	IDVendorTopLines = "vendor.top_lines"

	IDCategoryKeyword = "category.keyword"
)

var rulePriority = map[string]int{
	IDDateISO:       0,
	IDDateMonthName: 1,
	IDDateDMY:       2,
	IDDateNumeric:   3,

	IDAmountKeywordSymbol: 0,
	IDAmountISOCode:       1,
	IDAmountSymbol:        2,
	IDAmountKeyword:       3,

	IDCurrencySymbol:   0,
	IDCurrencyISOToken: 1,

	IDVendorKeyword:  0,
	IDVendorTopLines: 1,

	IDCategoryKeyword: 0,
}

// PriorityOf returns the declared rule priority; unknown rules sort last.
func PriorityOf(extractorID string) int {
	if p, ok := rulePriority[extractorID]; ok {
		return p
	}
	return len(rulePriority)
}

// orderCandidates sorts by descending confidence, then declared rule
// priority, then text position, so extractor output is deterministic.
func orderCandidates[T any](fields []entity.Field[T]) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Confidence != fields[j].Confidence {
			return fields[i].Confidence > fields[j].Confidence
		}
		pi, pj := PriorityOf(fields[i].ExtractorID), PriorityOf(fields[j].ExtractorID)
		if pi != pj {
			return pi < pj
		}
		return fields[i].Span.Start < fields[j].Span.Start
	})
}

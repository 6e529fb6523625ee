// Package analytics computes summary statistics, frequency histograms,
// time-series aggregation and multi-key ordering over canonical record
// sequences. All operations are pure and tolerate empty input.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"spendscope/internal/common"
	"spendscope/internal/entity"
)

// Summary holds the expenditure statistics of an amount sequence. For empty
// input Sum is zero and Mean/Median/Mode are nil — a documented degenerate
// result, not an error.
type Summary struct {
	Count  int
	Sum    decimal.Decimal
	Mean   *decimal.Decimal
	Median *decimal.Decimal
	Mode   *decimal.Decimal
}

// Summarize computes sum, arithmetic mean, median (average of the two middle
// values for even lengths) and mode over the record amounts. Mode counts
// amounts rounded to 2 decimal places; among equally frequent values the
// smallest wins, so the result is deterministic.
func Summarize(records []entity.CanonicalRecord) Summary {
	if len(records) == 0 {
		return Summary{Sum: decimal.Zero}
	}

	amounts := make([]decimal.Decimal, len(records))
	for i, r := range records {
		amounts[i] = r.Amount
	}

	sum := decimal.Sum(amounts[0], amounts[1:]...)
	mean := decimal.Avg(amounts[0], amounts[1:]...)

	ordered := make([]decimal.Decimal, len(amounts))
	copy(ordered, amounts)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].LessThan(ordered[j]) })
	var median decimal.Decimal
	mid := len(ordered) / 2
	if len(ordered)%2 == 1 {
		median = ordered[mid]
	} else {
		median = decimal.Avg(ordered[mid-1], ordered[mid])
	}

	mode := computeMode(ordered)

	return Summary{
		Count:  len(records),
		Sum:    sum,
		Mean:   &mean,
		Median: &median,
		Mode:   &mode,
	}
}

// computeMode expects amounts in ascending order, so walking groups of equal
// rounded values hits the smallest of tied modes first.
func computeMode(ordered []decimal.Decimal) decimal.Decimal {
	best := ordered[0].Round(2)
	bestCount := 0
	i := 0
	for i < len(ordered) {
		current := ordered[i].Round(2)
		j := i
		for j < len(ordered) && ordered[j].Round(2).Equal(current) {
			j++
		}
		if j-i > bestCount {
			best = current
			bestCount = j - i
		}
		i = j
	}
	return best
}

// CategoricalField names a histogram dimension.
type CategoricalField string

const (
	ByVendor   CategoricalField = "vendor"
	ByCategory CategoricalField = "category"
	ByCurrency CategoricalField = "currency"
)

// Frequency maps each value of the chosen categorical field to its occurrence
// count. Deterministic for a given input; iteration order is the consumer's
// concern. An unknown field is ErrInvalidQuery.
func Frequency(records []entity.CanonicalRecord, field CategoricalField) (map[string]int, error) {
	pick := func(r entity.CanonicalRecord) string { return "" }
	switch field {
	case ByVendor:
		pick = func(r entity.CanonicalRecord) string { return r.Vendor }
	case ByCategory:
		pick = func(r entity.CanonicalRecord) string { return string(r.Category) }
	case ByCurrency:
		pick = func(r entity.CanonicalRecord) string { return r.CurrencyCode }
	default:
		return nil, common.WrapError(common.ErrInvalidQuery, "histogram field "+string(field))
	}

	freq := make(map[string]int, len(records))
	for _, r := range records {
		freq[pick(r)]++
	}
	return freq, nil
}

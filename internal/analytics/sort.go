package analytics

import (
	"sort"
	"strings"

	"spendscope/internal/common"
	"spendscope/internal/entity"
)

// SortField names a sortable record field.
type SortField string

const (
	SortByVendor     SortField = "vendor"
	SortByDate       SortField = "date"
	SortByAmount     SortField = "amount"
	SortByCurrency   SortField = "currency"
	SortByCategory   SortField = "category"
	SortByConfidence SortField = "confidence"
)

// SortKey is one (field, direction) pair of a multi-key sort.
type SortKey struct {
	Field SortField
	Desc  bool
}

// SortRecords orders a copy of records by the given keys: the primary key
// first, later keys breaking ties. The sort is stable, so rows with fully
// equal keys keep their input order. Unknown fields are
// ErrUnsupportedSortKey.
func SortRecords(records []entity.CanonicalRecord, keys []SortKey) ([]entity.CanonicalRecord, error) {
	for _, k := range keys {
		switch k.Field {
		case SortByVendor, SortByDate, SortByAmount, SortByCurrency, SortByCategory, SortByConfidence:
		default:
			return nil, common.WrapError(common.ErrUnsupportedSortKey, string(k.Field))
		}
	}

	out := make([]entity.CanonicalRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			c := compareField(out[i], out[j], k.Field)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out, nil
}

func compareField(a, b entity.CanonicalRecord, field SortField) int {
	switch field {
	case SortByVendor:
		return compareText(a.Vendor, b.Vendor)
	case SortByDate:
		switch {
		case a.TxDate.Before(b.TxDate):
			return -1
		case a.TxDate.After(b.TxDate):
			return 1
		}
		return 0
	case SortByAmount:
		return a.Amount.Cmp(b.Amount)
	case SortByCurrency:
		return compareText(a.CurrencyCode, b.CurrencyCode)
	case SortByCategory:
		return compareText(string(a.Category), string(b.Category))
	case SortByConfidence:
		switch {
		case a.Confidence < b.Confidence:
			return -1
		case a.Confidence > b.Confidence:
			return 1
		}
		return 0
	}
	return 0
}

// compareText orders case-insensitively, with a case-sensitive final tiebreak
// so equal-folded values still sort deterministically.
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

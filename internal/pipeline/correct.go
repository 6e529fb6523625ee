package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"spendscope/constants"
	"spendscope/internal/entity"
)

// FieldEdits is a set of explicit overrides for manual correction. Nil
// members leave the base value untouched.
type FieldEdits struct {
	Vendor   *string
	TxDate   *time.Time
	Amount   *decimal.Decimal
	Currency *string
	Category *constants.Category
}

// Correct derives a corrected record from base. The result keeps the same id
// (correction replaces by id, it does not mutate) and is tagged
// manually_corrected. Corrected fields are authoritative: extraction scoring
// is never re-run, so the confidence carries over unchanged.
func Correct(base entity.CanonicalRecord, edits FieldEdits) entity.CanonicalRecord {
	out := base
	if edits.Vendor != nil {
		out.Vendor = *edits.Vendor
	}
	if edits.TxDate != nil {
		out.TxDate = entity.DateOnly(*edits.TxDate)
	}
	if edits.Amount != nil {
		out.Amount = *edits.Amount
	}
	if edits.Currency != nil {
		out.CurrencyCode = *edits.Currency
	}
	if edits.Category != nil {
		out.Category = *edits.Category
	}
	out.Provenance = entity.ProvenanceManuallyCorrected
	return out
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spendscope/constants"
)

// Provenance tags how a canonical record's values were produced.
type Provenance string

const (
	ProvenanceExtracted         Provenance = "extracted"
	ProvenanceManuallyCorrected Provenance = "manually_corrected"
)

// Span is a half-open [Start, End) byte offset range into the normalized text
// a field value was read from. Kept for audit and debugging.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Field is a single candidate value proposed by one extractor rule.
type Field[T any] struct {
	Value       T       `json:"value"`
	Confidence  float64 `json:"confidence"`
	Span        Span    `json:"span"`
	ExtractorID string  `json:"extractor_id"`
}

// ExtractedRecord is the pipeline output for one document. Fields the
// extractors found nothing for are nil. Immutable once resolved; manual
// correction derives a new CanonicalRecord instead of mutating this value.
type ExtractedRecord struct {
	Vendor            *Field[string]
	TxDate            *Field[time.Time]
	Amount            *Field[decimal.Decimal]
	Currency          *Field[string]
	Category          *Field[constants.Category]
	OverallConfidence float64
	RawText           string
}

// CanonicalRecord is the fully resolved unit stored in the record index.
// Every field is concrete; records missing required fields never become
// canonical (the caller surfaces them for correction first).
type CanonicalRecord struct {
	ID           uuid.UUID          `json:"id"`
	Vendor       string             `json:"vendor"`
	TxDate       time.Time          `json:"tx_date"`
	Amount       decimal.Decimal    `json:"amount"`
	CurrencyCode string             `json:"currency_code"`
	Category     constants.Category `json:"category"`
	Confidence   float64            `json:"confidence"`
	Provenance   Provenance         `json:"provenance"`
}

// Package ingest admits externally supplied record documents — typically
// manual corrections exported from a review tool — after validating them
// against a JSON Schema. Persistence of the result stays with the caller.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"

	"spendscope/constants"
	"spendscope/internal/common"
	"spendscope/internal/entity"
)

type recordJSON struct {
	ID           string  `json:"id,omitempty"`
	Vendor       string  `json:"vendor"`
	TxDate       string  `json:"tx_date"`
	Amount       string  `json:"amount"`
	CurrencyCode string  `json:"currency_code,omitempty"`
	Category     string  `json:"category,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	Provenance   string  `json:"provenance,omitempty"`
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ParseRecord validates and decodes one record document. Absent optionals get
// defaults: a fresh id, the supplied default currency, Uncategorized,
// confidence 1.0 and manually_corrected provenance (the import path is the
// correction path).
func ParseRecord(data []byte, defaultCurrency string) (entity.CanonicalRecord, error) {
	if err := ValidateJSONAgainstSchema(BuildRecordJSONSchema(), data); err != nil {
		return entity.CanonicalRecord{}, common.WrapError(common.ErrValidation, err.Error())
	}
	var rj recordJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return entity.CanonicalRecord{}, fmt.Errorf("decode record: %w", err)
	}

	id := uuid.New()
	if rj.ID != "" {
		parsed, err := uuid.Parse(rj.ID)
		if err != nil {
			return entity.CanonicalRecord{}, common.WrapError(common.ErrValidation, "invalid record id")
		}
		id = parsed
	}
	txDate, err := entity.ParseYMD(rj.TxDate)
	if err != nil {
		return entity.CanonicalRecord{}, common.WrapError(common.ErrValidation, "invalid tx_date")
	}
	amount, err := decimal.NewFromString(rj.Amount)
	if err != nil {
		return entity.CanonicalRecord{}, common.WrapError(common.ErrValidation, "invalid amount")
	}

	currency := strings.ToUpper(rj.CurrencyCode)
	if currency == "" {
		currency = strings.ToUpper(defaultCurrency)
	}
	category, _ := constants.Canonicalize(rj.Category)
	confidence := rj.Confidence
	if confidence == 0 {
		confidence = 1.0
	}
	provenance := entity.ProvenanceManuallyCorrected
	if rj.Provenance == string(entity.ProvenanceExtracted) {
		provenance = entity.ProvenanceExtracted
	}

	return entity.CanonicalRecord{
		ID:           id,
		Vendor:       rj.Vendor,
		TxDate:       txDate,
		Amount:       amount,
		CurrencyCode: currency,
		Category:     category,
		Confidence:   confidence,
		Provenance:   provenance,
	}, nil
}

// ParseRecords decodes a JSON array of record documents. The whole batch is
// rejected on the first invalid element so a partial import never happens.
func ParseRecords(data []byte, defaultCurrency string) ([]entity.CanonicalRecord, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, common.WrapError(common.ErrValidation, "expected a JSON array of records")
	}
	out := make([]entity.CanonicalRecord, 0, len(raws))
	for i, raw := range raws {
		rec, err := ParseRecord(raw, defaultCurrency)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

package ingest

import (
	"spendscope/constants"
	"spendscope/internal/entity"
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map, used to validate externally supplied record documents before
// they are admitted.
func BuildRecordJSONSchema() map[string]any {
	props := map[string]any{
		"id":            map[string]any{"type": "string", "pattern": `^[0-9a-fA-F-]{36}$`},
		"vendor":        map[string]any{"type": "string", "minLength": 1},
		"tx_date":       map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"amount":        decimalProp(),
		"currency_code": map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
		"category":      map[string]any{"type": "string", "enum": constants.AsStringSlice()},
		"confidence":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"provenance": map[string]any{
			"type": "string",
			"enum": []string{string(entity.ProvenanceExtracted), string(entity.ProvenanceManuallyCorrected)},
		},
	}
	required := []string{"vendor", "tx_date", "amount"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d+(\.\d{1,2})?$`,
	}
}

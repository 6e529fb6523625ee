package extract

import (
	"log/slog"
	"time"

	"spendscope/constants"
	"spendscope/internal/common"
	"spendscope/internal/entity"
	"spendscope/internal/normalize"
)

// decimalFormatPenalty is applied to both the amount and currency confidence
// when the amount's inferred separator format contradicts the currency's
// convention. Neither candidate is discarded, so the record stays auditable.
const decimalFormatPenalty = 0.8

// Candidates collects every extractor's output for one document.
type Candidates struct {
	Vendors    []entity.Field[string]
	Dates      []entity.Field[time.Time]
	Amounts    []AmountCandidate
	Currencies []entity.Field[string]
	Categories []entity.Field[constants.Category]
}

// Collect runs all field extractors over the normalized text. Pure; safe to
// call concurrently across documents.
func Collect(n normalize.NormalizedText) Candidates {
	currencies := ExtractCurrencies(n)
	currencyGuess := ""
	if len(currencies) > 0 {
		currencyGuess = currencies[0].Value
	}
	vendors := ExtractVendors(n)
	vendorGuess := ""
	if len(vendors) > 0 {
		vendorGuess = vendors[0].Value
	}
	return Candidates{
		Vendors:    vendors,
		Dates:      ExtractDates(n),
		Amounts:    ExtractAmounts(n, currencyGuess),
		Currencies: currencies,
		Categories: ExtractCategories(n, vendorGuess),
	}
}

// Resolver merges per-field candidates into one ExtractedRecord and computes
// the overall confidence. Deterministic: the same candidate set always
// resolves to the same record.
type Resolver struct {
	Logger *slog.Logger
	Cfg    common.ExtractionConfig
}

func NewResolver(logger *slog.Logger, cfg common.ExtractionConfig) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.60
	}
	if cfg.MissingFieldPenalty <= 0 {
		cfg.MissingFieldPenalty = 0.05
	}
	zero := common.ConfidenceWeights{}
	if cfg.Weights == zero {
		cfg.Weights = common.DefaultWeights()
	}
	return &Resolver{Logger: logger, Cfg: cfg}
}

// Resolve picks the best candidate per field (highest confidence, ties broken
// by declared rule priority), runs the cross-field consistency pass, and
// computes the weighted overall confidence.
func (r *Resolver) Resolve(rawText string, c Candidates) entity.ExtractedRecord {
	rec := entity.ExtractedRecord{RawText: rawText}

	rec.Vendor = pickBest(c.Vendors)
	rec.TxDate = pickBest(c.Dates)
	rec.Currency = pickBest(c.Currencies)
	rec.Category = pickBest(c.Categories)

	var amountDecimalComma bool
	if len(c.Amounts) > 0 {
		best := c.Amounts[0]
		f := best.Field
		rec.Amount = &f
		amountDecimalComma = best.DecimalComma
	}

	// cross-field pass: a separator format that contradicts the currency
	// convention penalizes both candidates
	if rec.Amount != nil && rec.Currency != nil {
		if amountDecimalComma != constants.UsesDecimalComma(rec.Currency.Value) {
			rec.Amount.Confidence *= decimalFormatPenalty
			rec.Currency.Confidence *= decimalFormatPenalty
			r.Logger.Warn("resolve.format_conflict",
				"currency", rec.Currency.Value,
				"decimal_comma", amountDecimalComma,
			)
		}
	}

	rec.OverallConfidence = r.overallConfidence(rec)
	return rec
}

func pickBest[T any](fields []entity.Field[T]) *entity.Field[T] {
	if len(fields) == 0 {
		return nil
	}
	best := fields[0]
	return &best
}

// overallConfidence is the weighted mean of present-field confidences with a
// fixed penalty per missing required field, clamped to [0,1]. Never set
// independently of the per-field scores.
func (r *Resolver) overallConfidence(rec entity.ExtractedRecord) float64 {
	w := r.Cfg.Weights
	score := 0.0
	if rec.Vendor != nil {
		score += w.Vendor * rec.Vendor.Confidence
	}
	if rec.TxDate != nil {
		score += w.Date * rec.TxDate.Confidence
	}
	if rec.Amount != nil {
		score += w.Amount * rec.Amount.Confidence
	}
	if rec.Currency != nil {
		score += w.Currency * rec.Currency.Confidence
	}
	if rec.Category != nil {
		score += w.Category * rec.Category.Confidence
	}

	missing := 0
	for _, field := range r.Cfg.RequiredFields {
		switch field {
		case "vendor":
			if rec.Vendor == nil {
				missing++
			}
		case "date":
			if rec.TxDate == nil {
				missing++
			}
		case "amount":
			if rec.Amount == nil {
				missing++
			}
		}
	}
	score -= float64(missing) * r.Cfg.MissingFieldPenalty

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// MissingRequired lists the required fields absent from rec, in the
// configured order.
func (r *Resolver) MissingRequired(rec entity.ExtractedRecord) []string {
	var missing []string
	for _, field := range r.Cfg.RequiredFields {
		switch field {
		case "vendor":
			if rec.Vendor == nil {
				missing = append(missing, field)
			}
		case "date":
			if rec.TxDate == nil {
				missing = append(missing, field)
			}
		case "amount":
			if rec.Amount == nil {
				missing = append(missing, field)
			}
		}
	}
	return missing
}

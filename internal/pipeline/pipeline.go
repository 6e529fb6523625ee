// Package pipeline is the sole entry point from the ingestion/OCR
// collaborator: raw text in, a confidence-scored ExtractedRecord out.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"spendscope/constants"
	"spendscope/internal/common"
	"spendscope/internal/entity"
	"spendscope/internal/extract"
	"spendscope/internal/normalize"
)

// LocaleHint is optional caller context about the document's origin.
type LocaleHint struct {
	Locale   string
	Currency string // ISO code used when no currency is detected
}

type Pipeline struct {
	Logger   *slog.Logger
	Cfg      common.ExtractionConfig
	resolver *extract.Resolver
}

func New(logger *slog.Logger, cfg common.ExtractionConfig) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	resolver := extract.NewResolver(logger, cfg)
	return &Pipeline{Logger: logger, Cfg: resolver.Cfg, resolver: resolver}
}

// Process normalizes rawText, runs every field extractor and resolves the
// candidates into one record. It never fails: empty or garbage input is a
// warning condition and yields a low-confidence record with zero candidates,
// not an error.
func (p *Pipeline) Process(ctx context.Context, rawText, mimeHint string, hint *LocaleHint) entity.ExtractedRecord {
	norm := normalize.Normalize(rawText)
	if norm.Empty() {
		p.Logger.WarnContext(ctx, "pipeline.empty_input", "mime_hint", mimeHint, "reason", common.ErrMalformedInput.Error())
	}

	cands := extract.Collect(norm)
	rec := p.resolver.Resolve(norm.Text, cands)

	p.Logger.InfoContext(ctx, "pipeline.ok",
		"mime_hint", mimeHint,
		"vendor_found", rec.Vendor != nil,
		"date_found", rec.TxDate != nil,
		"amount_found", rec.Amount != nil,
		"confidence", rec.OverallConfidence,
		"needs_review", p.NeedsReview(rec),
	)
	_ = hint // currency fallback applies at promotion, not extraction
	return rec
}

// NeedsReview reports whether the record must be surfaced for manual
// correction before it may become canonical.
func (p *Pipeline) NeedsReview(rec entity.ExtractedRecord) bool {
	if rec.OverallConfidence < p.Cfg.MinConfidence {
		return true
	}
	return len(p.resolver.MissingRequired(rec)) > 0
}

// Promote converts an ExtractedRecord into a CanonicalRecord ready for the
// index. Optional fields fall back to defaults (category Uncategorized,
// currency from the hint or the configured default); a missing required field
// is ErrIncompleteRecord and the caller must route the record through manual
// correction instead.
func (p *Pipeline) Promote(rec entity.ExtractedRecord, hint *LocaleHint) (entity.CanonicalRecord, error) {
	missing := p.resolver.MissingRequired(rec)
	if len(missing) > 0 {
		return entity.CanonicalRecord{}, common.WrapError(common.ErrIncompleteRecord,
			"missing required fields: "+strings.Join(missing, ", "))
	}

	currency := p.Cfg.DefaultCurrency
	if hint != nil && hint.Currency != "" {
		currency = strings.ToUpper(hint.Currency)
	}
	if rec.Currency != nil {
		currency = rec.Currency.Value
	}
	category := constants.Uncategorized
	if rec.Category != nil {
		category = rec.Category.Value
	}

	return entity.CanonicalRecord{
		ID:           uuid.New(),
		Vendor:       rec.Vendor.Value,
		TxDate:       entity.DateOnly(rec.TxDate.Value),
		Amount:       rec.Amount.Value,
		CurrencyCode: currency,
		Category:     category,
		Confidence:   rec.OverallConfidence,
		Provenance:   entity.ProvenanceExtracted,
	}, nil
}

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "USD", cfg.Extraction.DefaultCurrency)
	assert.Equal(t, 0.60, cfg.Extraction.MinConfidence)
	assert.Equal(t, 0.05, cfg.Extraction.MissingFieldPenalty)
	assert.Equal(t, []string{"vendor", "date", "amount"}, cfg.Extraction.RequiredFields)
	assert.Equal(t, 3, cfg.Aggregation.SlidingWindowSize)
	assert.Equal(t, "month", cfg.Aggregation.BucketPeriod)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DEFAULT_CURRENCY", "EUR")
	t.Setenv("MIN_CONFIDENCE", "0.75")
	t.Setenv("SLIDING_WINDOW_SIZE", "5")
	t.Setenv("BUCKET_PERIOD", "week")

	cfg := LoadConfig()
	assert.Equal(t, "EUR", cfg.Extraction.DefaultCurrency)
	assert.Equal(t, 0.75, cfg.Extraction.MinConfidence)
	assert.Equal(t, 5, cfg.Aggregation.SlidingWindowSize)
	assert.Equal(t, "week", cfg.Aggregation.BucketPeriod)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.Extraction.Weights.Amount = 0.50
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Extraction.MinConfidence = 1.5
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Aggregation.SlidingWindowSize = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Aggregation.BucketPeriod = "quarter"
	assert.Error(t, cfg.Validate())
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Vendor+w.Date+w.Amount+w.Currency+w.Category, 1e-9)
}

package common

import (
	"math"
	"os"
	"strconv"
)

// Config holds all engine configuration
type Config struct {
	Extraction  ExtractionConfig
	Aggregation AggregationConfig
}

// ExtractionConfig holds pipeline and resolver knobs
type ExtractionConfig struct {
	DefaultCurrency string
	// MinConfidence is the review threshold; records resolving below it are
	// surfaced for manual correction.
	MinConfidence float64
	// MissingFieldPenalty is subtracted from the overall confidence for each
	// absent required field.
	MissingFieldPenalty float64
	Weights             ConfidenceWeights
	RequiredFields      []string
}

// ConfidenceWeights are the per-field weights of the overall confidence.
// They must sum to 1.0.
type ConfidenceWeights struct {
	Vendor   float64
	Date     float64
	Amount   float64
	Currency float64
	Category float64
}

// AggregationConfig holds analytics defaults
type AggregationConfig struct {
	SlidingWindowSize int
	BucketPeriod      string // day | week | month
}

// DefaultWeights are the documented fixed weight defaults.
func DefaultWeights() ConfidenceWeights {
	return ConfidenceWeights{
		Vendor:   0.25,
		Date:     0.25,
		Amount:   0.30,
		Currency: 0.10,
		Category: 0.10,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			DefaultCurrency:     getEnv("DEFAULT_CURRENCY", "USD"),
			MinConfidence:       getEnvAsFloat("MIN_CONFIDENCE", 0.60),
			MissingFieldPenalty: getEnvAsFloat("MISSING_FIELD_PENALTY", 0.05),
			Weights:             DefaultWeights(),
			RequiredFields:      []string{"vendor", "date", "amount"},
		},
		Aggregation: AggregationConfig{
			SlidingWindowSize: getEnvAsInt("SLIDING_WINDOW_SIZE", 3),
			BucketPeriod:      getEnv("BUCKET_PERIOD", "month"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	w := c.Extraction.Weights
	sum := w.Vendor + w.Date + w.Amount + w.Currency + w.Category
	if math.Abs(sum-1.0) > 1e-9 {
		return NewAppError("CONFIG_ERROR", "confidence weights must sum to 1.0", ErrInvalidInput)
	}
	if c.Extraction.MinConfidence < 0 || c.Extraction.MinConfidence > 1 {
		return NewAppError("CONFIG_ERROR", "MIN_CONFIDENCE must be within [0,1]", ErrInvalidInput)
	}
	if c.Aggregation.SlidingWindowSize < 1 {
		return NewAppError("CONFIG_ERROR", "SLIDING_WINDOW_SIZE must be >= 1", ErrInvalidInput)
	}
	switch c.Aggregation.BucketPeriod {
	case "day", "week", "month":
	default:
		return NewAppError("CONFIG_ERROR", "BUCKET_PERIOD must be day, week or month", ErrInvalidInput)
	}
	return nil
}

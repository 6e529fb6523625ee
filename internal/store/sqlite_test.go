package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendscope/constants"
	"spendscope/internal/entity"
)

func testRecord(vendor string, day int, amount string) entity.CanonicalRecord {
	return entity.CanonicalRecord{
		ID:           uuid.New(),
		Vendor:       vendor,
		TxDate:       time.Date(2023, time.July, day, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.RequireFromString(amount),
		CurrencyCode: "USD",
		Category:     constants.Groceries,
		Confidence:   0.88,
		Provenance:   entity.ProvenanceExtracted,
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "session.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAllAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	records := []entity.CanonicalRecord{
		testRecord("FreshMart", 15, "8.00"),
		testRecord("City Power", 20, "120.50"),
	}

	require.NoError(t, s.SaveAll(ctx, records))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// order and every field survive the round trip
	for i := range records {
		assert.Equal(t, records[i].ID, got[i].ID)
		assert.Equal(t, records[i].Vendor, got[i].Vendor)
		assert.True(t, records[i].TxDate.Equal(got[i].TxDate))
		assert.True(t, records[i].Amount.Equal(got[i].Amount))
		assert.Equal(t, records[i].CurrencyCode, got[i].CurrencyCode)
		assert.Equal(t, records[i].Category, got[i].Category)
		assert.Equal(t, records[i].Confidence, got[i].Confidence)
		assert.Equal(t, records[i].Provenance, got[i].Provenance)
	}
}

func TestSaveAllReplacesPreviousSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAll(ctx, []entity.CanonicalRecord{
		testRecord("FreshMart", 15, "8.00"),
		testRecord("City Power", 20, "120.50"),
	}))
	replacement := testRecord("Corner Cafe", 25, "15.75")
	require.NoError(t, s.SaveAll(ctx, []entity.CanonicalRecord{replacement}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, replacement.ID, got[0].ID)
}

func TestLoadEmptyStore(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

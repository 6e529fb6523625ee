package index

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendscope/constants"
	"spendscope/internal/common"
	"spendscope/internal/entity"
)

func makeRecord(vendor string, date time.Time, amount string) entity.CanonicalRecord {
	return entity.CanonicalRecord{
		ID:           uuid.New(),
		Vendor:       vendor,
		TxDate:       entity.DateOnly(date),
		Amount:       decimal.RequireFromString(amount),
		CurrencyCode: "USD",
		Category:     constants.Uncategorized,
		Confidence:   0.9,
		Provenance:   entity.ProvenanceExtracted,
	}
}

func seedIndex(t *testing.T, records ...entity.CanonicalRecord) *Index {
	t.Helper()
	ix := New()
	for _, r := range records {
		require.NoError(t, ix.Insert(r))
	}
	return ix
}

// every record in the sequence must be reachable through both maps and
// vice versa
func assertConsistent(t *testing.T, ix *Index) {
	t.Helper()
	all := ix.All()
	assert.Equal(t, len(all), ix.Len())
	for _, r := range all {
		got, ok := ix.Get(r.ID)
		require.True(t, ok, "record %s missing from id map", r.ID)
		assert.Equal(t, r, got)

		found := false
		for _, v := range ix.VendorExact(r.Vendor) {
			if v.ID == r.ID {
				found = true
			}
		}
		assert.True(t, found, "record %s missing from vendor map", r.ID)

		found = false
		for _, m := range ix.MonthRange(r.TxDate, r.TxDate) {
			if m.ID == r.ID {
				found = true
			}
		}
		assert.True(t, found, "record %s missing from month map", r.ID)
	}
}

func TestInsertAndGet(t *testing.T) {
	r := makeRecord("Acme", time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), "10.00")
	ix := seedIndex(t, r)

	got, ok := ix.Get(r.ID)
	require.True(t, ok)
	assert.Equal(t, r, got)
	assertConsistent(t, ix)
}

func TestInsertDuplicateID(t *testing.T) {
	r := makeRecord("Acme", time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), "10.00")
	ix := seedIndex(t, r)

	err := ix.Insert(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateRecord)
	assert.Equal(t, 1, ix.Len())
}

func TestRemove(t *testing.T) {
	a := makeRecord("Acme", time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), "10.00")
	b := makeRecord("Bolt", time.Date(2023, 7, 16, 0, 0, 0, 0, time.UTC), "20.00")
	c := makeRecord("Acme", time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), "30.00")
	ix := seedIndex(t, a, b, c)

	require.NoError(t, ix.Remove(b.ID))
	assert.Equal(t, 2, ix.Len())
	_, ok := ix.Get(b.ID)
	assert.False(t, ok)
	assert.Empty(t, ix.VendorExact("Bolt"))
	assertConsistent(t, ix)

	assert.ErrorIs(t, ix.Remove(b.ID), common.ErrNotFound)
}

func TestReplaceKeepsIdentityAndPosition(t *testing.T) {
	a := makeRecord("Acme", time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), "10.00")
	b := makeRecord("Bolt", time.Date(2023, 7, 16, 0, 0, 0, 0, time.UTC), "20.00")
	ix := seedIndex(t, a, b)

	corrected := a
	corrected.ID = uuid.New() // replace must ignore this
	corrected.Vendor = "Acme Corrected"
	corrected.TxDate = entity.DateOnly(time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC))
	corrected.Provenance = entity.ProvenanceManuallyCorrected
	require.NoError(t, ix.Replace(a.ID, corrected))

	got, ok := ix.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "Acme Corrected", got.Vendor)

	// stale map entries must be gone
	assert.Empty(t, ix.VendorExact("Acme"))
	assert.Empty(t, ix.MonthRange(
		time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)))

	// insertion order preserved
	all := ix.All()
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)
	assertConsistent(t, ix)

	assert.ErrorIs(t, ix.Replace(uuid.New(), corrected), common.ErrNotFound)
}

func TestVendorExactIsCaseInsensitive(t *testing.T) {
	a := makeRecord("FreshMart", time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), "5.00")
	b := makeRecord("freshmart", time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC), "6.00")
	c := makeRecord("Bolt", time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC), "7.00")
	ix := seedIndex(t, a, b, c)

	got := ix.VendorExact("FRESHMART")
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)
}

func TestMonthRangeFiltersByDay(t *testing.T) {
	early := makeRecord("Acme", time.Date(2023, 7, 5, 0, 0, 0, 0, time.UTC), "1.00")
	mid := makeRecord("Acme", time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC), "2.00")
	next := makeRecord("Acme", time.Date(2023, 8, 2, 0, 0, 0, 0, time.UTC), "3.00")
	ix := seedIndex(t, early, mid, next)

	got := ix.MonthRange(
		time.Date(2023, 7, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 8, 31, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 2)
	assert.Equal(t, mid.ID, got[0].ID)
	assert.Equal(t, next.ID, got[1].ID)
}

func TestAllReturnsSnapshot(t *testing.T) {
	a := makeRecord("Acme", time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), "10.00")
	ix := seedIndex(t, a)

	snap := ix.All()
	require.NoError(t, ix.Remove(a.ID))
	require.Len(t, snap, 1)
	assert.Equal(t, a.ID, snap[0].ID)
}

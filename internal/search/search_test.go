package search

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
	"spendscope/internal/index"
)

func rec(vendor string, category constants.Category, date time.Time, amount string) entity.CanonicalRecord {
	return entity.CanonicalRecord{
		ID:           uuid.New(),
		Vendor:       vendor,
		TxDate:       entity.DateOnly(date),
		Amount:       decimal.RequireFromString(amount),
		CurrencyCode: "USD",
		Category:     category,
		Provenance:   entity.ProvenanceExtracted,
	}
}

func sampleRecords() []entity.CanonicalRecord {
	return []entity.CanonicalRecord{
		rec("FreshMart", constants.Groceries, time.Date(2023, 7, 5, 0, 0, 0, 0, time.UTC), "8.00"),
		rec("City Power", constants.Utilities, time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC), "120.50"),
		rec("Corner Cafe", constants.Dining, time.Date(2023, 8, 2, 0, 0, 0, 0, time.UTC), "15.75"),
		rec("freshmart", constants.Groceries, time.Date(2023, 8, 9, 0, 0, 0, 0, time.UTC), "22.10"),
	}
}

func TestKeywordMatchesVendorAndCategory(t *testing.T) {
	records := sampleRecords()

	got := Keyword(records, "fresh")
	require.Len(t, got, 2)
	assert.Equal(t, records[0].ID, got[0].ID)
	assert.Equal(t, records[3].ID, got[1].ID)

	got = Keyword(records, "DINING")
	require.Len(t, got, 1)
	assert.Equal(t, "Corner Cafe", got[0].Vendor)
}

func TestKeywordEmptyTermMatchesNothing(t *testing.T) {
	assert.Empty(t, Keyword(sampleRecords(), "   "))
}

func TestKeywordIndexedAgreesWithScan(t *testing.T) {
	records := sampleRecords()
	ix := index.New()
	for _, r := range records {
		require.NoError(t, ix.Insert(r))
	}

	// exact vendor term: hashed map path must equal the linear equality scan
	assert.Equal(t, KeywordExact(records, "FreshMart"), KeywordIndexed(ix, "FreshMart"))
	assert.Equal(t, KeywordExact(records, "city power"), KeywordIndexed(ix, "city power"))

	// non-exact term falls back to the substring scan
	assert.Equal(t, Keyword(records, "cafe"), KeywordIndexed(ix, "cafe"))
	assert.Empty(t, KeywordIndexed(ix, "warehouse"))
}

func TestAmountBetween(t *testing.T) {
	records := sampleRecords()

	got, err := AmountBetween(records, decimal.RequireFromString("8.00"), decimal.RequireFromString("15.75"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	// endpoints are inclusive, input order preserved
	assert.Equal(t, "FreshMart", got[0].Vendor)
	assert.Equal(t, "Corner Cafe", got[1].Vendor)

	_, err = AmountBetween(records, decimal.RequireFromString("100"), decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, common.ErrInvalidQuery)
}

func TestDateBetween(t *testing.T) {
	records := sampleRecords()
	from := time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 8, 2, 0, 0, 0, 0, time.UTC)

	got, err := DateBetween(records, from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "City Power", got[0].Vendor)
	assert.Equal(t, "Corner Cafe", got[1].Vendor)

	_, err = DateBetween(records, to, from)
	assert.ErrorIs(t, err, common.ErrInvalidQuery)
}

func TestDateBetweenIndexedAgreesWithScan(t *testing.T) {
	records := sampleRecords()
	ix := index.New()
	for _, r := range records {
		require.NoError(t, ix.Insert(r))
	}

	from := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 8, 5, 0, 0, 0, 0, time.UTC)
	scan, err := DateBetween(records, from, to)
	require.NoError(t, err)
	indexed, err := DateBetweenIndexed(ix, from, to)
	require.NoError(t, err)
	assert.Equal(t, scan, indexed)

	_, err = DateBetweenIndexed(ix, to, from)
	assert.ErrorIs(t, err, common.ErrInvalidQuery)
}

func TestMatchPattern(t *testing.T) {
	records := sampleRecords()

	got, err := MatchPattern(records, "fresh*")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = MatchPattern(records, "C?ty *")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "City Power", got[0].Vendor)

	got, err = MatchPattern(records, "*mart")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = MatchPattern(records, "corner cafe")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = MatchPattern(records, "  ")
	assert.ErrorIs(t, err, common.ErrInvalidQuery)
}

func TestWildcardMatch(t *testing.T) {
	cases := []struct {
		s, p string
		want bool
	}{
		{"freshmart", "*", true},
		{"freshmart", "fresh*", true},
		{"freshmart", "*mart", true},
		{"freshmart", "f*m*t", true},
		{"freshmart", "fresh?art", true},
		{"freshmart", "fresh?mart", false},
		{"freshmart", "freshmar?", true},
		{"freshmart", "fresh", false},
		{"", "*", true},
		{"", "?", false},
		{"ab", "a**b", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, wildcardMatch([]rune(tc.s), []rune(tc.p)), "%q vs %q", tc.s, tc.p)
	}
}

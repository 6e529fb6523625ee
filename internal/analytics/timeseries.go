package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"spendscope/internal/common"
	"spendscope/internal/entity"
)

// Period is the time-series bucket width.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// BucketPoint is one bucket of a time series: the bucket start (midnight UTC;
// weeks start Monday, months on the 1st) and the summed amount.
type BucketPoint struct {
	Start time.Time
	Total decimal.Decimal
}

// TrendPoint extends a bucket with its trailing sliding-window mean.
type TrendPoint struct {
	Start    time.Time
	Total    decimal.Decimal
	Smoothed decimal.Decimal
}

// BucketTotals sums record amounts per period bucket. Buckets between the
// first and last record that hold no records get an explicit zero entry, so
// the series has no gaps. Empty input yields an empty series; an unknown
// period is ErrInvalidQuery.
func BucketTotals(records []entity.CanonicalRecord, period Period) ([]BucketPoint, error) {
	switch period {
	case PeriodDay, PeriodWeek, PeriodMonth:
	default:
		return nil, common.WrapError(common.ErrInvalidQuery, "bucket period "+string(period))
	}
	if len(records) == 0 {
		return []BucketPoint{}, nil
	}

	totals := make(map[time.Time]decimal.Decimal)
	first, last := time.Time{}, time.Time{}
	for _, r := range records {
		start := bucketStart(r.TxDate, period)
		totals[start] = totals[start].Add(r.Amount)
		if first.IsZero() || start.Before(first) {
			first = start
		}
		if last.IsZero() || start.After(last) {
			last = start
		}
	}

	var series []BucketPoint
	for cursor := first; !cursor.After(last); cursor = nextBucket(cursor, period) {
		series = append(series, BucketPoint{Start: cursor, Total: totals[cursor]})
	}
	return series, nil
}

// SlidingMean smooths a series with a trailing window of the given size: each
// point becomes the mean of itself and its window-1 predecessors. No
// look-ahead; partial windows at the start narrow instead of padding with
// zeros. window < 1 is ErrInvalidQuery.
func SlidingMean(series []BucketPoint, window int) ([]BucketPoint, error) {
	if window < 1 {
		return nil, common.WrapError(common.ErrInvalidQuery, "sliding window size must be >= 1")
	}
	out := make([]BucketPoint, len(series))
	for i, p := range series {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		values := make([]decimal.Decimal, 0, i-lo+1)
		for j := lo; j <= i; j++ {
			values = append(values, series[j].Total)
		}
		out[i] = BucketPoint{Start: p.Start, Total: decimal.Avg(values[0], values[1:]...)}
	}
	return out, nil
}

// Trend composes bucketing and smoothing into one call, mirroring the shape
// consumed by spend-trend views.
func Trend(records []entity.CanonicalRecord, period Period, window int) ([]TrendPoint, error) {
	series, err := BucketTotals(records, period)
	if err != nil {
		return nil, err
	}
	smoothed, err := SlidingMean(series, window)
	if err != nil {
		return nil, err
	}
	out := make([]TrendPoint, len(series))
	for i := range series {
		out[i] = TrendPoint{
			Start:    series[i].Start,
			Total:    series[i].Total,
			Smoothed: smoothed[i].Total,
		}
	}
	return out, nil
}

func bucketStart(t time.Time, period Period) time.Time {
	t = entity.DateOnly(t)
	switch period {
	case PeriodDay:
		return t
	case PeriodWeek:
		// ISO weeks: Monday start
		offset := int(t.Weekday())
		if offset == 0 {
			offset = 7
		}
		return t.AddDate(0, 0, -(offset - 1))
	default: // PeriodMonth
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

func nextBucket(t time.Time, period Period) time.Time {
	switch period {
	case PeriodDay:
		return t.AddDate(0, 0, 1)
	case PeriodWeek:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// Package export serializes record sets and analytics results for external
// consumers. Only primitive values cross the boundary: rows of strings and
// numbers, no engine types.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"spendscope/internal/analytics"
	"spendscope/internal/entity"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RecordsXLSX returns an XLSX workbook (as bytes) listing the given records.
func (s *Service) RecordsXLSX(records []entity.CanonicalRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Records"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Transaction Date",
		"Vendor",
		"Category",
		"Amount",
		"Currency",
		"Confidence",
		"Provenance",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.TxDate.Format("2006-01-02"))
		write(2, truncate(r.Vendor, 60))
		write(3, string(r.Category))
		write(4, r.Amount.StringFixed(2))
		write(5, r.CurrencyCode)
		write(6, fmt.Sprintf("%.2f", r.Confidence))
		write(7, string(r.Provenance))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14) // date
	_ = f.SetColWidth(sheet, "B", "B", 28) // vendor
	_ = f.SetColWidth(sheet, "C", "C", 18) // category
	_ = f.SetColWidth(sheet, "D", "E", 12) // amount, currency
	_ = f.SetColWidth(sheet, "F", "G", 18) // confidence, provenance

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// RecordsCSV returns the records as CSV with a header row.
func (s *Service) RecordsCSV(records []entity.CanonicalRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"tx_date", "vendor", "category", "amount", "currency_code", "confidence", "provenance"})
	for _, r := range records {
		_ = w.Write([]string{
			r.TxDate.Format("2006-01-02"),
			r.Vendor,
			string(r.Category),
			r.Amount.StringFixed(2),
			r.CurrencyCode,
			fmt.Sprintf("%.2f", r.Confidence),
			string(r.Provenance),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	s.logger.Info("export.csv.ok", "rows", len(records))
	return buf.Bytes(), nil
}

// TrendCSV serializes a spend trend series: bucket start, total, smoothed.
func (s *Service) TrendCSV(points []analytics.TrendPoint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"bucket", "total", "smoothed"})
	for _, p := range points {
		_ = w.Write([]string{
			p.Start.Format("2006-01-02"),
			p.Total.StringFixed(2),
			p.Smoothed.StringFixed(2),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	return buf.Bytes(), nil
}

// HistogramCSV serializes a frequency histogram, highest count first and ties
// broken by name so the output is deterministic.
func (s *Service) HistogramCSV(freq map[string]int) ([]byte, error) {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"value", "count"})
	for _, k := range keys {
		_ = w.Write([]string{k, fmt.Sprintf("%d", freq[k])})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

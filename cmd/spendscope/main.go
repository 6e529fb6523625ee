package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spendscope/internal/analytics"
	"spendscope/internal/common"
	"spendscope/internal/entity"
	"spendscope/internal/export"
	"spendscope/internal/index"
	"spendscope/internal/ingest"
	"spendscope/internal/pipeline"
	"spendscope/internal/search"
	"spendscope/internal/store"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory of .txt documents to process")
		importPath = flag.String("import", "", "JSON file of corrected records to import")
		dbPath     = flag.String("db", "", "SQLite session store path (optional)")
		out        = flag.String("out", "", "output XLSX file path (defaults next to --dir)")
		currency   = flag.String("currency", "", "default currency hint (overrides DEFAULT_CURRENCY)")
		fromStr    = flag.String("from", "", "export from date YYYY-MM-DD")
		toStr      = flag.String("to", "", "export to date YYYY-MM-DD")
	)
	flag.Parse()

	if *dir == "" && *importPath == "" {
		printError("Error: --dir or --import is required\n")
		os.Exit(1)
	}
	if *out == "" && *dir != "" {
		*out = filepath.Join(filepath.Dir(*dir), "records.xlsx")
	}
	if *out == "" {
		*out = "records.xlsx"
	}

	var from, to *time.Time
	if *fromStr != "" {
		parsed, err := entity.ParseYMD(*fromStr)
		if err != nil {
			printError("Error: invalid --from date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		}
		from = &parsed
	}
	if *toStr != "" {
		parsed, err := entity.ParseYMD(*toStr)
		if err != nil {
			printError("Error: invalid --to date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		}
		to = &parsed
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *currency != "" {
		cfg.Extraction.DefaultCurrency = strings.ToUpper(*currency)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	pipe := pipeline.New(logger, cfg.Extraction)
	idx := index.New()

	// Resume a previous session when a store is configured.
	var sess *store.Store
	if *dbPath != "" {
		var err error
		sess, err = store.Open(*dbPath, logger)
		if err != nil {
			logger.Error("failed to open session store", "error", err)
			os.Exit(1)
		}
		defer func() { _ = sess.Close() }()

		previous, err := sess.Load(ctx)
		if err != nil {
			logger.Error("failed to load session", "error", err)
			os.Exit(1)
		}
		for _, r := range previous {
			if err := idx.Insert(r); err != nil {
				logger.Warn("skipping stored record", "record_id", r.ID, "error", err)
			}
		}
	}

	hint := &pipeline.LocaleHint{Currency: cfg.Extraction.DefaultCurrency}
	processed, committed, review, failures := 0, 0, 0, 0

	// Extract from raw text documents.
	if *dir != "" {
		paths, err := textFiles(*dir)
		if err != nil {
			logger.Error("failed to scan directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		for _, path := range paths {
			raw, err := os.ReadFile(path)
			if err != nil {
				logger.Error("failed to read document", "path", path, "error", err)
				failures++
				continue
			}
			processed++
			rec := pipe.Process(ctx, string(raw), "text/plain", hint)
			if pipe.NeedsReview(rec) {
				logger.Warn("document needs manual review",
					"path", path, "confidence", rec.OverallConfidence)
				review++
				continue
			}
			canonical, err := pipe.Promote(rec, hint)
			if err != nil {
				logger.Warn("document not promoted", "path", path, "error", err)
				review++
				continue
			}
			if err := idx.Insert(canonical); err != nil {
				logger.Error("failed to index record", "path", path, "error", err)
				failures++
				continue
			}
			committed++
		}
	}

	// Import corrected records.
	if *importPath != "" {
		data, err := os.ReadFile(*importPath)
		if err != nil {
			logger.Error("failed to read import file", "path", *importPath, "error", err)
			os.Exit(1)
		}
		records, err := ingest.ParseRecords(data, cfg.Extraction.DefaultCurrency)
		if err != nil {
			logger.Error("import rejected", "path", *importPath, "error", err)
			os.Exit(1)
		}
		for _, r := range records {
			if _, ok := idx.Get(r.ID); ok {
				if err := idx.Replace(r.ID, r); err != nil {
					logger.Error("failed to replace record", "record_id", r.ID, "error", err)
					failures++
				}
				continue
			}
			if err := idx.Insert(r); err != nil {
				logger.Error("failed to import record", "record_id", r.ID, "error", err)
				failures++
			}
		}
		logger.Info("import complete", "records", len(records))
	}

	// Analytics over the committed set (optionally date-filtered).
	records := idx.All()
	if from != nil || to != nil {
		lo := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
		hi := time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
		if from != nil {
			lo = *from
		}
		if to != nil {
			hi = *to
		}
		filtered, err := search.DateBetween(records, lo, hi)
		if err != nil {
			logger.Error("invalid date filter", "error", err)
			os.Exit(1)
		}
		records = filtered
	}

	sorted, err := analytics.SortRecords(records, []analytics.SortKey{
		{Field: analytics.SortByDate},
		{Field: analytics.SortByVendor},
	})
	if err != nil {
		logger.Error("failed to sort records", "error", err)
		os.Exit(1)
	}

	summary := analytics.Summarize(sorted)
	freq, err := analytics.Frequency(sorted, analytics.ByCategory)
	if err != nil {
		logger.Error("failed to compute histogram", "error", err)
		os.Exit(1)
	}
	trend, err := analytics.Trend(sorted,
		analytics.Period(cfg.Aggregation.BucketPeriod),
		cfg.Aggregation.SlidingWindowSize)
	if err != nil {
		logger.Error("failed to compute trend", "error", err)
		os.Exit(1)
	}

	svc := export.NewService(logger)
	xlsxBytes, err := svc.RecordsXLSX(sorted)
	if err != nil {
		logger.Error("failed to export records", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}
	trendOut := strings.TrimSuffix(*out, filepath.Ext(*out)) + "_trend.csv"
	if trendBytes, err := svc.TrendCSV(trend); err == nil {
		if err := os.WriteFile(trendOut, trendBytes, 0644); err != nil {
			logger.Error("failed to write trend file", "error", err)
		}
	}
	histOut := strings.TrimSuffix(*out, filepath.Ext(*out)) + "_categories.csv"
	if histBytes, err := svc.HistogramCSV(freq); err == nil {
		if err := os.WriteFile(histOut, histBytes, 0644); err != nil {
			logger.Error("failed to write histogram file", "error", err)
		}
	}

	if sess != nil {
		if err := sess.SaveAll(ctx, idx.All()); err != nil {
			logger.Error("failed to save session", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("batch processing complete",
		"documents_processed", processed,
		"records_committed", committed,
		"needs_review", review,
		"failures", failures,
		"output_file", *out)

	fmt.Printf("Processing complete!\n")
	fmt.Printf("- Documents processed: %d\n", processed)
	fmt.Printf("- Records committed: %d\n", committed)
	fmt.Printf("- Needing review: %d\n", review)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Total spend: %s\n", summary.Sum.StringFixed(2))
	fmt.Printf("- Output: %s\n", *out)
}

// textFiles lists the .txt documents under dir, sorted for deterministic runs.
func textFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

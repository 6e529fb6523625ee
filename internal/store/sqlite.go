// Package store is the persistence collaborator the engine hands canonical
// records to: a single-file SQLite session store. The engine core never
// touches it; the caller wires the two together.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"spendscope/constants"
	"spendscope/internal/entity"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	position      INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL UNIQUE,
	vendor        TEXT NOT NULL,
	tx_date       TEXT NOT NULL,
	amount        TEXT NOT NULL,
	currency_code TEXT NOT NULL,
	category      TEXT NOT NULL,
	confidence    REAL NOT NULL,
	provenance    TEXT NOT NULL
);`

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (and bootstraps) a session store at path. ":memory:" gives an
// ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	logger.Info("store.open", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAll replaces the stored session with the given records, preserving
// their order. Runs in one transaction so a failed save never leaves a
// partial session behind.
func (s *Store) SaveAll(ctx context.Context, records []entity.CanonicalRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, vendor, tx_date, amount, currency_code, category, confidence, provenance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.ID.String(),
			r.Vendor,
			r.TxDate.Format("2006-01-02"),
			r.Amount.String(),
			r.CurrencyCode,
			string(r.Category),
			r.Confidence,
			string(r.Provenance),
		)
		if err != nil {
			return fmt.Errorf("insert record %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("store.save.ok", "records", len(records))
	return nil
}

// Load returns the stored session in its saved order.
func (s *Store) Load(ctx context.Context) ([]entity.CanonicalRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, vendor, tx_date, amount, currency_code, category, confidence, provenance
		FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []entity.CanonicalRecord
	for rows.Next() {
		var (
			idStr, vendor, dateStr, amountStr, currency, category, provenance string
			confidence                                                        float64
		)
		if err := rows.Scan(&idStr, &vendor, &dateStr, &amountStr, &currency, &category, &confidence, &provenance); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse record id %q: %w", idStr, err)
		}
		txDate, err := entity.ParseYMD(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse tx_date %q: %w", dateStr, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amountStr, err)
		}
		out = append(out, entity.CanonicalRecord{
			ID:           id,
			Vendor:       vendor,
			TxDate:       txDate,
			Amount:       amount,
			CurrencyCode: currency,
			Category:     constants.Category(category),
			Confidence:   confidence,
			Provenance:   entity.Provenance(provenance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	s.logger.Info("store.load.ok", "records", len(out))
	return out, nil
}

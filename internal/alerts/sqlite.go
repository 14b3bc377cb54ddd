package alerts

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS price_alerts (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	product_id   TEXT NOT NULL,
	target_price TEXT NOT NULL,
	store        TEXT,
	created_at   TEXT NOT NULL
)`

// SQLiteStore persists alerts in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating alert database directory: %w", err)
		}
	}

	// WAL mode lets checks read while an alert is being added
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening alert database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating price_alerts table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Add implements Store.
func (s *SQLiteStore) Add(ctx context.Context, alert Alert) error {
	if err := alert.Validate(); err != nil {
		return err
	}

	var store sql.NullString
	if alert.Store != "" {
		store = sql.NullString{String: alert.Store, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO price_alerts (id, product_id, target_price, store, created_at) VALUES (?, ?, ?, ?, ?)`,
		alert.ID, alert.ProductID, alert.TargetPrice.String(), store, alert.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting alert: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, target_price, store, created_at FROM price_alerts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	out := make([]Alert, 0)
	for rows.Next() {
		var (
			a         Alert
			target    string
			store     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.ProductID, &target, &store, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		if a.TargetPrice, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("parsing target price of alert %s: %w", a.ID, err)
		}
		if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at of alert %s: %w", a.ID, err)
		}
		a.Store = store.String
		out = append(out, a)
	}
	return out, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

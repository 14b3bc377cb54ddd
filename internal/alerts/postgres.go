package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS price_alerts (
	seq          bigserial PRIMARY KEY,
	id           text NOT NULL UNIQUE,
	product_id   text NOT NULL,
	target_price numeric(14, 4) NOT NULL,
	store        text,
	created_at   timestamptz NOT NULL
)`

// PostgresStore persists alerts in PostgreSQL. The pool is owned by the caller.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the price_alerts table if needed.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("creating price_alerts table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Add implements Store.
func (s *PostgresStore) Add(ctx context.Context, alert Alert) error {
	if err := alert.Validate(); err != nil {
		return err
	}

	var store *string
	if alert.Store != "" {
		store = &alert.Store
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO price_alerts (id, product_id, target_price, store, created_at) VALUES ($1, $2, $3::numeric, $4, $5)`,
		alert.ID, alert.ProductID, alert.TargetPrice.String(), store, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting alert: %w", err)
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]Alert, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, product_id, target_price::text, store, created_at FROM price_alerts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	out := make([]Alert, 0)
	for rows.Next() {
		var (
			a         Alert
			target    string
			store     *string
			createdAt time.Time
		)
		if err := rows.Scan(&a.ID, &a.ProductID, &target, &store, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		if a.TargetPrice, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("parsing target price of alert %s: %w", a.ID, err)
		}
		if store != nil {
			a.Store = *store
		}
		a.CreatedAt = createdAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// Close implements Store. The pool is left open.
func (s *PostgresStore) Close() error {
	return nil
}

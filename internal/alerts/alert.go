// Package alerts registers target-price alerts and checks them against product
// observations.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/matching"
	"github.com/pricecomparator/price-service/internal/types"
)

// DefaultCurrency is used in messages for products without a currency.
const DefaultCurrency = "RON"

// ErrInvalidAlert wraps alert validation failures.
var ErrInvalidAlert = errors.New("invalid alert")

// Alert asks to be told when a product's list price drops to TargetPrice or below.
// An empty Store matches every store.
type Alert struct {
	ID          string
	ProductID   string
	TargetPrice decimal.Decimal
	Store       string
	CreatedAt   time.Time
}

// New builds a validated alert with a fresh id.
func New(productID string, targetPrice decimal.Decimal, store string, now time.Time) (Alert, error) {
	a := Alert{
		ID:          uuid.NewString(),
		ProductID:   strings.TrimSpace(productID),
		TargetPrice: targetPrice,
		Store:       strings.TrimSpace(store),
		CreatedAt:   now.UTC(),
	}
	if err := a.Validate(); err != nil {
		return Alert{}, err
	}
	return a, nil
}

// Validate checks the alert fields.
func (a Alert) Validate() error {
	if a.ProductID == "" {
		return fmt.Errorf("%w: productId is required", ErrInvalidAlert)
	}
	if !a.TargetPrice.IsPositive() {
		return fmt.Errorf("%w: targetPrice must be greater than zero", ErrInvalidAlert)
	}
	return nil
}

// Matches reports whether p triggers the alert.
func (a Alert) Matches(p types.Product) bool {
	return matching.Equal(a.ProductID, p.ProductID) &&
		matching.MatchesOptional(a.Store, p.Store) &&
		p.Price.LessThanOrEqual(a.TargetPrice)
}

// Message describes a triggered alert in the product's currency, or
// DefaultCurrency when the row carries none.
func (a Alert) Message(p types.Product) string {
	currency := strings.TrimSpace(p.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	return fmt.Sprintf("Product '%s' is now %s %s in '%s' (target was %s %s)",
		p.Name, p.Price.StringFixed(2), currency, p.Store, a.TargetPrice.StringFixed(2), currency)
}

// Check returns one message per (alert, product) pair that triggers, in alert
// order and then product order.
func Check(alerts []Alert, products []types.Product) []string {
	messages := make([]string, 0)
	for _, a := range alerts {
		for _, p := range products {
			if a.Matches(p) {
				messages = append(messages, a.Message(p))
			}
		}
	}
	return messages
}

// Store keeps registered alerts. Implementations must be safe for concurrent
// Add and List calls.
type Store interface {
	// Add registers an alert
	Add(ctx context.Context, alert Alert) error

	// List returns every alert in registration order
	List(ctx context.Context) ([]Alert, error)

	// Close releases resources held by the store
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

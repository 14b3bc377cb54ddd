package optimizer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OptimizeRequest contains the shopping list to allocate across stores.
type OptimizeRequest struct {
	Items []*BasketItem // Requested items, in request order
}

// BasketItem represents a single line of the shopping list.
type BasketItem struct {
	ProductID string          // Product identifier, matched case-insensitively
	Quantity  decimal.Decimal // Units requested (must be > 0; fractional kilograms allowed)
}

// Result is the outcome of a basket optimization.
type Result struct {
	Baskets    []*StoreBasket  // One basket per store, in order of first allocation
	Unresolved []string        // Requested product ids no store offers
	Total      decimal.Decimal // Sum of all basket totals
}

// StoreBasket groups the lines bought at one store.
type StoreBasket struct {
	Store string
	Lines []*BasketLine
	Total decimal.Decimal // Sum of line totals
}

// BasketLine is one product bought at one store.
type BasketLine struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal // Effective price per package
	Quantity  decimal.Decimal
	LineTotal decimal.Decimal // UnitPrice * Quantity, summed over merged request lines
}

// StoreCount returns the number of stores the result buys from.
func (r *Result) StoreCount() int {
	return len(r.Baskets)
}

// IsEmpty reports whether no requested item could be allocated.
func (r *Result) IsEmpty() bool {
	return len(r.Baskets) == 0
}

// Validate validates the optimization request and returns an error if invalid.
func (r *OptimizeRequest) Validate(maxItems int) error {
	if len(r.Items) < 1 {
		return ErrInvalidRequest{Field: "items", Reason: "must have at least one item", Index: -1}
	}
	if maxItems > 0 && len(r.Items) > maxItems {
		return ErrInvalidRequest{Field: "items", Reason: fmt.Sprintf("exceeds maximum of %d", maxItems), Index: -1}
	}
	for i, item := range r.Items {
		if item == nil || strings.TrimSpace(item.ProductID) == "" {
			return ErrInvalidRequest{Field: "productId", Reason: fmt.Sprintf("item at index %d has empty productId", i), Index: i}
		}
		if !item.Quantity.IsPositive() {
			return ErrInvalidRequest{Field: "quantity", Reason: fmt.Sprintf("item at index %d must have quantity greater than zero", i), Index: i}
		}
	}
	return nil
}

// ErrInvalidRequest is returned when the optimization request is invalid.
// Index is the offending item, or -1 for request-level problems.
type ErrInvalidRequest struct {
	Field  string
	Reason string
	Index  int
}

func (e ErrInvalidRequest) Error() string {
	return e.Field + ": " + e.Reason
}

// Package pricing resolves which discount applies to a product on a given day
// and what the product costs after it.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/matching"
	"github.com/pricecomparator/price-service/internal/types"
	"github.com/pricecomparator/price-service/internal/units"
)

type offerKey struct {
	productID string
	store     string
}

func keyOf(productID, store string) offerKey {
	return offerKey{productID: matching.Key(productID), store: matching.Key(store)}
}

// Resolver answers discount lookups over a fixed set of discount records.
// Records are indexed once by (productId, store), so each lookup scans only the
// discounts of that product in that store.
type Resolver struct {
	byOffer map[offerKey][]types.Discount
}

// NewResolver indexes discounts for lookup.
func NewResolver(discounts []types.Discount) *Resolver {
	idx := make(map[offerKey][]types.Discount, len(discounts))
	for _, d := range discounts {
		k := keyOf(d.ProductID, d.Store)
		idx[k] = append(idx[k], d)
	}
	return &Resolver{byOffer: idx}
}

// IsActive reports whether d is active on the calendar day of asOf.
func IsActive(d types.Discount, asOf types.Date) bool {
	return d.ActiveOn(asOf)
}

// BestActive returns the highest-percentage discount active for the product's
// store on asOf. The first one found wins a tie.
func (r *Resolver) BestActive(p types.Product, asOf types.Date) (types.Discount, bool) {
	var (
		best  types.Discount
		found bool
	)
	for _, d := range r.byOffer[keyOf(p.ProductID, p.Store)] {
		if !IsActive(d, asOf) {
			continue
		}
		if !found || d.PercentageOfDiscount.GreaterThan(best.PercentageOfDiscount) {
			best = d
			found = true
		}
	}
	return best, found
}

// EffectivePrice is the product price after its best active discount,
// or the list price when no discount applies.
func (r *Resolver) EffectivePrice(p types.Product, asOf types.Date) decimal.Decimal {
	if d, ok := r.BestActive(p, asOf); ok {
		return d.Apply(p.Price)
	}
	return p.Price
}

// EffectiveUnitPrice is EffectivePrice per kg, l or piece.
func (r *Resolver) EffectiveUnitPrice(p types.Product, asOf types.Date) units.UnitPrice {
	return units.PerBaseUnit(r.EffectivePrice(p, asOf), p.PackageUnit, p.PackageQuantity)
}

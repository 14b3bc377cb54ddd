package optimizer

import (
	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/matching"
	"github.com/pricecomparator/price-service/internal/pricing"
	"github.com/pricecomparator/price-service/internal/types"
)

// Offer is one store's listing of a product with its resolved price.
type Offer struct {
	Product        types.Product
	EffectivePrice decimal.Decimal
}

// PriceSource defines the interface for accessing offers.
// This allows the optimizer to be decoupled from how the catalog is loaded.
type PriceSource interface {
	// Offers returns every store's offer for productID, in catalog order.
	Offers(productID string) []Offer
}

// CatalogSource serves offers from a loaded product list, pricing each one
// through a discount resolver on a fixed day.
type CatalogSource struct {
	byProduct map[string][]types.Product
	resolver  *pricing.Resolver
	asOf      types.Date
}

// NewCatalogSource indexes products by case-folded product id.
func NewCatalogSource(products []types.Product, resolver *pricing.Resolver, asOf types.Date) *CatalogSource {
	idx := make(map[string][]types.Product)
	for _, p := range products {
		k := matching.Key(p.ProductID)
		idx[k] = append(idx[k], p)
	}
	return &CatalogSource{byProduct: idx, resolver: resolver, asOf: asOf}
}

// Offers implements PriceSource.
func (s *CatalogSource) Offers(productID string) []Offer {
	products := s.byProduct[matching.Key(productID)]
	offers := make([]Offer, 0, len(products))
	for _, p := range products {
		offers = append(offers, Offer{Product: p, EffectivePrice: s.resolver.EffectivePrice(p, s.asOf)})
	}
	return offers
}

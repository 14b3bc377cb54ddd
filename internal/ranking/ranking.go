// Package ranking orders products by value for money.
package ranking

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/matching"
	"github.com/pricecomparator/price-service/internal/pricing"
	"github.com/pricecomparator/price-service/internal/types"
	"github.com/pricecomparator/price-service/internal/units"
)

// ErrProductNotFound is returned when no catalog record has the requested product id.
var ErrProductNotFound = errors.New("product not found")

// ErrInvalidTop is returned for a non-positive result size.
var ErrInvalidTop = errors.New("top must be greater than zero")

var hundred = decimal.NewFromInt(100)

// Substitute is a candidate replacement for a product.
type Substitute struct {
	Product        types.Product
	EffectivePrice decimal.Decimal
	UnitPrice      units.UnitPrice // EffectivePrice per base unit
	BaseUnit       string
	SavingsPercent decimal.Decimal // 100 * (baseline - candidate) / baseline, zero when not computable
	Note           string          // empty unless the candidate is cheaper per unit
}

// BestValueByCategory returns the topN products of category with the lowest
// list price per base unit. Products with equal unit prices keep their catalog order.
func BestValueByCategory(products []types.Product, category string, topN int) ([]types.Product, error) {
	if topN <= 0 {
		return nil, ErrInvalidTop
	}

	type ranked struct {
		product   types.Product
		unitPrice units.UnitPrice
	}

	key := matching.Key(category)
	matches := make([]ranked, 0)
	for _, p := range products {
		if matching.Key(p.Category) == key {
			matches = append(matches, ranked{product: p, unitPrice: p.PricePerBaseUnit()})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].unitPrice.Less(matches[j].unitPrice)
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	out := make([]types.Product, len(matches))
	for i, m := range matches {
		out[i] = m.product
	}
	return out, nil
}

// BestValueMessage describes the best product of a ranking.
func BestValueMessage(best types.Product, category string) string {
	up := best.PricePerBaseUnit()
	return fmt.Sprintf("The product '%s' from store '%s' is the most cost-effective in the '%s' category (%.2f RON/%s).",
		best.Name, best.Store, category, up.Float64(), units.BaseUnit(best.PackageUnit))
}

// SubstitutesFor finds the topN products of the same category as productID
// with the lowest discounted price per base unit. The original product id is
// excluded; with sameBrand only products of the same brand qualify.
// Candidates are ranked by unit price alone, including ones that save nothing.
func SubstitutesFor(
	products []types.Product,
	resolver *pricing.Resolver,
	productID string,
	topN int,
	sameBrand bool,
	asOf types.Date,
) ([]Substitute, error) {
	if topN <= 0 {
		return nil, ErrInvalidTop
	}

	idKey := matching.Key(productID)
	var (
		original types.Product
		found    bool
	)
	for _, p := range products {
		if matching.Key(p.ProductID) == idKey {
			original, found = p, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	baseline := resolver.EffectiveUnitPrice(original, asOf)
	categoryKey := matching.Key(original.Category)
	brandKey := matching.Key(original.Brand)

	subs := make([]Substitute, 0)
	for _, p := range products {
		if matching.Key(p.ProductID) == idKey || matching.Key(p.Category) != categoryKey {
			continue
		}
		if sameBrand && matching.Key(p.Brand) != brandKey {
			continue
		}

		effective := resolver.EffectivePrice(p, asOf)
		unitPrice := units.PerBaseUnit(effective, p.PackageUnit, p.PackageQuantity)
		sub := Substitute{
			Product:        p,
			EffectivePrice: effective,
			UnitPrice:      unitPrice,
			BaseUnit:       units.BaseUnit(p.PackageUnit),
			SavingsPercent: savingsPercent(baseline, unitPrice),
		}
		if sub.SavingsPercent.IsPositive() {
			sub.Note = savingsNote(sub, baseline)
		}
		subs = append(subs, sub)
	}

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].UnitPrice.Less(subs[j].UnitPrice)
	})

	if len(subs) > topN {
		subs = subs[:topN]
	}
	return subs, nil
}

// savingsPercent is zero whenever either side is unbounded or the baseline is zero.
func savingsPercent(baseline, candidate units.UnitPrice) decimal.Decimal {
	if baseline.Unbounded || candidate.Unbounded || !baseline.Amount.IsPositive() {
		return decimal.Zero
	}
	return baseline.Amount.Sub(candidate.Amount).Mul(hundred).Div(baseline.Amount)
}

func savingsNote(sub Substitute, baseline units.UnitPrice) string {
	pct, _ := sub.SavingsPercent.Float64()
	return fmt.Sprintf("Save %.2f%% (%.2f RON/%s vs %.2f)", pct, sub.UnitPrice.Float64(), sub.BaseUnit, baseline.Float64())
}

// Package history reconstructs the discount history of a product from every
// discount snapshot.
package history

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/matching"
	"github.com/pricecomparator/price-service/internal/types"
)

// ErrInvalidRange is returned when From is after To.
var ErrInvalidRange = errors.New("from must not be after to")

// Filter narrows a history query. Blank strings and zero dates impose no constraint.
type Filter struct {
	Store    string
	Brand    string
	Category string
	From     types.Date // inclusive
	To       types.Date // inclusive
}

// Validate rejects inverted date ranges.
func (f Filter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return ErrInvalidRange
	}
	return nil
}

func (f Filter) matches(d types.Discount) bool {
	if !matching.MatchesOptional(f.Store, d.Store) ||
		!matching.MatchesOptional(f.Brand, d.Brand) ||
		!matching.MatchesOptional(f.Category, d.Category) {
		return false
	}
	if !f.From.IsZero() && d.SnapshotDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && d.SnapshotDate.After(f.To) {
		return false
	}
	return true
}

// Entry is one discount record for the product, as published in one snapshot.
// BasePrice and EffectivePrice are set when the same store's product snapshot
// of the same day lists the product.
type Entry struct {
	ProductID            string
	ProductName          string
	Brand                string
	Category             string
	Date                 types.Date // snapshot date
	Store                string
	FromDate             types.Date
	ToDate               types.Date
	PercentageOfDiscount decimal.Decimal
	BasePrice            *decimal.Decimal
	EffectivePrice       *decimal.Decimal
}

type priceKey struct {
	productID string
	store     string
	date      types.Date
}

// PriceHistory returns every discount record for productID that passes filter,
// ordered by snapshot date. Records repeated across snapshots are all kept.
func PriceHistory(discounts []types.Discount, products []types.Product, productID string, filter Filter) ([]Entry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	idKey := matching.Key(productID)

	prices := make(map[priceKey]decimal.Decimal)
	for _, p := range products {
		if matching.Key(p.ProductID) != idKey {
			continue
		}
		k := priceKey{productID: idKey, store: matching.Key(p.Store), date: p.SnapshotDate}
		if _, ok := prices[k]; !ok {
			prices[k] = p.Price
		}
	}

	entries := make([]Entry, 0)
	for _, d := range discounts {
		if matching.Key(d.ProductID) != idKey || !filter.matches(d) {
			continue
		}

		e := Entry{
			ProductID:            d.ProductID,
			ProductName:          d.Name,
			Brand:                d.Brand,
			Category:             d.Category,
			Date:                 d.SnapshotDate,
			Store:                d.Store,
			FromDate:             d.FromDate,
			ToDate:               d.ToDate,
			PercentageOfDiscount: d.PercentageOfDiscount,
		}
		if base, ok := prices[priceKey{productID: idKey, store: matching.Key(d.Store), date: d.SnapshotDate}]; ok {
			effective := d.Apply(base)
			e.BasePrice = &base
			e.EffectivePrice = &effective
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

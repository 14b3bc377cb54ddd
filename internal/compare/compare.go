// Package compare lines up two product snapshots and reports which store is cheaper.
package compare

import (
	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/matching"
	"github.com/pricecomparator/price-service/internal/types"
)

// Cheapest identifies the cheaper side of a comparison.
type Cheapest string

const (
	CheapestStore1 Cheapest = "store1"
	CheapestStore2 Cheapest = "store2"
	CheapestEqual  Cheapest = "equal"
)

// Row compares one product present in both snapshots.
type Row struct {
	ProductID   string
	ProductName string
	PriceStore1 decimal.Decimal
	PriceStore2 decimal.Decimal
	Cheapest    Cheapest
}

// Products compares list prices of the products found in both snapshots,
// in the order of the first snapshot. Product ids match case-insensitively;
// when an id repeats in the second snapshot, its first record is used.
func Products(store1, store2 []types.Product) []Row {
	byID := make(map[string]types.Product, len(store2))
	for _, p := range store2 {
		k := matching.Key(p.ProductID)
		if _, ok := byID[k]; !ok {
			byID[k] = p
		}
	}

	rows := make([]Row, 0)
	for _, p1 := range store1 {
		p2, ok := byID[matching.Key(p1.ProductID)]
		if !ok {
			continue
		}
		rows = append(rows, Row{
			ProductID:   p1.ProductID,
			ProductName: p1.Name,
			PriceStore1: p1.Price,
			PriceStore2: p2.Price,
			Cheapest:    cheapest(p1.Price, p2.Price),
		})
	}
	return rows
}

func cheapest(a, b decimal.Decimal) Cheapest {
	switch a.Cmp(b) {
	case -1:
		return CheapestStore1
	case 1:
		return CheapestStore2
	default:
		return CheapestEqual
	}
}

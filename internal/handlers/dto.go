package handlers

import (
	"time"

	"github.com/pricecomparator/price-service/internal/alerts"
	"github.com/pricecomparator/price-service/internal/catalog"
	"github.com/pricecomparator/price-service/internal/compare"
	"github.com/pricecomparator/price-service/internal/history"
	"github.com/pricecomparator/price-service/internal/optimizer"
	"github.com/pricecomparator/price-service/internal/ranking"
	"github.com/pricecomparator/price-service/internal/types"
	"github.com/pricecomparator/price-service/internal/units"
)

// ============================================================================
// Catalog
// ============================================================================

// Product is a product snapshot row
type Product struct {
	ProductID       string  `json:"productId" jsonschema:"required"`
	ProductName     string  `json:"productName" jsonschema:"required"`
	ProductCategory string  `json:"productCategory"`
	Brand           string  `json:"brand"`
	PackageQuantity float64 `json:"packageQuantity" jsonschema:"exclusiveMinimum=0"`
	PackageUnit     string  `json:"packageUnit"`
	Price           float64 `json:"price" jsonschema:"minimum=0"`
	Currency        string  `json:"currency"`
	Store           string  `json:"store" jsonschema:"required"`
	SnapshotDate    string  `json:"snapshotDate,omitempty" jsonschema:"format=date"`
}

// Discount is a discount snapshot row
type Discount struct {
	ProductID            string  `json:"productId" jsonschema:"required"`
	ProductName          string  `json:"productName"`
	Brand                string  `json:"brand"`
	PackageQuantity      float64 `json:"packageQuantity"`
	PackageUnit          string  `json:"packageUnit"`
	ProductCategory      string  `json:"productCategory"`
	FromDate             string  `json:"fromDate" jsonschema:"format=date"`
	ToDate               string  `json:"toDate" jsonschema:"format=date"`
	PercentageOfDiscount float64 `json:"percentageOfDiscount" jsonschema:"exclusiveMinimum=0,maximum=100"`
	Store                string  `json:"store" jsonschema:"required"`
	SnapshotDate         string  `json:"snapshotDate" jsonschema:"format=date"`
}

// ProductValue is a product ranked by price per base unit
type ProductValue struct {
	ProductID    string   `json:"productId" jsonschema:"required"`
	Name         string   `json:"name" jsonschema:"required"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	Store        string   `json:"store" jsonschema:"required"`
	Price        float64  `json:"price"`
	ValuePerUnit *float64 `json:"valuePerUnit"` // null when the package quantity is zero
	Unit         string   `json:"unit"`
	Note         string   `json:"note,omitempty"`
}

// BestValueResponse is the category ranking
type BestValueResponse struct {
	Recommendation string         `json:"recommendation" jsonschema:"required"`
	Products       []ProductValue `json:"products" jsonschema:"required"`
}

// ============================================================================
// Basket
// ============================================================================

// BasketItemRequest is one line of the shopping list
type BasketItemRequest struct {
	ProductID string  `json:"productId" jsonschema:"required"`
	Quantity  float64 `json:"quantity" jsonschema:"required,exclusiveMinimum=0"`
}

// BasketLine is one product bought at one store
type BasketLine struct {
	ProductID  string  `json:"productId" jsonschema:"required"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unitPrice" jsonschema:"required"`
	Quantity   float64 `json:"quantity" jsonschema:"required"`
	TotalPrice float64 `json:"totalPrice" jsonschema:"required"`
}

// StoreBasket groups the lines bought at one store
type StoreBasket struct {
	Store      string       `json:"store" jsonschema:"required"`
	Products   []BasketLine `json:"products" jsonschema:"required"`
	TotalPrice float64      `json:"totalPrice" jsonschema:"required"`
}

// OptimizeResponse is the basket split across stores
type OptimizeResponse struct {
	Recommendation string        `json:"recommendation" jsonschema:"required"`
	Baskets        []StoreBasket `json:"baskets" jsonschema:"required"`
	Unresolved     []string      `json:"unresolved"`
	TotalPrice     float64       `json:"totalPrice" jsonschema:"required"`
}

// ============================================================================
// Discounts
// ============================================================================

// PriceHistoryEntry is one published discount of a product
type PriceHistoryEntry struct {
	ProductID            string   `json:"productId" jsonschema:"required"`
	ProductName          string   `json:"productName"`
	Brand                string   `json:"brand"`
	Category             string   `json:"category"`
	Date                 string   `json:"date" jsonschema:"required,format=date"`
	Store                string   `json:"store" jsonschema:"required"`
	FromDate             string   `json:"fromDate" jsonschema:"format=date"`
	ToDate               string   `json:"toDate" jsonschema:"format=date"`
	PercentageOfDiscount float64  `json:"percentageOfDiscount"`
	BasePrice            *float64 `json:"basePrice,omitempty"`
	EffectivePrice       *float64 `json:"effectivePrice,omitempty"`
}

// ============================================================================
// Compare
// ============================================================================

// CompareRow compares one product present in both snapshots
type CompareRow struct {
	ProductID     string  `json:"productId" jsonschema:"required"`
	ProductName   string  `json:"productName"`
	PriceStore1   float64 `json:"priceStore1"`
	PriceStore2   float64 `json:"priceStore2"`
	CheapestStore string  `json:"cheapestStore" jsonschema:"enum=store1,enum=store2,enum=equal"`
}

// ============================================================================
// Alerts
// ============================================================================

// RegisterAlertRequest asks to be notified when a product drops to TargetPrice
type RegisterAlertRequest struct {
	ProductID   string  `json:"productId" jsonschema:"required"`
	TargetPrice float64 `json:"targetPrice" jsonschema:"required,exclusiveMinimum=0"`
	Store       string  `json:"store,omitempty"`
}

// Alert is a registered price alert
type Alert struct {
	ID          string  `json:"id" jsonschema:"required"`
	ProductID   string  `json:"productId" jsonschema:"required"`
	TargetPrice float64 `json:"targetPrice" jsonschema:"required"`
	Store       string  `json:"store,omitempty"`
	CreatedAt   string  `json:"createdAt" jsonschema:"format=date-time"`
}

// CheckAlertsResponse lists the triggered alert messages
type CheckAlertsResponse struct {
	Messages []string `json:"messages" jsonschema:"required"`
}

// ============================================================================
// Mapping
// ============================================================================

func dateString(d types.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func unitPricePtr(u units.UnitPrice) *float64 {
	if u.Unbounded {
		return nil
	}
	v := u.Float64()
	return &v
}

func toProducts(products []types.Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = Product{
			ProductID:       p.ProductID,
			ProductName:     p.Name,
			ProductCategory: p.Category,
			Brand:           p.Brand,
			PackageQuantity: p.PackageQuantity.InexactFloat64(),
			PackageUnit:     p.PackageUnit,
			Price:           p.Price.InexactFloat64(),
			Currency:        p.Currency,
			Store:           p.Store,
			SnapshotDate:    dateString(p.SnapshotDate),
		}
	}
	return out
}

func toDiscounts(discounts []types.Discount) []Discount {
	out := make([]Discount, len(discounts))
	for i, d := range discounts {
		out[i] = Discount{
			ProductID:            d.ProductID,
			ProductName:          d.Name,
			Brand:                d.Brand,
			PackageQuantity:      d.PackageQuantity.InexactFloat64(),
			PackageUnit:          d.PackageUnit,
			ProductCategory:      d.Category,
			FromDate:             dateString(d.FromDate),
			ToDate:               dateString(d.ToDate),
			PercentageOfDiscount: d.PercentageOfDiscount.InexactFloat64(),
			Store:                d.Store,
			SnapshotDate:         dateString(d.SnapshotDate),
		}
	}
	return out
}

func toBestValue(bv *catalog.BestValue) BestValueResponse {
	resp := BestValueResponse{Recommendation: bv.Recommendation, Products: make([]ProductValue, len(bv.Products))}
	for i, p := range bv.Products {
		resp.Products[i] = ProductValue{
			ProductID:    p.ProductID,
			Name:         p.Name,
			Brand:        p.Brand,
			Category:     p.Category,
			Store:        p.Store,
			Price:        p.Price.InexactFloat64(),
			ValuePerUnit: unitPricePtr(p.PricePerBaseUnit()),
			Unit:         units.BaseUnit(p.PackageUnit),
		}
	}
	return resp
}

func toSubstitutes(subs []ranking.Substitute) []ProductValue {
	out := make([]ProductValue, len(subs))
	for i, s := range subs {
		out[i] = ProductValue{
			ProductID:    s.Product.ProductID,
			Name:         s.Product.Name,
			Brand:        s.Product.Brand,
			Category:     s.Product.Category,
			Store:        s.Product.Store,
			Price:        s.EffectivePrice.InexactFloat64(),
			ValuePerUnit: unitPricePtr(s.UnitPrice),
			Unit:         s.BaseUnit,
			Note:         s.Note,
		}
	}
	return out
}

func toOptimizeResponse(res *optimizer.Result) OptimizeResponse {
	resp := OptimizeResponse{
		Recommendation: res.Recommendation(),
		Baskets:        make([]StoreBasket, len(res.Baskets)),
		Unresolved:     res.Unresolved,
		TotalPrice:     res.Total.InexactFloat64(),
	}
	if resp.Unresolved == nil {
		resp.Unresolved = []string{}
	}
	for i, b := range res.Baskets {
		lines := make([]BasketLine, len(b.Lines))
		for j, l := range b.Lines {
			lines[j] = BasketLine{
				ProductID:  l.ProductID,
				Name:       l.Name,
				UnitPrice:  l.UnitPrice.InexactFloat64(),
				Quantity:   l.Quantity.InexactFloat64(),
				TotalPrice: l.LineTotal.InexactFloat64(),
			}
		}
		resp.Baskets[i] = StoreBasket{Store: b.Store, Products: lines, TotalPrice: b.Total.InexactFloat64()}
	}
	return resp
}

func toHistory(entries []history.Entry) []PriceHistoryEntry {
	out := make([]PriceHistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = PriceHistoryEntry{
			ProductID:            e.ProductID,
			ProductName:          e.ProductName,
			Brand:                e.Brand,
			Category:             e.Category,
			Date:                 dateString(e.Date),
			Store:                e.Store,
			FromDate:             dateString(e.FromDate),
			ToDate:               dateString(e.ToDate),
			PercentageOfDiscount: e.PercentageOfDiscount.InexactFloat64(),
		}
		if e.BasePrice != nil {
			v := e.BasePrice.InexactFloat64()
			out[i].BasePrice = &v
		}
		if e.EffectivePrice != nil {
			v := e.EffectivePrice.InexactFloat64()
			out[i].EffectivePrice = &v
		}
	}
	return out
}

func toCompareRows(rows []compare.Row) []CompareRow {
	out := make([]CompareRow, len(rows))
	for i, r := range rows {
		out[i] = CompareRow{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			PriceStore1:   r.PriceStore1.InexactFloat64(),
			PriceStore2:   r.PriceStore2.InexactFloat64(),
			CheapestStore: string(r.Cheapest),
		}
	}
	return out
}

func toAlert(a alerts.Alert) Alert {
	return Alert{
		ID:          a.ID,
		ProductID:   a.ProductID,
		TargetPrice: a.TargetPrice.InexactFloat64(),
		Store:       a.Store,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/units"
)

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// SnapshotKind distinguishes product snapshots from discount snapshots
type SnapshotKind string

const (
	KindProducts  SnapshotKind = "products"
	KindDiscounts SnapshotKind = "discounts"
)

// Product is one row of one store's price snapshot.
// ProductID is not unique across stores: the same id appears once per store that sells it.
type Product struct {
	ProductID       string          `json:"productId"`
	Name            string          `json:"productName"`
	Category        string          `json:"productCategory"`
	Brand           string          `json:"brand"`
	PackageQuantity decimal.Decimal `json:"packageQuantity"`
	PackageUnit     string          `json:"packageUnit"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	Store           string          `json:"store"`
	SnapshotDate    Date            `json:"snapshotDate"`
}

// PricePerBaseUnit returns the undiscounted price per kg, l or piece.
func (p Product) PricePerBaseUnit() units.UnitPrice {
	return units.PerBaseUnit(p.Price, p.PackageUnit, p.PackageQuantity)
}

// Discount is one row of one store's discount snapshot.
type Discount struct {
	ProductID            string          `json:"productId"`
	Name                 string          `json:"productName"`
	Brand                string          `json:"brand"`
	PackageQuantity      decimal.Decimal `json:"packageQuantity"`
	PackageUnit          string          `json:"packageUnit"`
	Category             string          `json:"productCategory"`
	FromDate             Date            `json:"fromDate"`
	ToDate               Date            `json:"toDate"`
	PercentageOfDiscount decimal.Decimal `json:"percentageOfDiscount"`
	Store                string          `json:"store"`
	SnapshotDate         Date            `json:"snapshotDate"`
}

// ActiveOn reports whether day falls in the half-open interval [FromDate, ToDate).
func (d Discount) ActiveOn(day Date) bool {
	return !day.Before(d.FromDate) && day.Before(d.ToDate)
}

// Apply returns price reduced by the discount percentage.
func (d Discount) Apply(price decimal.Decimal) decimal.Decimal {
	return ApplyPercentage(price, d.PercentageOfDiscount)
}

var hundred = decimal.NewFromInt(100)

// ApplyPercentage computes price * (1 - pct/100)
func ApplyPercentage(price, pct decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Sub(pct)).Div(hundred)
}

// SnapshotFile describes one snapshot file. Store and Date come from the file name
// and are the only source of truth for which store and day the records belong to.
type SnapshotFile struct {
	Key   string       `json:"key"`
	Store string       `json:"store"`
	Date  Date         `json:"date"`
	Kind  SnapshotKind `json:"kind"`
}

// ParseError describes a rejected snapshot row
type ParseError struct {
	RowNumber     int    `json:"rowNumber"`
	Field         string `json:"field,omitempty"`
	Message       string `json:"message"`
	OriginalValue string `json:"originalValue,omitempty"`
}

// ParseResult holds the typed rows of one snapshot file plus the rows that were skipped.
type ParseResult[T any] struct {
	File      SnapshotFile `json:"file"`
	Rows      []T          `json:"rows"`
	Errors    []ParseError `json:"errors,omitempty"`
	TotalRows int          `json:"totalRows"`
	ValidRows int          `json:"validRows"`
}

// Clock returns the current time; query operations evaluate "now" through it.
type Clock func() time.Time

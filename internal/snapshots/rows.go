package snapshots

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/parsers/csv"
	"github.com/pricecomparator/price-service/internal/types"
)

// Column layout of product snapshots:
// product_id;product_name;product_category;brand;package_quantity;package_unit;price;currency
const (
	productFieldCount = 8

	colProductID       = 0
	colProductName     = 1
	colProductCategory = 2
	colProductBrand    = 3
	colProductQuantity = 4
	colProductUnit     = 5
	colProductPrice    = 6
	colProductCurrency = 7
)

// Column layout of discount snapshots:
// product_id;product_name;brand;package_quantity;package_unit;product_category;from_date;to_date;percentage_of_discount
const (
	discountFieldCount = 9

	colDiscountProductID  = 0
	colDiscountName       = 1
	colDiscountBrand      = 2
	colDiscountQuantity   = 3
	colDiscountUnit       = 4
	colDiscountCategory   = 5
	colDiscountFrom       = 6
	colDiscountTo         = 7
	colDiscountPercentage = 8
)

var hundred = decimal.NewFromInt(100)

// rowError is a single rejected field; it becomes a types.ParseError.
type rowError struct {
	field string
	value string
	msg   string
}

func (e *rowError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.msg)
}

// ParseProducts turns the content of a product snapshot into products.
// Each row is mapped on its own; a bad row is recorded and skipped.
func ParseProducts(content []byte, file types.SnapshotFile) (*types.ParseResult[types.Product], error) {
	table, err := csv.NewParser(csv.SnapshotOptions()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Key, err)
	}

	result := &types.ParseResult[types.Product]{File: file, Rows: make([]types.Product, 0, len(table.Records))}
	for _, rec := range table.Records {
		result.TotalRows++
		p, rerr := mapProduct(rec.Fields, file)
		if rerr != nil {
			result.Errors = append(result.Errors, toParseError(rec, rerr))
			continue
		}
		result.Rows = append(result.Rows, p)
		result.ValidRows++
	}

	logSkipped(file, result.Errors)
	return result, nil
}

// ParseDiscounts turns the content of a discount snapshot into discounts.
func ParseDiscounts(content []byte, file types.SnapshotFile) (*types.ParseResult[types.Discount], error) {
	table, err := csv.NewParser(csv.SnapshotOptions()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Key, err)
	}

	result := &types.ParseResult[types.Discount]{File: file, Rows: make([]types.Discount, 0, len(table.Records))}
	for _, rec := range table.Records {
		result.TotalRows++
		d, rerr := mapDiscount(rec.Fields, file)
		if rerr != nil {
			result.Errors = append(result.Errors, toParseError(rec, rerr))
			continue
		}
		result.Rows = append(result.Rows, d)
		result.ValidRows++
	}

	logSkipped(file, result.Errors)
	return result, nil
}

func mapProduct(fields []string, file types.SnapshotFile) (types.Product, *rowError) {
	if len(fields) != productFieldCount {
		return types.Product{}, &rowError{field: "row", msg: fmt.Sprintf("expected %d fields, got %d", productFieldCount, len(fields))}
	}
	if fields[colProductID] == "" {
		return types.Product{}, &rowError{field: "product_id", msg: "empty"}
	}

	qty, err := csv.ParseDecimal(fields[colProductQuantity])
	if err != nil {
		return types.Product{}, &rowError{field: "package_quantity", value: fields[colProductQuantity], msg: err.Error()}
	}
	if !qty.IsPositive() {
		return types.Product{}, &rowError{field: "package_quantity", value: fields[colProductQuantity], msg: "must be greater than zero"}
	}

	price, err := csv.ParseDecimal(fields[colProductPrice])
	if err != nil {
		return types.Product{}, &rowError{field: "price", value: fields[colProductPrice], msg: err.Error()}
	}
	if price.IsNegative() {
		return types.Product{}, &rowError{field: "price", value: fields[colProductPrice], msg: "must not be negative"}
	}

	return types.Product{
		ProductID:       fields[colProductID],
		Name:            fields[colProductName],
		Category:        fields[colProductCategory],
		Brand:           fields[colProductBrand],
		PackageQuantity: qty,
		PackageUnit:     fields[colProductUnit],
		Price:           price,
		Currency:        fields[colProductCurrency],
		Store:           file.Store,
		SnapshotDate:    file.Date,
	}, nil
}

func mapDiscount(fields []string, file types.SnapshotFile) (types.Discount, *rowError) {
	if len(fields) != discountFieldCount {
		return types.Discount{}, &rowError{field: "row", msg: fmt.Sprintf("expected %d fields, got %d", discountFieldCount, len(fields))}
	}
	if fields[colDiscountProductID] == "" {
		return types.Discount{}, &rowError{field: "product_id", msg: "empty"}
	}

	qty, err := csv.ParseDecimal(fields[colDiscountQuantity])
	if err != nil {
		return types.Discount{}, &rowError{field: "package_quantity", value: fields[colDiscountQuantity], msg: err.Error()}
	}
	if !qty.IsPositive() {
		return types.Discount{}, &rowError{field: "package_quantity", value: fields[colDiscountQuantity], msg: "must be greater than zero"}
	}

	from, err := csv.ParseDate(fields[colDiscountFrom])
	if err != nil {
		return types.Discount{}, &rowError{field: "from_date", value: fields[colDiscountFrom], msg: err.Error()}
	}
	to, err := csv.ParseDate(fields[colDiscountTo])
	if err != nil {
		return types.Discount{}, &rowError{field: "to_date", value: fields[colDiscountTo], msg: err.Error()}
	}
	fromDate, toDate := types.DateOf(from), types.DateOf(to)
	if !fromDate.Before(toDate) {
		return types.Discount{}, &rowError{field: "to_date", value: fields[colDiscountTo], msg: "must be after from_date"}
	}

	pct, err := csv.ParseDecimal(fields[colDiscountPercentage])
	if err != nil {
		return types.Discount{}, &rowError{field: "percentage_of_discount", value: fields[colDiscountPercentage], msg: err.Error()}
	}
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		return types.Discount{}, &rowError{field: "percentage_of_discount", value: fields[colDiscountPercentage], msg: "must be in (0, 100]"}
	}

	return types.Discount{
		ProductID:            fields[colDiscountProductID],
		Name:                 fields[colDiscountName],
		Brand:                fields[colDiscountBrand],
		PackageQuantity:      qty,
		PackageUnit:          fields[colDiscountUnit],
		Category:             fields[colDiscountCategory],
		FromDate:             fromDate,
		ToDate:               toDate,
		PercentageOfDiscount: pct,
		Store:                file.Store,
		SnapshotDate:         file.Date,
	}, nil
}

func toParseError(rec csv.Record, e *rowError) types.ParseError {
	return types.ParseError{
		RowNumber:     rec.RowNumber,
		Field:         e.field,
		Message:       e.msg,
		OriginalValue: e.value,
	}
}

func logSkipped(file types.SnapshotFile, errs []types.ParseError) {
	for _, e := range errs {
		log.Warn().
			Str("component", "snapshots").
			Str("file", file.Key).
			Int("row", e.RowNumber).
			Str("field", e.Field).
			Str("value", e.OriginalValue).
			Msg("Skipping malformed row: " + e.Message)
	}
}

package optimizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecomparator/price-service/internal/pricing"
	"github.com/pricecomparator/price-service/internal/types"
)

var today = types.NewDate(2025, time.May, 3)

func product(id, name, store, price string) types.Product {
	return types.Product{
		ProductID:       id,
		Name:            name,
		Category:        "lactate",
		PackageQuantity: decimal.NewFromInt(1),
		PackageUnit:     "l",
		Price:           decimal.RequireFromString(price),
		Currency:        "RON",
		Store:           store,
	}
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newOptimizer(products []types.Product, discounts []types.Discount) *BasketOptimizer {
	source := NewCatalogSource(products, pricing.NewResolver(discounts), today)
	return NewBasketOptimizer(source, Defaults(), NewMetricsRecorder())
}

func TestOptimizePicksCheapestStore(t *testing.T) {
	o := newOptimizer([]types.Product{
		product("P001", "lapte", "lidl", "10.00"),
		product("P001", "lapte", "kaufland", "9.50"),
	}, nil)

	res, err := o.Optimize(context.Background(), &OptimizeRequest{Items: []*BasketItem{
		{ProductID: "P001", Quantity: qty("2")},
	}})
	require.NoError(t, err)

	require.Len(t, res.Baskets, 1)
	assert.Equal(t, "kaufland", res.Baskets[0].Store)
	assert.True(t, qty("19.00").Equal(res.Baskets[0].Total))
	assert.True(t, qty("19.00").Equal(res.Total))
	assert.Equal(t, "Buy from 1 store(s) for a total of 19.00 RON.", res.Recommendation())
}

func TestOptimizeUsesDiscountedPrice(t *testing.T) {
	o := newOptimizer([]types.Product{
		product("P001", "lapte", "lidl", "10.00"),
		product("P001", "lapte", "kaufland", "9.50"),
	}, []types.Discount{{
		ProductID:            "P001",
		Store:                "lidl",
		FromDate:             today.AddDays(-1),
		ToDate:               today.AddDays(3),
		PercentageOfDiscount: decimal.NewFromInt(20),
	}})

	res, err := o.Optimize(context.Background(), &OptimizeRequest{Items: []*BasketItem{
		{ProductID: "p001", Quantity: qty("1")},
	}})
	require.NoError(t, err)

	require.Len(t, res.Baskets, 1)
	assert.Equal(t, "lidl", res.Baskets[0].Store)
	assert.True(t, qty("8").Equal(res.Baskets[0].Lines[0].UnitPrice))
}

func TestOptimizeTieGoesToFirstOffer(t *testing.T) {
	o := newOptimizer([]types.Product{
		product("P001", "lapte", "lidl", "9.50"),
		product("P001", "lapte", "kaufland", "9.50"),
	}, nil)

	res, err := o.Optimize(context.Background(), &OptimizeRequest{Items: []*BasketItem{
		{ProductID: "P001", Quantity: qty("1")},
	}})
	require.NoError(t, err)
	assert.Equal(t, "lidl", res.Baskets[0].Store)
}

func TestOptimizeMergesRepeatedItems(t *testing.T) {
	o := newOptimizer([]types.Product{
		product("P001", "lapte", "lidl", "10.00"),
		product("P002", "paine", "profi", "3.00"),
	}, nil)

	res, err := o.Optimize(context.Background(), &OptimizeRequest{Items: []*BasketItem{
		{ProductID: "P001", Quantity: qty("1")},
		{ProductID: "P002", Quantity: qty("2")},
		{ProductID: "p001", Quantity: qty("1.5")},
	}})
	require.NoError(t, err)

	require.Len(t, res.Baskets, 2)
	lidl := res.Baskets[0]
	assert.Equal(t, "lidl", lidl.Store)
	require.Len(t, lidl.Lines, 1)
	assert.True(t, qty("2.5").Equal(lidl.Lines[0].Quantity))
	assert.True(t, qty("25").Equal(lidl.Lines[0].LineTotal))
	assert.True(t, qty("31").Equal(res.Total))
}

func TestOptimizeTotalsAddUp(t *testing.T) {
	products := []types.Product{
		product("P001", "lapte", "lidl", "10.00"),
		product("P001", "lapte", "kaufland", "9.50"),
		product("P002", "paine", "lidl", "2.99"),
		product("P002", "paine", "profi", "3.49"),
		product("P003", "oua", "profi", "12.00"),
	}
	o := newOptimizer(products, nil)

	res, err := o.Optimize(context.Background(), &OptimizeRequest{Items: []*BasketItem{
		{ProductID: "P001", Quantity: qty("3")},
		{ProductID: "P002", Quantity: qty("2")},
		{ProductID: "P003", Quantity: qty("0.5")},
		{ProductID: "P404", Quantity: qty("1")},
	}})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, b := range res.Baskets {
		lineSum := decimal.Zero
		for _, l := range b.Lines {
			lineSum = lineSum.Add(l.LineTotal)
		}
		assert.True(t, lineSum.Equal(b.Total), "basket %s", b.Store)
		sum = sum.Add(b.Total)
	}
	// 3 x 9.50 + 2 x 2.99 + 0.5 x 12.00
	assert.True(t, qty("40.48").Equal(sum), "got %s", sum)
	assert.True(t, sum.Equal(res.Total))
	assert.Equal(t, []string{"P404"}, res.Unresolved)
}

func TestOptimizeNothingResolvable(t *testing.T) {
	o := newOptimizer(nil, nil)

	res, err := o.Optimize(context.Background(), &OptimizeRequest{Items: []*BasketItem{
		{ProductID: "P001", Quantity: qty("1")},
	}})
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.Equal(t, "No products found for your cart.", res.Recommendation())
}

func TestOptimizeRejectsInvalidRequests(t *testing.T) {
	o := newOptimizer([]types.Product{product("P001", "lapte", "lidl", "10.00")}, nil)

	tests := []struct {
		name  string
		items []*BasketItem
		field string
	}{
		{"empty basket", nil, "items"},
		{"zero quantity", []*BasketItem{{ProductID: "P001", Quantity: qty("0")}}, "quantity"},
		{"negative quantity", []*BasketItem{{ProductID: "P001", Quantity: qty("1")}, {ProductID: "P001", Quantity: qty("-1")}}, "quantity"},
		{"blank product", []*BasketItem{{ProductID: "  ", Quantity: qty("1")}}, "productId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Optimize(context.Background(), &OptimizeRequest{Items: tt.items})
			require.Error(t, err)

			var invalid ErrInvalidRequest
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestOptimizeRejectsOversizedBasket(t *testing.T) {
	source := NewCatalogSource(nil, pricing.NewResolver(nil), today)
	o := NewBasketOptimizer(source, &Config{MaxBasketItems: 1}, nil)

	_, err := o.Optimize(context.Background(), &OptimizeRequest{Items: []*BasketItem{
		{ProductID: "P001", Quantity: qty("1")},
		{ProductID: "P002", Quantity: qty("1")},
	}})
	var invalid ErrInvalidRequest
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "items", invalid.Field)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
	assert.Error(t, (&Config{MaxBasketItems: 0}).Validate())
}

package ranking

import (
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

func product(id, store, category, brand, qty, unit, price string) types.Product {
	return types.Product{
		ProductID:       id,
		Name:            "name-" + id,
		Category:        category,
		Brand:           brand,
		PackageQuantity: decimal.RequireFromString(qty),
		PackageUnit:     unit,
		Price:           decimal.RequireFromString(price),
		Currency:        "RON",
		Store:           store,
	}
}

func catalog() []types.Product {
	return []types.Product{
		product("P001", "lidl", "lactate", "Zuzu", "1", "l", "10.00"),       // 10/l
		product("P002", "lidl", "Lactate", "Napolact", "500", "ml", "4.00"), // 8/l
		product("P003", "profi", "lactate", "Zuzu", "2", "l", "16.00"),      // 8/l
		product("P004", "profi", "lactate", "Zuzu", "1", "xyz", "12.00"),    // 12/unknown
		product("P005", "profi", "panificatie", "Boromir", "500", "g", "3.00"),
	}
}

func TestBestValueByCategory(t *testing.T) {
	got, err := BestValueByCategory(catalog(), "LACTATE", 3)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "P002", got[0].ProductID)
	assert.Equal(t, "P003", got[1].ProductID)
	assert.Equal(t, "P001", got[2].ProductID)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].PricePerBaseUnit().Less(got[i-1].PricePerBaseUnit()))
	}
}

func TestBestValueByCategoryEmptyAndInvalid(t *testing.T) {
	got, err := BestValueByCategory(catalog(), "bauturi", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = BestValueByCategory(catalog(), "lactate", 0)
	assert.ErrorIs(t, err, ErrInvalidTop)
}

func TestBestValueMessage(t *testing.T) {
	msg := BestValueMessage(catalog()[1], "lactate")
	assert.Equal(t, "The product 'name-P002' from store 'lidl' is the most cost-effective in the 'lactate' category (8.00 RON/l).", msg)
}

func TestSubstitutesFor(t *testing.T) {
	resolver := pricing.NewResolver(nil)

	subs, err := SubstitutesFor(catalog(), resolver, "p001", 3, false, today)
	require.NoError(t, err)

	require.Len(t, subs, 3)
	assert.Equal(t, "P002", subs[0].Product.ProductID)
	assert.Equal(t, "P003", subs[1].Product.ProductID)
	assert.Equal(t, "P004", subs[2].Product.ProductID)

	assert.True(t, decimal.NewFromInt(20).Equal(subs[0].SavingsPercent))
	assert.Equal(t, "Save 20.00% (8.00 RON/l vs 10.00)", subs[0].Note)

	// more expensive per unit: still listed, without a note
	assert.True(t, subs[2].SavingsPercent.IsNegative())
	assert.Empty(t, subs[2].Note)
}

func TestSubstitutesForSameBrand(t *testing.T) {
	subs, err := SubstitutesFor(catalog(), pricing.NewResolver(nil), "P001", 5, true, today)
	require.NoError(t, err)

	require.Len(t, subs, 2)
	for _, s := range subs {
		assert.Equal(t, "Zuzu", s.Product.Brand)
	}
}

func TestSubstitutesForUsesDiscounts(t *testing.T) {
	resolver := pricing.NewResolver([]types.Discount{{
		ProductID:            "P001",
		Store:                "lidl",
		FromDate:             today,
		ToDate:               today.AddDays(1),
		PercentageOfDiscount: decimal.NewFromInt(50),
	}})

	subs, err := SubstitutesFor(catalog(), resolver, "P001", 1, false, today)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	// baseline is 5/l after the discount, so the best candidate saves nothing
	assert.Empty(t, subs[0].Note)
}

func TestSubstitutesForNotFoundAndAlone(t *testing.T) {
	_, err := SubstitutesFor(catalog(), pricing.NewResolver(nil), "P999", 3, false, today)
	assert.True(t, errors.Is(err, ErrProductNotFound))

	subs, err := SubstitutesFor(catalog(), pricing.NewResolver(nil), "P005", 3, false, today)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecomparator/price-service/internal/history"
	"github.com/pricecomparator/price-service/internal/optimizer"
	"github.com/pricecomparator/price-service/internal/ranking"
	"github.com/pricecomparator/price-service/internal/snapshots"
	"github.com/pricecomparator/price-service/internal/storage"
	"github.com/pricecomparator/price-service/internal/types"
)

const (
	productHeader  = "product_id;product_name;product_category;brand;package_quantity;package_unit;price;currency\n"
	discountHeader = "product_id;product_name;brand;package_quantity;package_unit;product_category;from_date;to_date;percentage_of_discount\n"
)

func fixedClock() time.Time {
	return time.Date(2025, time.May, 3, 12, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, files map[string]string) *Service {
	t.Helper()
	return newTestServiceAt(t, files, fixedClock)
}

func newTestServiceAt(t *testing.T, files map[string]string, clock types.Clock) *Service {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	for key, content := range files {
		require.NoError(t, s.Put(context.Background(), key, []byte(content)))
	}
	loader := snapshots.NewLoader(s, snapshots.LoaderConfig{CacheEnabled: true}, nil)
	return NewService(loader, WithClock(clock))
}

func scenarioFiles() map[string]string {
	return map[string]string{
		"lidl_2025-05-01.csv": productHeader +
			"P001;lapte zuzu;lactate;Zuzu;1;l;10.00;RON\n" +
			"P002;iaurt grecesc;lactate;Olympus;400;g;6.00;RON\n",
		"kaufland_2025-05-01.csv": productHeader +
			"P001;lapte zuzu;lactate;Zuzu;1;l;9.50;RON\n" +
			"P003;paine alba;panificatie;Boromir;500;g;3.20;RON\n",
		"lidl_discounts_2025-05-01.csv": discountHeader +
			"P002;iaurt grecesc;Olympus;400;g;lactate;2025-05-01;2025-05-08;20\n",
		"kaufland_discounts_2025-05-02.csv": discountHeader +
			"P003;paine alba;Boromir;500;g;panificatie;2025-05-02;2025-05-09;10\n",
	}
}

func TestOptimizeBasketScenario(t *testing.T) {
	svc := newTestService(t, scenarioFiles())

	res, err := svc.OptimizeBasket(context.Background(), &optimizer.OptimizeRequest{Items: []*optimizer.BasketItem{
		{ProductID: "P001", Quantity: decimal.NewFromInt(2)},
	}})
	require.NoError(t, err)
	require.Len(t, res.Baskets, 1)
	assert.Equal(t, "kaufland", res.Baskets[0].Store)
	assert.True(t, decimal.RequireFromString("19.00").Equal(res.Baskets[0].Total))
}

func TestOptimizeBasketRejectsBeforeLoading(t *testing.T) {
	svc := newTestService(t, scenarioFiles())

	_, err := svc.OptimizeBasket(context.Background(), &optimizer.OptimizeRequest{Items: []*optimizer.BasketItem{
		{ProductID: "P001", Quantity: decimal.Zero},
	}})
	var invalid optimizer.ErrInvalidRequest
	assert.True(t, errors.As(err, &invalid))
}

func TestDiscountQueries(t *testing.T) {
	svc := newTestService(t, scenarioFiles())
	ctx := context.Background()

	best, err := svc.BestGlobalDiscounts(ctx)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, "P002", best[0].ProductID)

	fresh, err := svc.NewDiscounts(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "kaufland", fresh[0].Store)
}

func TestNewDiscountsDayBoundary(t *testing.T) {
	bucharest := time.FixedZone("EEST", 3*60*60)

	tests := []struct {
		name  string
		now   time.Time
		today string
		want  []string
	}{
		{"last minute of the day", time.Date(2025, time.May, 3, 23, 59, 0, 0, time.UTC), "2025-05-03", []string{"kaufland"}},
		{"first minute of the next day", time.Date(2025, time.May, 4, 0, 1, 0, 0, time.UTC), "2025-05-04", nil},
		{"local clock already past midnight", time.Date(2025, time.May, 4, 1, 30, 0, 0, bucharest), "2025-05-03", []string{"kaufland"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			svc := newTestServiceAt(t, scenarioFiles(), func() time.Time { return now })
			assert.Equal(t, tt.today, svc.Today().String())

			fresh, err := svc.NewDiscounts(context.Background())
			require.NoError(t, err)

			var stores []string
			for _, d := range fresh {
				stores = append(stores, d.Store)
			}
			assert.Equal(t, tt.want, stores)
		})
	}
}

func TestBestValueAndSubstitutes(t *testing.T) {
	svc := newTestService(t, scenarioFiles())
	ctx := context.Background()

	bv, err := svc.BestValue(ctx, "Lactate", 5)
	require.NoError(t, err)
	require.Len(t, bv.Products, 3)
	assert.Equal(t, "kaufland", bv.Products[0].Store)
	assert.Contains(t, bv.Recommendation, "'lapte zuzu' from store 'kaufland'")

	empty, err := svc.BestValue(ctx, "bauturi", 5)
	require.NoError(t, err)
	assert.Empty(t, empty.Products)
	assert.Empty(t, empty.Recommendation)

	_, err = svc.Substitutes(ctx, "P404", 3, false)
	assert.ErrorIs(t, err, ranking.ErrProductNotFound)

	subs, err := svc.Substitutes(ctx, "P003", 3, false)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSnapshotLookupsAndCompare(t *testing.T) {
	svc := newTestService(t, scenarioFiles())
	ctx := context.Background()
	day := types.NewDate(2025, time.May, 1)

	products, err := svc.ProductsFor(ctx, "LIDL", day)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	missing, err := svc.ProductsFor(ctx, "profi", day)
	require.NoError(t, err)
	assert.Empty(t, missing)

	discounts, err := svc.DiscountsFor(ctx, "lidl", day)
	require.NoError(t, err)
	assert.Len(t, discounts, 1)

	rows, err := svc.Compare(ctx, "lidl", day, "kaufland", day)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "P001", rows[0].ProductID)
}

func TestPriceHistory(t *testing.T) {
	svc := newTestService(t, scenarioFiles())

	entries, err := svc.PriceHistory(context.Background(), "P002", history.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].EffectivePrice)
	assert.True(t, decimal.RequireFromString("4.8").Equal(*entries[0].EffectivePrice))
}

func TestAlerts(t *testing.T) {
	svc := newTestService(t, scenarioFiles())
	ctx := context.Background()

	a, err := svc.RegisterAlert(ctx, "p001", decimal.RequireFromString("9.75"), "")
	require.NoError(t, err)
	assert.Equal(t, fixedClock(), a.CreatedAt)

	list, err := svc.Alerts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	msgs, err := svc.CheckAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product 'lapte zuzu' is now 9.50 RON in 'kaufland' (target was 9.75 RON)"}, msgs)
}

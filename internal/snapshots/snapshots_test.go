package snapshots

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecomparator/price-service/internal/storage"
	"github.com/pricecomparator/price-service/internal/types"
)

const productHeader = "product_id;product_name;product_category;brand;package_quantity;package_unit;price;currency\n"
const discountHeader = "product_id;product_name;brand;package_quantity;package_unit;product_category;from_date;to_date;percentage_of_discount\n"

func newTestStorage(t *testing.T, files map[string]string) *storage.LocalStorage {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	for key, content := range files {
		require.NoError(t, s.Put(context.Background(), key, []byte(content)))
	}
	return s
}

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name  string
		ok    bool
		store string
		kind  types.SnapshotKind
		date  string
	}{
		{"lidl_2025-05-01.csv", true, "lidl", types.KindProducts, "2025-05-01"},
		{"Kaufland_discounts_2025-05-08.csv", true, "kaufland", types.KindDiscounts, "2025-05-08"},
		{"profi_2025-13-01.csv", false, "", "", ""},
		{"lidl-2025-05-01.csv", false, "", "", ""},
		{"lidl_2025-05-01.txt", false, "", "", ""},
		{"notes.md", false, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, ok := ParseFileName(tt.name)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.store, file.Store)
			assert.Equal(t, tt.kind, file.Kind)
			assert.Equal(t, tt.date, file.Date.String())
			assert.Equal(t, tt.name, file.Key)
		})
	}
}

func TestFileNameRoundTrip(t *testing.T) {
	date := types.NewDate(2025, time.May, 1)
	assert.Equal(t, "lidl_2025-05-01.csv", FileName(" Lidl ", date, types.KindProducts))
	assert.Equal(t, "lidl_discounts_2025-05-01.csv", FileName("lidl", date, types.KindDiscounts))

	file, ok := ParseFileName(FileName("profi", date, types.KindDiscounts))
	require.True(t, ok)
	assert.Equal(t, types.KindDiscounts, file.Kind)
}

func TestParseProductsSkipsMalformedRows(t *testing.T) {
	content := productHeader +
		"P001;lapte zuzu;lactate;Zuzu;1;l;9.90;RON\n" +
		"P002;iaurt;lactate;Danone;abc;g;2.50;RON\n" +
		"P003;paine;panificatie;Boromir;0;g;3.00;RON\n" +
		"P004;oua;oua;Ferma;10;buc\n" +
		"P005;ulei;alimente;Bunica;1;l;-1;RON\n" +
		"P006;cafea;cafea;Lavazza;250;g;18,50;RON\n"

	file, _ := ParseFileName("lidl_2025-05-01.csv")
	res, err := ParseProducts([]byte(content), file)
	require.NoError(t, err)

	assert.Equal(t, 6, res.TotalRows)
	assert.Equal(t, 2, res.ValidRows)
	require.Len(t, res.Rows, 2)
	require.Len(t, res.Errors, 4)

	assert.Equal(t, "P001", res.Rows[0].ProductID)
	assert.Equal(t, "lidl", res.Rows[0].Store)
	assert.Equal(t, "2025-05-01", res.Rows[0].SnapshotDate.String())
	assert.True(t, decimal.RequireFromString("9.90").Equal(res.Rows[0].Price))
	assert.True(t, decimal.RequireFromString("18.50").Equal(res.Rows[1].Price))

	assert.Equal(t, "package_quantity", res.Errors[0].Field)
	assert.Equal(t, 3, res.Errors[0].RowNumber)
	assert.Equal(t, "package_quantity", res.Errors[1].Field)
	assert.Equal(t, "row", res.Errors[2].Field)
	assert.Equal(t, "price", res.Errors[3].Field)
}

func TestParseDiscountsValidatesIntervalAndPercentage(t *testing.T) {
	content := discountHeader +
		"P001;lapte zuzu;Zuzu;1;l;lactate;2025-05-01;2025-05-07;20\n" +
		"P002;iaurt;Danone;400;g;lactate;2025-05-07;2025-05-01;10\n" +
		"P003;paine;Boromir;500;g;panificatie;2025-05-01;2025-05-07;0\n" +
		"P004;oua;Ferma;10;buc;oua;2025-05-01;2025-05-07;101\n" +
		"P005;ulei;Bunica;1;l;alimente;not-a-date;2025-05-07;5\n"

	file, _ := ParseFileName("lidl_discounts_2025-05-01.csv")
	res, err := ParseDiscounts([]byte(content), file)
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Len(t, res.Errors, 4)

	d := res.Rows[0]
	assert.Equal(t, "2025-05-01", d.FromDate.String())
	assert.Equal(t, "2025-05-07", d.ToDate.String())
	assert.True(t, decimal.NewFromInt(20).Equal(d.PercentageOfDiscount))
	assert.Equal(t, "lidl", d.Store)
}

func TestLoaderListSnapshotFiles(t *testing.T) {
	s := newTestStorage(t, map[string]string{
		"lidl_2025-05-01.csv":           productHeader,
		"lidl_2025-05-08.csv":           productHeader,
		"lidl_discounts_2025-05-01.csv": discountHeader,
		"profi_2025-05-01.csv":          productHeader,
		"readme.txt":                    "ignored",
	})
	l := NewLoader(s, LoaderConfig{}, nil)
	ctx := context.Background()

	all, err := l.ListSnapshotFiles(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "lidl_2025-05-01.csv", all[0].Key)

	lidlProducts, err := l.ListSnapshotFiles(ctx, Filter{Kind: types.KindProducts, Store: "LIDL"})
	require.NoError(t, err)
	assert.Len(t, lidlProducts, 2)

	onDay, err := l.ListSnapshotFiles(ctx, Filter{Date: types.NewDate(2025, time.May, 1)})
	require.NoError(t, err)
	assert.Len(t, onDay, 3)
}

func TestLoaderMissingFileIsEmpty(t *testing.T) {
	l := NewLoader(newTestStorage(t, nil), LoaderConfig{}, nil)
	file, _ := ParseFileName("lidl_2025-05-01.csv")

	products, err := l.LoadProducts(context.Background(), file)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	discounts, err := l.LoadStoreDiscounts(context.Background(), "lidl", types.NewDate(2025, time.May, 1))
	require.NoError(t, err)
	assert.Empty(t, discounts)
}

func TestLoaderLoadSetKeepsFileOrder(t *testing.T) {
	s := newTestStorage(t, map[string]string{
		"profi_2025-05-01.csv":          productHeader + "P001;lapte;lactate;Zuzu;1;l;10.50;RON\n",
		"kaufland_2025-05-01.csv":       productHeader + "P001;lapte;lactate;Zuzu;1;l;9.50;RON\n",
		"lidl_2025-05-01.csv":           productHeader + "P001;lapte;lactate;Zuzu;1;l;10.00;RON\n",
		"lidl_discounts_2025-05-01.csv": discountHeader + "P001;lapte;Zuzu;1;l;lactate;2025-05-01;2025-05-07;20\n",
	})
	l := NewLoader(s, LoaderConfig{LoadConcurrency: 2}, nil)

	set, err := l.LoadSet(context.Background())
	require.NoError(t, err)

	require.Len(t, set.Products, 3)
	assert.Equal(t, "kaufland", set.Products[0].Store)
	assert.Equal(t, "lidl", set.Products[1].Store)
	assert.Equal(t, "profi", set.Products[2].Store)
	require.Len(t, set.Discounts, 1)
	assert.Len(t, set.Files, 4)
}

func TestLoaderParseCacheInvalidatesOnChange(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, map[string]string{
		"lidl_2025-05-01.csv": productHeader + "P001;lapte;lactate;Zuzu;1;l;10.00;RON\n",
	})
	l := NewLoader(s, LoaderConfig{CacheEnabled: true}, nil)
	file, _ := ParseFileName("lidl_2025-05-01.csv")

	first, err := l.LoadProducts(ctx, file)
	require.NoError(t, err)
	second, err := l.LoadProducts(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, l.cache.size())

	require.NoError(t, s.Put(ctx, file.Key, []byte(productHeader+
		"P001;lapte;lactate;Zuzu;1;l;10.00;RON\n"+
		"P002;iaurt;lactate;Danone;400;g;4.00;RON\n")))

	third, err := l.LoadProducts(ctx, file)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}

func TestLoaderConcurrentLoadsShareCache(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, map[string]string{
		"lidl_2025-05-01.csv":     productHeader + "P001;lapte;lactate;Zuzu;1;l;10.00;RON\nP002;iaurt;lactate;Danone;400;g;4.00;RON\n",
		"kaufland_2025-05-01.csv": productHeader + "P001;lapte;lactate;Zuzu;1;l;9.50;RON\n",
		"lidl_discounts_2025-05-01.csv": discountHeader +
			"P001;lapte;Zuzu;1;l;lactate;2025-05-01;2025-05-07;20\n",
	})
	l := NewLoader(s, LoaderConfig{CacheEnabled: true, LoadConcurrency: 4}, nil)
	file, _ := ParseFileName("lidl_2025-05-01.csv")

	const workers = 16
	var wg sync.WaitGroup
	sets := make([]*Set, workers)
	rows := make([][]types.Product, workers)
	errs := make([]error, 2*workers)
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sets[i], errs[2*i] = l.LoadSet(ctx)
		}()
		go func() {
			defer wg.Done()
			rows[i], errs[2*i+1] = l.LoadProducts(ctx, file)
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[2*i])
		require.NoError(t, errs[2*i+1])
		assert.Len(t, sets[i].Products, 3)
		assert.Len(t, sets[i].Discounts, 1)
		assert.Len(t, rows[i], 2)
	}
	assert.Equal(t, 3, l.cache.size())
}

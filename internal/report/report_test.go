package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pricecomparator/price-service/internal/history"
	"github.com/pricecomparator/price-service/internal/optimizer"
	"github.com/pricecomparator/price-service/internal/types"
)

func TestWorkbook(t *testing.T) {
	wb, err := New()
	require.NoError(t, err)
	defer wb.Close()

	day := types.NewDate(2025, 5, 1)
	require.NoError(t, wb.AddBestValue("lactate", []types.Product{
		{ProductID: "P001", Name: "lapte zuzu", Brand: "Zuzu", Store: "kaufland", Price: decimal.RequireFromString("9.50"),
			PackageQuantity: decimal.NewFromInt(1), PackageUnit: "l"},
		{ProductID: "P009", Name: "lapte praf", Brand: "X", Store: "lidl", Price: decimal.RequireFromString("3"),
			PackageQuantity: decimal.Zero, PackageUnit: "g"},
	}))

	res := &optimizer.Result{
		Baskets: []*optimizer.StoreBasket{{
			Store: "kaufland",
			Lines: []*optimizer.BasketLine{{
				ProductID: "P001", Name: "lapte zuzu",
				UnitPrice: decimal.RequireFromString("9.50"), Quantity: decimal.NewFromInt(2), LineTotal: decimal.RequireFromString("19.00"),
			}},
			Total: decimal.RequireFromString("19.00"),
		}},
		Unresolved: []string{"P999"},
		Total:      decimal.RequireFromString("19.00"),
	}
	require.NoError(t, wb.AddBasket(res))

	base, effective := decimal.RequireFromString("6"), decimal.RequireFromString("4.8")
	require.NoError(t, wb.AddPriceHistory("P002", []history.Entry{{
		ProductID: "P002", ProductName: "iaurt", Date: day, Store: "lidl",
		FromDate: day, ToDate: day.AddDays(7), PercentageOfDiscount: decimal.NewFromInt(20),
		BasePrice: &base, EffectivePrice: &effective,
	}}))
	assert.Equal(t, 3, wb.Sheets())

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, wb.SaveAs(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Best value lactate", "Basket", "History P002"}, f.GetSheetList())

	rows, err := f.GetRows("Best value lactate")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Price per unit", rows[0][6])
	assert.Equal(t, []string{"1", "P001", "lapte zuzu", "Zuzu", "kaufland", "9.5", "9.5", "l"}, rows[1])
	assert.Equal(t, "", rows[2][6])

	rows, err = f.GetRows("Basket")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Store total", rows[2][2])
	assert.Equal(t, "Not found", rows[3][2])
	assert.Equal(t, "19", rows[4][5])

	rows, err = f.GetRows("History P002")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2025-05-01", "lidl", "iaurt", "2025-05-01", "2025-05-08", "20", "6", "4.8"}, rows[1])
}

func TestWriteEmptyWorkbook(t *testing.T) {
	wb, err := New()
	require.NoError(t, err)
	defer wb.Close()

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	assert.Positive(t, buf.Len())
	assert.Zero(t, wb.Sheets())
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Best value", sheetName("Best value"))
	assert.Len(t, []rune(sheetName("Best value produse lactate si branzeturi")), 31)
}

// Package report writes query results to an xlsx workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pricecomparator/price-service/internal/history"
	"github.com/pricecomparator/price-service/internal/optimizer"
	"github.com/pricecomparator/price-service/internal/types"
	"github.com/pricecomparator/price-service/internal/units"
)

const defaultSheet = "Sheet1"

// Workbook collects one sheet per report.
type Workbook struct {
	file   *excelize.File
	header int // bold style id
	sheets int
}

// New creates an empty workbook.
func New() (*Workbook, error) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	return &Workbook{file: f, header: style}, nil
}

// Sheets returns the number of report sheets added so far.
func (w *Workbook) Sheets() int {
	return w.sheets
}

// AddBestValue adds a category ranking sheet.
func (w *Workbook) AddBestValue(category string, products []types.Product) error {
	rows := make([][]any, 0, len(products))
	for i, p := range products {
		rows = append(rows, []any{
			i + 1, p.ProductID, p.Name, p.Brand, p.Store,
			p.Price.InexactFloat64(), unitPriceCell(p.PricePerBaseUnit()), units.BaseUnit(p.PackageUnit),
		})
	}
	return w.addSheet("Best value "+category,
		[]any{"Rank", "Product ID", "Name", "Brand", "Store", "Price", "Price per unit", "Unit"}, rows)
}

// AddBasket adds one row per basket line plus a total row per store and overall.
func (w *Workbook) AddBasket(res *optimizer.Result) error {
	rows := make([][]any, 0)
	for _, b := range res.Baskets {
		for _, l := range b.Lines {
			rows = append(rows, []any{
				b.Store, l.ProductID, l.Name,
				l.UnitPrice.InexactFloat64(), l.Quantity.InexactFloat64(), l.LineTotal.InexactFloat64(),
			})
		}
		rows = append(rows, []any{b.Store, "", "Store total", "", "", b.Total.InexactFloat64()})
	}
	for _, id := range res.Unresolved {
		rows = append(rows, []any{"", id, "Not found", "", "", ""})
	}
	rows = append(rows, []any{"", "", "Total", "", "", res.Total.InexactFloat64()})

	return w.addSheet("Basket",
		[]any{"Store", "Product ID", "Name", "Unit price", "Quantity", "Line total"}, rows)
}

// AddPriceHistory adds the discount history of one product.
func (w *Workbook) AddPriceHistory(productID string, entries []history.Entry) error {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		row := []any{
			e.Date.String(), e.Store, e.ProductName, e.FromDate.String(), e.ToDate.String(),
			e.PercentageOfDiscount.InexactFloat64(), "", "",
		}
		if e.BasePrice != nil {
			row[6] = e.BasePrice.InexactFloat64()
		}
		if e.EffectivePrice != nil {
			row[7] = e.EffectivePrice.InexactFloat64()
		}
		rows = append(rows, row)
	}
	return w.addSheet("History "+productID,
		[]any{"Date", "Store", "Name", "From", "To", "Discount %", "Base price", "Effective price"}, rows)
}

// Write serializes the workbook.
func (w *Workbook) Write(out io.Writer) error {
	w.dropDefaultSheet()
	return w.file.Write(out)
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	w.dropDefaultSheet()
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) addSheet(name string, header []any, rows [][]any) error {
	name = sheetName(name)
	idx, err := w.file.NewSheet(name)
	if err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", name, err)
	}

	if err := w.file.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	if err := w.file.SetRowStyle(name, 1, 1, w.header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}

	if w.sheets == 0 {
		w.file.SetActiveSheet(idx)
	}
	w.sheets++
	return nil
}

func (w *Workbook) dropDefaultSheet() {
	if w.sheets == 0 {
		return
	}
	if idx, err := w.file.GetSheetIndex(defaultSheet); err == nil && idx >= 0 {
		_ = w.file.DeleteSheet(defaultSheet)
	}
}

// sheetName trims name to the 31 characters Excel allows.
func sheetName(name string) string {
	r := []rune(name)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}

func unitPriceCell(u units.UnitPrice) any {
	if u.Unbounded {
		return ""
	}
	return u.Float64()
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pricecomparator/price-service/internal/report"
)

var (
	exportFile     string
	exportCategory string
	exportBasket   []string
	exportHistory  []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write reports to an xlsx workbook",
	Long: `Writes one sheet per requested report: a best-value ranking for --category,
a basket split for --basket items and the discount history of each --history product.`,
	Example: `  price-comparator export --file report.xlsx --category lactate --basket P001:2,P002 --history P002`,
	RunE:    runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "report.xlsx", "Output workbook")
	exportCmd.Flags().StringVar(&exportCategory, "category", "", "Category for the best-value sheet")
	exportCmd.Flags().IntVar(&bestValueTop, "top", 5, "Number of products in the best-value sheet")
	exportCmd.Flags().StringSliceVar(&exportBasket, "basket", nil, "Basket items (productId[:quantity])")
	exportCmd.Flags().StringSliceVar(&exportHistory, "history", nil, "Products for history sheets")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportCategory == "" && len(exportBasket) == 0 && len(exportHistory) == 0 {
		return errors.New("nothing to export: pass --category, --basket or --history")
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	wb, err := report.New()
	if err != nil {
		return err
	}
	defer wb.Close()

	ctx := cmd.Context()
	if exportCategory != "" {
		bv, err := svc.BestValue(ctx, exportCategory, bestValueTop)
		if err != nil {
			return err
		}
		if err := wb.AddBestValue(exportCategory, bv.Products); err != nil {
			return err
		}
	}

	if len(exportBasket) > 0 {
		req, err := parseBasketItems(exportBasket)
		if err != nil {
			return err
		}
		res, err := svc.OptimizeBasket(ctx, req)
		if err != nil {
			return err
		}
		if err := wb.AddBasket(res); err != nil {
			return err
		}
	}

	filter, err := historyFilter()
	if err != nil {
		return err
	}
	for _, id := range exportHistory {
		entries, err := svc.PriceHistory(ctx, id, filter)
		if err != nil {
			return err
		}
		if err := wb.AddPriceHistory(id, entries); err != nil {
			return err
		}
	}

	if err := wb.SaveAs(exportFile); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %d sheet(s) to %s\n", wb.Sheets(), exportFile)
	return nil
}

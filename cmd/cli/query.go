package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pricecomparator/price-service/internal/history"
	"github.com/pricecomparator/price-service/internal/optimizer"
	"github.com/pricecomparator/price-service/internal/types"
	"github.com/pricecomparator/price-service/internal/units"
)

var (
	bestValueCategory string
	bestValueTop      int

	substitutesTop       int
	substitutesSameBrand bool

	historyStore    string
	historyBrand    string
	historyCategory string
	historyFrom     string
	historyTo       string
)

var bestValueCmd = &cobra.Command{
	Use:     "best-value",
	Short:   "Rank a category by list price per kg, l or piece",
	Example: `  price-comparator best-value --category lactate --top 3`,
	RunE:    runBestValue,
}

var substitutesCmd = &cobra.Command{
	Use:     "substitutes <productId>",
	Short:   "Find cheaper products of the same category",
	Example: `  price-comparator substitutes P001 --same-brand`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSubstitutes,
}

var basketCmd = &cobra.Command{
	Use:   "basket <productId[:quantity]>...",
	Short: "Split a shopping list across stores at today's prices",
	Long: `Buys each product at the store with the lowest discounted price. Quantity
defaults to 1 and may be fractional.`,
	Example: `  price-comparator basket P001:2 P002 P003:0.5`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runBasket,
}

var discountsCmd = &cobra.Command{
	Use:   "discounts",
	Short: "Report discounts",
}

var discountsBestCmd = &cobra.Command{
	Use:   "best",
	Short: "Best discount active today for each product",
	RunE:  runDiscountsBest,
}

var discountsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Discounts published since yesterday",
	RunE:  runDiscountsNew,
}

var historyCmd = &cobra.Command{
	Use:     "history <productId>",
	Short:   "Discount history of a product",
	Example: `  price-comparator history P002 --store lidl --from 2025-05-01 --to 2025-05-08`,
	Args:    cobra.ExactArgs(1),
	RunE:    runHistory,
}

var compareCmd = &cobra.Command{
	Use:     "compare <store1> <date1> <store2> <date2>",
	Short:   "Compare list prices of two product snapshots",
	Example: `  price-comparator compare lidl 2025-05-01 kaufland 2025-05-01`,
	Args:    cobra.ExactArgs(4),
	RunE:    runCompare,
}

func init() {
	bestValueCmd.Flags().StringVar(&bestValueCategory, "category", "", "Product category (required)")
	bestValueCmd.Flags().IntVar(&bestValueTop, "top", 5, "Number of products")
	_ = bestValueCmd.MarkFlagRequired("category")

	substitutesCmd.Flags().IntVar(&substitutesTop, "top", 3, "Number of substitutes")
	substitutesCmd.Flags().BoolVar(&substitutesSameBrand, "same-brand", false, "Only products of the same brand")

	historyCmd.Flags().StringVar(&historyStore, "store", "", "Store filter")
	historyCmd.Flags().StringVar(&historyBrand, "brand", "", "Brand filter")
	historyCmd.Flags().StringVar(&historyCategory, "category", "", "Category filter")
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "First snapshot date, inclusive (yyyy-mm-dd)")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "Last snapshot date, inclusive (yyyy-mm-dd)")

	discountsCmd.AddCommand(discountsBestCmd, discountsNewCmd)
	rootCmd.AddCommand(bestValueCmd, substitutesCmd, basketCmd, discountsCmd, historyCmd, compareCmd)
}

func runBestValue(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	bv, err := svc.BestValue(cmd.Context(), bestValueCategory, bestValueTop)
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		return printJSON(bv)
	}
	if len(bv.Products) == 0 {
		fmt.Fprintf(stdout, "No products in category '%s'.\n", bestValueCategory)
		return nil
	}
	rows := make([]string, len(bv.Products))
	for i, p := range bv.Products {
		rows[i] = fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s/%s", i+1, p.ProductID, p.Name, p.Store, money(p.Price), p.PricePerBaseUnit(), units.BaseUnit(p.PackageUnit))
	}
	printTable("#\tProduct\tName\tStore\tPrice\tPer unit", rows)
	fmt.Fprintln(stdout, "\n"+bv.Recommendation)
	return nil
}

func runSubstitutes(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	subs, err := svc.Substitutes(cmd.Context(), args[0], substitutesTop, substitutesSameBrand)
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		return printJSON(subs)
	}
	if len(subs) == 0 {
		fmt.Fprintln(stdout, "No substitutes found.")
		return nil
	}
	rows := make([]string, len(subs))
	for i, s := range subs {
		rows[i] = fmt.Sprintf("%s\t%s\t%s\t%s\t%s/%s\t%s", s.Product.ProductID, s.Product.Name, s.Product.Store, money(s.EffectivePrice), s.UnitPrice, s.BaseUnit, s.Note)
	}
	printTable("Product\tName\tStore\tPrice\tPer unit\tNote", rows)
	return nil
}

// parseBasketItems reads "id" or "id:quantity" arguments
func parseBasketItems(args []string) (*optimizer.OptimizeRequest, error) {
	req := &optimizer.OptimizeRequest{Items: make([]*optimizer.BasketItem, 0, len(args))}
	for _, arg := range args {
		id, qty, found := strings.Cut(arg, ":")
		quantity := decimal.NewFromInt(1)
		if found {
			q, err := decimal.NewFromString(qty)
			if err != nil {
				return nil, fmt.Errorf("invalid quantity in %q: %w", arg, err)
			}
			quantity = q
		}
		req.Items = append(req.Items, &optimizer.BasketItem{ProductID: id, Quantity: quantity})
	}
	return req, nil
}

func runBasket(cmd *cobra.Command, args []string) error {
	req, err := parseBasketItems(args)
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	res, err := svc.OptimizeBasket(cmd.Context(), req)
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		return printJSON(res)
	}
	printBasket(res)
	return nil
}

func printBasket(res *optimizer.Result) {
	rows := make([]string, 0)
	for _, b := range res.Baskets {
		for _, l := range b.Lines {
			rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s", b.Store, l.ProductID, l.Name, money(l.UnitPrice), l.Quantity, money(l.LineTotal)))
		}
		rows = append(rows, fmt.Sprintf("%s\t\t\t\t\t%s", b.Store, money(b.Total)))
	}
	printTable("Store\tProduct\tName\tUnit price\tQty\tTotal", rows)
	if len(res.Unresolved) > 0 {
		fmt.Fprintf(stdout, "\nNot found: %s\n", strings.Join(res.Unresolved, ", "))
	}
	fmt.Fprintln(stdout, "\n"+res.Recommendation())
}

func runDiscountsBest(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	discounts, err := svc.BestGlobalDiscounts(cmd.Context())
	if err != nil {
		return err
	}
	return printDiscounts(discounts)
}

func runDiscountsNew(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	discounts, err := svc.NewDiscounts(cmd.Context())
	if err != nil {
		return err
	}
	return printDiscounts(discounts)
}

func printDiscounts(discounts []types.Discount) error {
	if outputFmt == "json" {
		return printJSON(discounts)
	}
	if len(discounts) == 0 {
		fmt.Fprintln(stdout, "No discounts.")
		return nil
	}
	rows := make([]string, len(discounts))
	for i, d := range discounts {
		rows[i] = fmt.Sprintf("%s\t%s\t%s\t%s%%\t%s\t%s\t%s", d.ProductID, d.Name, d.Store, d.PercentageOfDiscount, d.FromDate, d.ToDate, d.SnapshotDate)
	}
	printTable("Product\tName\tStore\tDiscount\tFrom\tTo\tPublished", rows)
	return nil
}

func parseOptionalDate(name, value string) (types.Date, error) {
	if value == "" {
		return types.Date{}, nil
	}
	d, err := types.ParseDate(value)
	if err != nil {
		return types.Date{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return d, nil
}

func historyFilter() (history.Filter, error) {
	from, err := parseOptionalDate("from", historyFrom)
	if err != nil {
		return history.Filter{}, err
	}
	to, err := parseOptionalDate("to", historyTo)
	if err != nil {
		return history.Filter{}, err
	}
	return history.Filter{Store: historyStore, Brand: historyBrand, Category: historyCategory, From: from, To: to}, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	filter, err := historyFilter()
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	entries, err := svc.PriceHistory(cmd.Context(), args[0], filter)
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No history.")
		return nil
	}
	rows := make([]string, len(entries))
	for i, e := range entries {
		base, effective := "-", "-"
		if e.BasePrice != nil {
			base = money(*e.BasePrice)
		}
		if e.EffectivePrice != nil {
			effective = money(*e.EffectivePrice)
		}
		rows[i] = fmt.Sprintf("%s\t%s\t%s%%\t%s\t%s\t%s\t%s", e.Date, e.Store, e.PercentageOfDiscount, e.FromDate, e.ToDate, base, effective)
	}
	printTable("Date\tStore\tDiscount\tFrom\tTo\tBase\tEffective", rows)
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	date1, err1 := types.ParseDate(args[1])
	date2, err2 := types.ParseDate(args[3])
	if err := errors.Join(err1, err2); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	rows, err := svc.Compare(cmd.Context(), args[0], date1, args[2], date2)
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		return printJSON(rows)
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s\t%s\t%s\t%s\t%s", r.ProductID, r.ProductName, money(r.PriceStore1), money(r.PriceStore2), r.Cheapest)
	}
	printTable(fmt.Sprintf("Product\tName\t%s\t%s\tCheapest", args[0], args[2]), lines)
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricecomparator/price-service/internal/snapshots"
	"github.com/pricecomparator/price-service/internal/types"
)

const (
	maxShownErrors = 10
	maxShownRows   = 5
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a snapshot file and report row statistics",
	Long: `Parse a local snapshot file. Store, date and kind come from the file name,
which must follow {store}_{yyyy-mm-dd}.csv or {store}_discounts_{yyyy-mm-dd}.csv.
The output shows row counts, rejected rows and a sample of parsed rows.`,
	Example: `  price-comparator parse ./data/lidl_2025-05-01.csv
  price-comparator parse ./data/lidl_discounts_2025-05-01.csv -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// parseSummary is the kind-independent part of a parse result
type parseSummary struct {
	File      types.SnapshotFile `json:"file"`
	TotalRows int                `json:"totalRows"`
	ValidRows int                `json:"validRows"`
	Errors    []types.ParseError `json:"errors,omitempty"`
	Sample    []string           `json:"sample,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	file, ok := snapshots.ParseFileName(filepath.Base(filePath))
	if !ok {
		return fmt.Errorf("not a snapshot file name: %s", filepath.Base(filePath))
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	logger.Debug().Str("file", filePath).Int("bytes", len(content)).Msg("Read file")

	summary, result, err := parseSnapshot(content, file)
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		return printJSON(result)
	}
	outputParseTable(summary)
	return nil
}

func parseSnapshot(content []byte, file types.SnapshotFile) (parseSummary, any, error) {
	if file.Kind == types.KindDiscounts {
		res, err := snapshots.ParseDiscounts(content, file)
		if err != nil {
			return parseSummary{}, nil, err
		}
		sample := make([]string, 0, maxShownRows)
		for _, d := range res.Rows[:min(len(res.Rows), maxShownRows)] {
			sample = append(sample, fmt.Sprintf("%s - %s (-%s%%, %s..%s)", d.ProductID, d.Name, d.PercentageOfDiscount, d.FromDate, d.ToDate))
		}
		return parseSummary{File: file, TotalRows: res.TotalRows, ValidRows: res.ValidRows, Errors: res.Errors, Sample: sample}, res, nil
	}

	res, err := snapshots.ParseProducts(content, file)
	if err != nil {
		return parseSummary{}, nil, err
	}
	sample := make([]string, 0, maxShownRows)
	for _, p := range res.Rows[:min(len(res.Rows), maxShownRows)] {
		sample = append(sample, fmt.Sprintf("%s - %s (%s %s)", p.ProductID, p.Name, money(p.Price), p.Currency))
	}
	return parseSummary{File: file, TotalRows: res.TotalRows, ValidRows: res.ValidRows, Errors: res.Errors, Sample: sample}, res, nil
}

func outputParseTable(s parseSummary) {
	fmt.Fprintf(stdout, "\nParse Results for %s (%s, %s, %s)\n", s.File.Key, s.File.Store, s.File.Date, s.File.Kind)
	fmt.Fprintln(stdout, strings.Repeat("-", 60))

	printTable("Metric\tValue", []string{
		fmt.Sprintf("Total Rows\t%d", s.TotalRows),
		fmt.Sprintf("Valid Rows\t%d", s.ValidRows),
		fmt.Sprintf("Invalid Rows\t%d", s.TotalRows-s.ValidRows),
	})

	if len(s.Errors) > 0 {
		fmt.Fprintf(stdout, "\nFirst %d Errors:\n", min(len(s.Errors), maxShownErrors))
		fmt.Fprintln(stdout, strings.Repeat("-", 60))
		for _, e := range s.Errors[:min(len(s.Errors), maxShownErrors)] {
			fmt.Fprintf(stdout, "Row %d, Field '%s': %s\n", e.RowNumber, e.Field, e.Message)
		}
		if len(s.Errors) > maxShownErrors {
			fmt.Fprintf(stdout, "... and %d more errors\n", len(s.Errors)-maxShownErrors)
		}
	}

	if len(s.Sample) > 0 {
		fmt.Fprintf(stdout, "\nSample Rows (first %d):\n", len(s.Sample))
		fmt.Fprintln(stdout, strings.Repeat("-", 60))
		for i, line := range s.Sample {
			fmt.Fprintf(stdout, "%d. %s\n", i+1, line)
		}
	}
}

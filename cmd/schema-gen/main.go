// Schema Generator
//
// Generates JSON Schema files from the HTTP API types so clients can validate
// requests and responses against the same definitions the server uses.
//
// Usage:
//
//	go run ./cmd/schema-gen [output-dir]
//
// Output (default directory ./schemas):
//
//	catalog.json
//	basket.json
//	discounts.json
//	alerts.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/pricecomparator/price-service/internal/handlers"
)

const defaultOutputDir = "./schemas"

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

var groups = []SchemaGroup{
	{
		Name: "catalog",
		Types: []any{
			handlers.Product{},
			handlers.ProductValue{},
			handlers.BestValueResponse{},
			handlers.CompareRow{},
		},
		Output: "catalog.json",
	},
	{
		Name: "basket",
		Types: []any{
			// Request types
			handlers.BasketItemRequest{},
			// Response types
			handlers.BasketLine{},
			handlers.StoreBasket{},
			handlers.OptimizeResponse{},
		},
		Output: "basket.json",
	},
	{
		Name: "discounts",
		Types: []any{
			handlers.Discount{},
			handlers.PriceHistoryEntry{},
		},
		Output: "discounts.json",
	},
	{
		Name: "alerts",
		Types: []any{
			// Request types
			handlers.RegisterAlertRequest{},
			// Response types
			handlers.Alert{},
			handlers.CheckAlertsResponse{},
		},
		Output: "alerts.json",
	},
}

func main() {
	outputDir := defaultOutputDir
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	written, err := generate(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Schema generation failed: %v\n", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Printf("Generated %s\n", path)
	}
	fmt.Println("Schema generation complete!")
}

// generate writes one schema file per group into outputDir
func generate(outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, len(groups))
	for _, group := range groups {
		outputPath := filepath.Join(outputDir, group.Output)
		if err := writeSchema(generateGroupSchema(group), outputPath); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", group.Output, err)
		}
		written = append(written, outputPath)
	}
	return written, nil
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{}

	definitions := make(map[string]any)
	for _, t := range group.Types {
		schema := reflector.Reflect(t)
		for name, def := range schema.Definitions {
			definitions[name] = def
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://pricecomparator.local/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

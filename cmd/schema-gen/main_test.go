package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "schemas")

	written, err := generate(dir)
	require.NoError(t, err)
	assert.Len(t, written, len(groups))

	data, err := os.ReadFile(filepath.Join(dir, "basket.json"))
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "Basket API Types", schema["title"])

	defs, ok := schema["$defs"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"BasketItemRequest", "BasketLine", "StoreBasket", "OptimizeResponse"} {
		assert.Contains(t, defs, name)
	}

	item := defs["BasketItemRequest"].(map[string]any)
	assert.ElementsMatch(t, []any{"productId", "quantity"}, item["required"])
}

package snapshots

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pricecomparator/price-service/internal/types"
)

// {store}_{yyyy-mm-dd}.csv and {store}_discounts_{yyyy-mm-dd}.csv
var fileNameRe = regexp.MustCompile(`(?i)^([^_]+)_(?:(discounts)_)?(\d{4}-\d{2}-\d{2})\.csv$`)

// ParseFileName extracts store, kind and date from a snapshot file name.
// The store is the prefix before the first underscore, lower-cased.
func ParseFileName(name string) (types.SnapshotFile, bool) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return types.SnapshotFile{}, false
	}

	date, err := types.ParseDate(m[3])
	if err != nil {
		return types.SnapshotFile{}, false
	}

	kind := types.KindProducts
	if m[2] != "" {
		kind = types.KindDiscounts
	}

	return types.SnapshotFile{
		Key:   name,
		Store: strings.ToLower(m[1]),
		Date:  date,
		Kind:  kind,
	}, true
}

// FileName builds the conventional file name for a store, date and kind
func FileName(store string, date types.Date, kind types.SnapshotKind) string {
	store = strings.ToLower(strings.TrimSpace(store))
	if kind == types.KindDiscounts {
		return fmt.Sprintf("%s_discounts_%s.csv", store, date)
	}
	return fmt.Sprintf("%s_%s.csv", store, date)
}

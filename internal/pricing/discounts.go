package pricing

import (
	"sort"

	"github.com/pricecomparator/price-service/internal/matching"
	"github.com/pricecomparator/price-service/internal/types"
)

// BestGlobal returns, for each product id, its single best discount active on
// asOf across every store. The result is sorted by percentage descending, then
// by product id.
func BestGlobal(discounts []types.Discount, asOf types.Date) []types.Discount {
	best := make(map[string]types.Discount)
	for _, d := range discounts {
		if !IsActive(d, asOf) {
			continue
		}
		k := matching.Key(d.ProductID)
		cur, ok := best[k]
		if !ok || d.PercentageOfDiscount.GreaterThan(cur.PercentageOfDiscount) {
			best[k] = d
		}
	}

	out := make([]types.Discount, 0, len(best))
	for _, d := range best {
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].PercentageOfDiscount.Cmp(out[j].PercentageOfDiscount); c != 0 {
			return c > 0
		}
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Store < out[j].Store
	})
	return out
}

// NewDiscounts returns the discounts published in a snapshot dated yesterday
// or later, relative to today, sorted by percentage descending.
func NewDiscounts(discounts []types.Discount, today types.Date) []types.Discount {
	cutoff := today.AddDays(-1)

	out := make([]types.Discount, 0)
	for _, d := range discounts {
		if !d.SnapshotDate.Before(cutoff) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PercentageOfDiscount.GreaterThan(out[j].PercentageOfDiscount)
	})
	return out
}

package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/matching"
)

// BasketOptimizer allocates each requested item to the store with the lowest
// effective price and groups the purchases by store.
type BasketOptimizer struct {
	priceSource PriceSource
	config      *Config
	metrics     *MetricsRecorder
}

// NewBasketOptimizer creates a new basket optimizer.
func NewBasketOptimizer(priceSource PriceSource, config *Config, metrics *MetricsRecorder) *BasketOptimizer {
	if config == nil {
		config = Defaults()
	}
	if metrics == nil {
		metrics = NewMetricsRecorder()
	}
	return &BasketOptimizer{
		priceSource: priceSource,
		config:      config,
		metrics:     metrics,
	}
}

// Optimize validates the request before allocating anything. Items no store
// offers are reported in Result.Unresolved rather than failing the request.
func (o *BasketOptimizer) Optimize(ctx context.Context, req *OptimizeRequest) (*Result, error) {
	startTime := time.Now()
	success := false
	defer func() {
		o.metrics.RecordOptimization("greedy", time.Since(startTime).Seconds(), success)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(o.config.MaxBasketItems); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	o.metrics.RecordBasketSize(len(req.Items))

	result := o.greedyAlgorithm(req)

	o.metrics.RecordStoreCount(result.StoreCount())
	o.metrics.RecordUnresolved(len(result.Unresolved))
	success = true

	return result, nil
}

// greedyAlgorithm picks, per item, the offer with the strictly lowest effective
// price; the first offer wins a tie. Repeated product ids merge into one line.
func (o *BasketOptimizer) greedyAlgorithm(req *OptimizeRequest) *Result {
	baskets := make(map[string]*StoreBasket)
	lines := make(map[string]*BasketLine) // store + "\x00" + product key -> line
	order := make([]string, 0)

	result := &Result{Total: decimal.Zero}
	unresolved := make(map[string]bool)

	for _, item := range req.Items {
		offers := o.priceSource.Offers(item.ProductID)
		if len(offers) == 0 {
			key := matching.Key(item.ProductID)
			if !unresolved[key] {
				unresolved[key] = true
				result.Unresolved = append(result.Unresolved, item.ProductID)
			}
			log.Debug().Str("component", "optimizer").Str("product_id", item.ProductID).Msg("No store offers product")
			continue
		}

		best := offers[0]
		for _, offer := range offers[1:] {
			if offer.EffectivePrice.LessThan(best.EffectivePrice) {
				best = offer
			}
		}

		store := best.Product.Store
		basket, ok := baskets[store]
		if !ok {
			basket = &StoreBasket{Store: store, Total: decimal.Zero}
			baskets[store] = basket
			order = append(order, store)
		}

		lineTotal := best.EffectivePrice.Mul(item.Quantity)
		lineKey := store + "\x00" + matching.Key(item.ProductID)
		if line, ok := lines[lineKey]; ok {
			line.Quantity = line.Quantity.Add(item.Quantity)
			line.LineTotal = line.LineTotal.Add(lineTotal)
		} else {
			line = &BasketLine{
				ProductID: best.Product.ProductID,
				Name:      best.Product.Name,
				UnitPrice: best.EffectivePrice,
				Quantity:  item.Quantity,
				LineTotal: lineTotal,
			}
			lines[lineKey] = line
			basket.Lines = append(basket.Lines, line)
		}

		basket.Total = basket.Total.Add(lineTotal)
		result.Total = result.Total.Add(lineTotal)
	}

	result.Baskets = make([]*StoreBasket, 0, len(order))
	for _, store := range order {
		result.Baskets = append(result.Baskets, baskets[store])
	}
	return result
}

// Recommendation summarises the result for display.
func (r *Result) Recommendation() string {
	if r.IsEmpty() {
		return "No products found for your cart."
	}
	total, _ := r.Total.Float64()
	return fmt.Sprintf("Buy from %d store(s) for a total of %.2f RON.", r.StoreCount(), total)
}

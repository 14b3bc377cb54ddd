// Package catalog answers price queries over the snapshot directory. Every query
// re-lists and re-loads the snapshot files, so results always reflect the
// files present when the query runs.
package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pricecomparator/price-service/internal/alerts"
	"github.com/pricecomparator/price-service/internal/compare"
	"github.com/pricecomparator/price-service/internal/history"
	"github.com/pricecomparator/price-service/internal/optimizer"
	"github.com/pricecomparator/price-service/internal/pricing"
	"github.com/pricecomparator/price-service/internal/ranking"
	"github.com/pricecomparator/price-service/internal/snapshots"
	"github.com/pricecomparator/price-service/internal/telemetry"
	"github.com/pricecomparator/price-service/internal/types"
)

// Service is the query facade used by the HTTP handlers and the CLI.
type Service struct {
	loader           *snapshots.Loader
	alerts           alerts.Store
	optimizerConfig  *optimizer.Config
	optimizerMetrics *optimizer.MetricsRecorder
	clock            types.Clock
	tracer           trace.Tracer
	logger           zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to decide which discounts are active.
func WithClock(clock types.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithOptimizerConfig sets basket optimizer limits.
func WithOptimizerConfig(cfg *optimizer.Config) Option {
	return func(s *Service) {
		s.optimizerConfig = cfg
	}
}

// WithAlertStore sets the alert registry. Defaults to an in-memory store.
func WithAlertStore(store alerts.Store) Option {
	return func(s *Service) {
		s.alerts = store
	}
}

// NewService creates a query facade over loader.
func NewService(loader *snapshots.Loader, opts ...Option) *Service {
	s := &Service{
		loader:           loader,
		alerts:           alerts.NewMemoryStore(),
		optimizerConfig:  optimizer.Defaults(),
		optimizerMetrics: optimizer.NewMetricsRecorder(),
		clock:            time.Now,
		tracer:           telemetry.Tracer(),
		logger:           log.With().Str("component", "catalog").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the calendar day, in UTC, queries evaluate discounts on.
func (s *Service) Today() types.Date {
	return types.DateOf(s.clock().UTC())
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "catalog."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Files lists every snapshot file.
func (s *Service) Files(ctx context.Context) ([]types.SnapshotFile, error) {
	return s.loader.ListSnapshotFiles(ctx, snapshots.Filter{})
}

// ProductsFor returns the product snapshot of store on date; empty when absent.
func (s *Service) ProductsFor(ctx context.Context, store string, date types.Date) (_ []types.Product, err error) {
	ctx, span := s.startSpan(ctx, "ProductsFor", attribute.String("store", store), attribute.String("date", date.String()))
	defer func() { endSpan(span, err) }()

	return s.loader.LoadStoreProducts(ctx, store, date)
}

// DiscountsFor returns the discount snapshot of store on date; empty when absent.
func (s *Service) DiscountsFor(ctx context.Context, store string, date types.Date) (_ []types.Discount, err error) {
	ctx, span := s.startSpan(ctx, "DiscountsFor", attribute.String("store", store), attribute.String("date", date.String()))
	defer func() { endSpan(span, err) }()

	return s.loader.LoadStoreDiscounts(ctx, store, date)
}

// BestValue is a category ranking with a summary of its winner.
type BestValue struct {
	Recommendation string
	Products       []types.Product
}

// BestValue ranks category by list price per base unit.
func (s *Service) BestValue(ctx context.Context, category string, top int) (_ *BestValue, err error) {
	ctx, span := s.startSpan(ctx, "BestValue", attribute.String("category", category), attribute.Int("top", top))
	defer func() { endSpan(span, err) }()

	set, err := s.loader.LoadSet(ctx)
	if err != nil {
		return nil, err
	}

	products, err := ranking.BestValueByCategory(set.Products, category, top)
	if err != nil {
		return nil, err
	}

	res := &BestValue{Products: products}
	if len(products) > 0 {
		res.Recommendation = ranking.BestValueMessage(products[0], category)
	}
	return res, nil
}

// Substitutes finds better-value alternatives to productID.
func (s *Service) Substitutes(ctx context.Context, productID string, top int, sameBrand bool) (_ []ranking.Substitute, err error) {
	ctx, span := s.startSpan(ctx, "Substitutes", attribute.String("product_id", productID), attribute.Int("top", top), attribute.Bool("same_brand", sameBrand))
	defer func() { endSpan(span, err) }()

	set, err := s.loader.LoadSet(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.SubstitutesFor(set.Products, pricing.NewResolver(set.Discounts), productID, top, sameBrand, s.Today())
}

// OptimizeBasket allocates the shopping list across stores at today's prices.
// The request is validated before any snapshot is read.
func (s *Service) OptimizeBasket(ctx context.Context, req *optimizer.OptimizeRequest) (_ *optimizer.Result, err error) {
	ctx, span := s.startSpan(ctx, "OptimizeBasket", attribute.Int("items", len(req.Items)))
	defer func() { endSpan(span, err) }()

	if err := req.Validate(s.optimizerConfig.MaxBasketItems); err != nil {
		return nil, err
	}

	set, err := s.loader.LoadSet(ctx)
	if err != nil {
		return nil, err
	}

	source := optimizer.NewCatalogSource(set.Products, pricing.NewResolver(set.Discounts), s.Today())
	return optimizer.NewBasketOptimizer(source, s.optimizerConfig, s.optimizerMetrics).Optimize(ctx, req)
}

// BestGlobalDiscounts returns each product's best discount active today.
func (s *Service) BestGlobalDiscounts(ctx context.Context) (_ []types.Discount, err error) {
	ctx, span := s.startSpan(ctx, "BestGlobalDiscounts")
	defer func() { endSpan(span, err) }()

	set, err := s.loader.LoadSet(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.BestGlobal(set.Discounts, s.Today()), nil
}

// NewDiscounts returns the discounts published since yesterday.
func (s *Service) NewDiscounts(ctx context.Context) (_ []types.Discount, err error) {
	ctx, span := s.startSpan(ctx, "NewDiscounts")
	defer func() { endSpan(span, err) }()

	set, err := s.loader.LoadSet(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.NewDiscounts(set.Discounts, s.Today()), nil
}

// PriceHistory returns the discount history of productID.
func (s *Service) PriceHistory(ctx context.Context, productID string, filter history.Filter) (_ []history.Entry, err error) {
	ctx, span := s.startSpan(ctx, "PriceHistory", attribute.String("product_id", productID))
	defer func() { endSpan(span, err) }()

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	set, err := s.loader.LoadSet(ctx)
	if err != nil {
		return nil, err
	}
	return history.PriceHistory(set.Discounts, set.Products, productID, filter)
}

// Compare lines up two product snapshots.
func (s *Service) Compare(ctx context.Context, store1 string, date1 types.Date, store2 string, date2 types.Date) (_ []compare.Row, err error) {
	ctx, span := s.startSpan(ctx, "Compare",
		attribute.String("store1", store1), attribute.String("date1", date1.String()),
		attribute.String("store2", store2), attribute.String("date2", date2.String()))
	defer func() { endSpan(span, err) }()

	p1, err := s.loader.LoadStoreProducts(ctx, store1, date1)
	if err != nil {
		return nil, err
	}
	p2, err := s.loader.LoadStoreProducts(ctx, store2, date2)
	if err != nil {
		return nil, err
	}
	return compare.Products(p1, p2), nil
}

// RegisterAlert validates and stores a new price alert.
func (s *Service) RegisterAlert(ctx context.Context, productID string, targetPrice decimal.Decimal, store string) (alerts.Alert, error) {
	a, err := alerts.New(productID, targetPrice, store, s.clock())
	if err != nil {
		return alerts.Alert{}, err
	}
	if err := s.alerts.Add(ctx, a); err != nil {
		return alerts.Alert{}, err
	}
	s.logger.Info().Str("alert_id", a.ID).Str("product_id", a.ProductID).Str("target_price", a.TargetPrice.String()).Msg("Price alert registered")
	return a, nil
}

// Alerts lists registered alerts.
func (s *Service) Alerts(ctx context.Context) ([]alerts.Alert, error) {
	return s.alerts.List(ctx)
}

// CheckAlerts checks every alert against every product snapshot.
func (s *Service) CheckAlerts(ctx context.Context) (_ []string, err error) {
	ctx, span := s.startSpan(ctx, "CheckAlerts")
	defer func() { endSpan(span, err) }()

	set, err := s.loader.LoadSet(ctx)
	if err != nil {
		return nil, err
	}
	return s.CheckAlertsAgainst(ctx, set.Products)
}

// CheckAlertsAgainst checks every alert against the given products.
func (s *Service) CheckAlertsAgainst(ctx context.Context, products []types.Product) ([]string, error) {
	registered, err := s.alerts.List(ctx)
	if err != nil {
		return nil, err
	}
	return alerts.Check(registered, products), nil
}

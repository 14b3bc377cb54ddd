package snapshots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pricecomparator/price-service/internal/matching"
	"github.com/pricecomparator/price-service/internal/storage"
	"github.com/pricecomparator/price-service/internal/types"
)

// DefaultLoadConcurrency bounds how many files LoadSet parses at once.
const DefaultLoadConcurrency = 4

// LoaderConfig controls parse caching and load parallelism.
type LoaderConfig struct {
	CacheEnabled    bool
	LoadConcurrency int
}

// Filter selects snapshot files. Zero fields match everything.
type Filter struct {
	Kind  types.SnapshotKind
	Store string
	Date  types.Date
}

func (f Filter) matches(file types.SnapshotFile) bool {
	if f.Kind != "" && f.Kind != file.Kind {
		return false
	}
	if !matching.MatchesOptional(f.Store, file.Store) {
		return false
	}
	if !f.Date.IsZero() && !f.Date.Equal(file.Date.Time) {
		return false
	}
	return true
}

// Set is every product and discount record found in the snapshot directory,
// in file-name order. Callers must treat the slices as read-only.
type Set struct {
	Files     []types.SnapshotFile
	Products  []types.Product
	Discounts []types.Discount
}

// Loader reads snapshot files from storage and maps them to typed records.
type Loader struct {
	storage     storage.Storage
	cache       *parseCache
	concurrency int
	metrics     *MetricsRecorder
	logger      zerolog.Logger
}

// NewLoader creates a loader over the given storage.
func NewLoader(store storage.Storage, cfg LoaderConfig, metrics *MetricsRecorder) *Loader {
	if metrics == nil {
		metrics = NewMetricsRecorder()
	}
	concurrency := cfg.LoadConcurrency
	if concurrency <= 0 {
		concurrency = DefaultLoadConcurrency
	}

	l := &Loader{
		storage:     store,
		concurrency: concurrency,
		metrics:     metrics,
		logger:      log.With().Str("component", "snapshots").Logger(),
	}
	if cfg.CacheEnabled {
		l.cache = newParseCache()
	}
	return l
}

// ListSnapshotFiles returns the snapshot files matching filter, sorted by file name.
// Files whose names do not follow the snapshot convention are ignored.
func (l *Loader) ListSnapshotFiles(ctx context.Context, filter Filter) ([]types.SnapshotFile, error) {
	keys, err := l.storage.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot files: %w", err)
	}

	files := make([]types.SnapshotFile, 0, len(keys))
	for _, key := range keys {
		file, ok := ParseFileName(key)
		if !ok {
			l.logger.Debug().Str("file", key).Msg("Ignoring file with unrecognised name")
			continue
		}
		if filter.matches(file) {
			files = append(files, file)
		}
	}
	return files, nil
}

// LoadProducts returns the valid product rows of file.
// A missing file yields an empty list.
func (l *Loader) LoadProducts(ctx context.Context, file types.SnapshotFile) ([]types.Product, error) {
	res, err := load(ctx, l, file, ParseProducts)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// LoadDiscounts returns the valid discount rows of file.
// A missing file yields an empty list.
func (l *Loader) LoadDiscounts(ctx context.Context, file types.SnapshotFile) ([]types.Discount, error) {
	res, err := load(ctx, l, file, ParseDiscounts)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// LoadStoreProducts loads the product snapshot of one store on one day.
func (l *Loader) LoadStoreProducts(ctx context.Context, store string, date types.Date) ([]types.Product, error) {
	files, err := l.ListSnapshotFiles(ctx, Filter{Kind: types.KindProducts, Store: store, Date: date})
	if err != nil {
		return nil, err
	}
	products := []types.Product{}
	for _, f := range files {
		rows, err := l.LoadProducts(ctx, f)
		if err != nil {
			return nil, err
		}
		products = append(products, rows...)
	}
	return products, nil
}

// LoadStoreDiscounts loads the discount snapshot of one store on one day.
func (l *Loader) LoadStoreDiscounts(ctx context.Context, store string, date types.Date) ([]types.Discount, error) {
	files, err := l.ListSnapshotFiles(ctx, Filter{Kind: types.KindDiscounts, Store: store, Date: date})
	if err != nil {
		return nil, err
	}
	discounts := []types.Discount{}
	for _, f := range files {
		rows, err := l.LoadDiscounts(ctx, f)
		if err != nil {
			return nil, err
		}
		discounts = append(discounts, rows...)
	}
	return discounts, nil
}

// LoadSet loads every snapshot file. Files are parsed concurrently; the
// resulting records keep file-name order.
func (l *Loader) LoadSet(ctx context.Context) (*Set, error) {
	start := time.Now()

	files, err := l.ListSnapshotFiles(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	products := make([][]types.Product, len(files))
	discounts := make([][]types.Discount, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, file := range files {
		g.Go(func() error {
			switch file.Kind {
			case types.KindDiscounts:
				rows, err := l.LoadDiscounts(gctx, file)
				if err != nil {
					return err
				}
				discounts[i] = rows
			default:
				rows, err := l.LoadProducts(gctx, file)
				if err != nil {
					return err
				}
				products[i] = rows
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &Set{Files: files}
	for i := range files {
		set.Products = append(set.Products, products[i]...)
		set.Discounts = append(set.Discounts, discounts[i]...)
	}

	l.metrics.RecordLoad(time.Since(start).Seconds())
	l.logger.Debug().
		Int("files", len(files)).
		Int("products", len(set.Products)).
		Int("discounts", len(set.Discounts)).
		Dur("duration", time.Since(start)).
		Msg("Snapshot set loaded")

	return set, nil
}

// load reads and parses one file, going through the parse cache when enabled.
func load[T any](
	ctx context.Context,
	l *Loader,
	file types.SnapshotFile,
	parse func([]byte, types.SnapshotFile) (*types.ParseResult[T], error),
) (*types.ParseResult[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := l.storage.GetInfo(ctx, file.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return &types.ParseResult[T]{File: file, Rows: []T{}}, nil
	}
	if err != nil {
		return nil, err
	}

	read := func() (*types.ParseResult[T], error) {
		content, err := l.storage.Get(ctx, file.Key)
		if errors.Is(err, storage.ErrNotFound) {
			return &types.ParseResult[T]{File: file, Rows: []T{}}, nil
		}
		if err != nil {
			return nil, err
		}
		res, err := parse(content, file)
		if err != nil {
			return nil, err
		}
		l.metrics.RecordFileParsed(file.Kind, len(res.Errors))
		return res, nil
	}

	if l.cache == nil {
		return read()
	}

	if v, ok := l.cache.get(info); ok {
		if res, ok := v.(*types.ParseResult[T]); ok {
			l.metrics.RecordCacheHit()
			return res, nil
		}
	}
	l.metrics.RecordCacheMiss()

	v, err, _ := l.cache.group.Do(fmt.Sprintf("%s|%d|%d", info.Key, info.Size, info.ModifiedAt.UnixNano()), func() (any, error) {
		res, err := read()
		if err != nil {
			return nil, err
		}
		l.cache.put(info, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.ParseResult[T]), nil
}

package snapshots

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pricecomparator/price-service/internal/types"
)

var (
	// filesLoaded counts snapshot files read from storage and parsed.
	filesLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshots_files_loaded_total",
		Help: "Total number of snapshot files parsed by kind",
	}, []string{"kind"})

	// rowsSkipped counts malformed rows dropped during parsing.
	rowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshots_rows_skipped_total",
		Help: "Total number of malformed snapshot rows skipped by kind",
	}, []string{"kind"})

	parseCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshots_parse_cache_hits_total",
		Help: "Total number of parse cache hits",
	})

	parseCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshots_parse_cache_misses_total",
		Help: "Total number of parse cache misses",
	})

	// loadDuration tracks the time to load the full snapshot set.
	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapshots_load_duration_seconds",
		Help:    "Time taken to list and load every snapshot file",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

// MetricsRecorder records snapshot loading metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordFileParsed records one parsed file and the rows it skipped.
func (m *MetricsRecorder) RecordFileParsed(kind types.SnapshotKind, skipped int) {
	filesLoaded.WithLabelValues(string(kind)).Inc()
	if skipped > 0 {
		rowsSkipped.WithLabelValues(string(kind)).Add(float64(skipped))
	}
}

// RecordCacheHit records a parse cache hit.
func (m *MetricsRecorder) RecordCacheHit() {
	parseCacheHits.Inc()
}

// RecordCacheMiss records a parse cache miss.
func (m *MetricsRecorder) RecordCacheMiss() {
	parseCacheMisses.Inc()
}

// RecordLoad records the duration of a full snapshot set load.
func (m *MetricsRecorder) RecordLoad(durationSeconds float64) {
	loadDuration.Observe(durationSeconds)
}

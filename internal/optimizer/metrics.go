package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// optimizationDuration tracks the time taken for optimization calculations.
	optimizationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimizer_calculation_duration_seconds",
		Help:    "Time taken for optimization calculation by type",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"type"})

	// optimizationErrors tracks rejected or failed optimizations.
	optimizationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_calculation_errors_total",
		Help: "Total number of optimization errors by type",
	}, []string{"type"})

	// basketSize tracks the distribution of basket sizes.
	basketSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_basket_items_count",
		Help:    "Number of items in optimization requests",
		Buckets: []float64{1, 5, 10, 20, 50, 100},
	})

	// storeCount tracks how many stores a basket is split across.
	storeCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_stores_used_count",
		Help:    "Number of stores used by an optimization result",
		Buckets: []float64{0, 1, 2, 3, 5, 10},
	})

	// unresolvedItems counts requested items no store offers.
	unresolvedItems = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optimizer_unresolved_items_total",
		Help: "Total number of requested items that no store offers",
	})
)

// MetricsRecorder provides methods to record optimizer metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordOptimization records an optimization operation.
func (m *MetricsRecorder) RecordOptimization(optType string, durationSeconds float64, success bool) {
	optimizationDuration.WithLabelValues(optType).Observe(durationSeconds)
	if !success {
		optimizationErrors.WithLabelValues(optType).Inc()
	}
}

// RecordBasketSize records the size of a basket.
func (m *MetricsRecorder) RecordBasketSize(size int) {
	basketSize.Observe(float64(size))
}

// RecordStoreCount records the number of stores in a result.
func (m *MetricsRecorder) RecordStoreCount(count int) {
	storeCount.Observe(float64(count))
}

// RecordUnresolved records items that could not be allocated.
func (m *MetricsRecorder) RecordUnresolved(count int) {
	if count > 0 {
		unresolvedItems.Add(float64(count))
	}
}

// Package metrics exposes Prometheus instrumentation for chart runs, upstream
// fetches and the tag cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chart outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeInsufficient = "insufficient"
	OutcomeError        = "error"
)

var (
	ChartRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starchart_chart_runs_total",
			Help: "Chart pipeline runs by outcome and failing guard stage",
		},
		[]string{"outcome", "stage"},
	)

	ChartDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "starchart_chart_duration_seconds",
			Help:    "Duration of a full fetch, compute and persist run",
			Buckets: prometheus.DefBuckets,
		},
	)

	PositionsFilled = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "starchart_positions_filled",
			Help:    "Filled positions per computed chart",
			Buckets: prometheus.LinearBuckets(0, 1, 12),
		},
	)

	BackfilledPositions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starchart_backfilled_positions_total",
			Help: "Positions filled by the backfill pass",
		},
	)

	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starchart_fetch_errors_total",
			Help: "Upstream fetch failures degraded to empty data",
		},
		[]string{"call"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "starchart_fetch_duration_seconds",
			Help:    "Duration of upstream listening-data calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"call"},
	)

	TagCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starchart_tag_cache_hits_total",
			Help: "Artist tag lookups served from the cache",
		},
	)

	TagCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starchart_tag_cache_misses_total",
			Help: "Artist tag lookups that went upstream",
		},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "starchart_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

// RecordChart records the outcome of one chart run. stage is empty unless
// the run failed a guard checkpoint.
func RecordChart(outcome, stage string, filled, backfilled int, duration time.Duration) {
	ChartRuns.WithLabelValues(outcome, stage).Inc()
	ChartDuration.Observe(duration.Seconds())
	if outcome == OutcomeOK {
		PositionsFilled.Observe(float64(filled))
		BackfilledPositions.Add(float64(backfilled))
	}
}

// RecordFetch records one upstream call.
func RecordFetch(call string, duration time.Duration, err error) {
	FetchDuration.WithLabelValues(call).Observe(duration.Seconds())
	if err != nil {
		FetchErrors.WithLabelValues(call).Inc()
	}
}

// RecordTagLookup records a tag cache hit or miss.
func RecordTagLookup(hit bool) {
	if hit {
		TagCacheHits.Inc()
		return
	}
	TagCacheMisses.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

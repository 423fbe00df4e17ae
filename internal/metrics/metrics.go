// Package metrics exposes Prometheus instrumentation for lookups.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

var (
	// queriesTotal counts queries by strategy and result.
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_queries_total",
		Help: "Total lookup queries by strategy and result",
	}, []string{"strategy", "result"})

	// queryDuration tracks per-strategy query latency.
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lookup_query_duration_seconds",
		Help:    "Lookup query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
	}, []string{"strategy"})

	// cacheEntries reports the size of the most recently built line cache.
	cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lookup_cache_entries",
		Help: "Distinct entries held by the line cache",
	})
)

// ObserveQuery records one query outcome.
func ObserveQuery(strategy string, found bool, err error, elapsed time.Duration) {
	queriesTotal.WithLabelValues(strategy, Result(found, err)).Inc()
	queryDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// SetCacheEntries records the number of entries in a freshly built cache.
func SetCacheEntries(n int) {
	cacheEntries.Set(float64(n))
}

// Result maps a query outcome to its label value.
func Result(found bool, err error) string {
	switch {
	case err != nil:
		return ResultError
	case found:
		return ResultHit
	default:
		return ResultMiss
	}
}

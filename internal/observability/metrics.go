// Package observability provides logging and metrics for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheHits counts cache hits by key namespace.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cache_hits_total",
		Help: "Total number of cache hits by namespace",
	}, []string{"namespace"})

	// CacheMisses counts cache misses by key namespace.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cache_misses_total",
		Help: "Total number of cache misses by namespace",
	}, []string{"namespace"})

	// CachePurges counts bulk invalidations by namespace.
	CachePurges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cache_purges_total",
		Help: "Total number of cache namespace purges",
	}, []string{"namespace"})

	// DatabaseQueryLatency records database query latency.
	DatabaseQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveQuery records the latency of a database query started at start.
func ObserveQuery(start time.Time) {
	DatabaseQueryLatency.Observe(time.Since(start).Seconds())
}

// Package metrics exposes the Prometheus collectors shared by the paginator and the memoizing caches.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesFetched counts successfully fetched pages.
	PagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_pages_fetched_total",
			Help: "Total number of paginated API pages fetched",
		},
	)

	// PageErrors counts failed page requests by reason ("status", "transport", "decode").
	PageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_page_errors_total",
			Help: "Total number of failed paginated API requests",
		},
		[]string{"reason"},
	)

	// CacheHits counts memoized lookups served from the cache, by cache name.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_cache_hits_total",
			Help: "Total number of memoization cache hits",
		},
		[]string{"cache"},
	)

	// CacheMisses counts memoized lookups that required a computation, by cache name.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_cache_misses_total",
			Help: "Total number of memoization cache misses",
		},
		[]string{"cache"},
	)

	// CacheInvalidations counts entries removed through explicit invalidation, by cache name.
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_cache_invalidations_total",
			Help: "Total number of memoization cache entries invalidated",
		},
		[]string{"cache"},
	)
)

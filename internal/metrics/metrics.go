// Package metrics registers the service's Prometheus instrumentation.
// Counters live on the default registry and are exposed by the /metrics
// endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts paper reads served from the cache layer.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paperapi_cache_hits_total",
		Help: "Number of paper reads served from the cache.",
	})

	// CacheMisses counts paper reads that fell through to the store.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paperapi_cache_misses_total",
		Help: "Number of paper reads that fell back to the persistence store.",
	})

	// ExtractionTasks counts finished extraction tasks by outcome
	// (completed, failed).
	ExtractionTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperapi_extraction_tasks_total",
		Help: "Number of extraction tasks that reached a terminal state.",
	}, []string{"outcome"})
)

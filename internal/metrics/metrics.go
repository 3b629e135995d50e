package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	ListingWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findhome_listing_writes_total",
			Help: "Successful listing writes",
		},
		[]string{"op"}, // create|update|delete|status
	)

	ListingSearches = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "findhome_listing_search_results",
			Help:    "Total matching listings per search",
			Buckets: []float64{0, 1, 5, 20, 50, 100, 500, 1000},
		},
	)

	FavoriteOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findhome_favorite_ops_total",
			Help: "Favorite additions and removals",
		},
		[]string{"op"}, // add|remove|cascade
	)

	OwnerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findhome_owner_requests_total",
			Help: "Owner request lifecycle events",
		},
		[]string{"event"}, // created|approved|rejected
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findhome_cache_lookups_total",
			Help: "Listing cache lookups",
		},
		[]string{"result"}, // hit|miss
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			ListingWrites,
			ListingSearches,
			FavoriteOps,
			OwnerRequests,
			CacheLookups,
			WorkerQueueDepth,
		)
	})
}

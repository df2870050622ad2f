package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagseek",
			Name:      "search_requests_total",
			Help:      "Total number of searches by cache outcome",
		},
		[]string{"cache"}, // "hit" / "miss" / "bypass"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tagseek",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, sorting included",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagseek",
			Name:      "result_cache_total",
			Help:      "Result cache lookups",
		},
		[]string{"result"}, // "hit" / "miss" / "stale"
	)

	PersistenceErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagseek",
			Name:      "persistence_errors_total",
			Help:      "Failed session state reads and writes",
		},
		[]string{"collection", "op"}, // collection: filters / history / saved; op: load / save
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ResultCacheTotal)
	prometheus.MustRegister(PersistenceErrorsTotal)
	searchMetricsRegistered = true
}

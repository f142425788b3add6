package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query answering Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taglayer",
			Name:      "queries_total",
			Help:      "Answered queries by routed intent, mode, and tool",
		},
		[]string{"intent", "mode", "tool"},
	)

	QueryHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taglayer",
			Name:      "query_hits",
			Help:      "Hit counts per answered query",
			Buckets:   []float64{0, 1, 3, 5, 10, 20, 50},
		},
		[]string{"intent", "mode"},
	)

	SimilarityProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taglayer",
			Name:      "similarity_probes_total",
			Help:      "Best-effort narrative index probes",
		},
		[]string{"status"}, // "ok" / "error"
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryHits)
	prometheus.MustRegister(SimilarityProbesTotal)
	queryMetricsRegistered = true
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Tagging pipeline Prometheus metrics.
var (
	TaggedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taglayer",
			Name:      "tagged_records_total",
			Help:      "Records processed by the tagging pipeline",
		},
		[]string{"dataset", "status"}, // status: "ok" / "skipped"
	)

	TaggingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taglayer",
			Name:      "tagging_request_duration_seconds",
			Help:      "Tagger call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"dataset"},
	)

	TaggingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taglayer",
			Name:      "tagging_errors_total",
			Help:      "Tagger call failures by error type",
		},
		[]string{"dataset", "error_type"},
	)
)

var taggingMetricsRegistered bool

// RegisterTaggingMetrics registers tagging metrics. Must be called once from main.
func RegisterTaggingMetrics() {
	if taggingMetricsRegistered {
		return
	}
	prometheus.MustRegister(TaggedRecordsTotal)
	prometheus.MustRegister(TaggingRequestDuration)
	prometheus.MustRegister(TaggingErrorsTotal)
	taggingMetricsRegistered = true
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Classifier Prometheus metrics.
var (
	ClassifierRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskdex",
			Name:      "classifier_requests_total",
			Help:      "Total number of classifier requests",
		},
		[]string{"provider", "model", "operation", "status"},
	)

	ClassifierRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "riskdex",
			Name:      "classifier_request_duration_seconds",
			Help:      "Classifier request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model", "operation"},
	)

	ClassifierErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskdex",
			Name:      "classifier_errors_total",
			Help:      "Total classifier errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	ClassifierTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskdex",
			Name:      "classifier_tokens_total",
			Help:      "Total classifier tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskdex",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by result",
		},
		[]string{"result"},
	)
)

var classifierMetricsRegistered bool

// RegisterClassifierMetrics registers Prometheus classifier metrics. Must be called once from main.
func RegisterClassifierMetrics() {
	if classifierMetricsRegistered {
		return
	}
	prometheus.MustRegister(ClassifierRequestsTotal)
	prometheus.MustRegister(ClassifierRequestDuration)
	prometheus.MustRegister(ClassifierErrorsTotal)
	prometheus.MustRegister(ClassifierTokensTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	classifierMetricsRegistered = true
}

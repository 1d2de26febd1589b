package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and answer-generation Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askgames",
			Name:      "retrieval_requests_total",
			Help:      "Total number of retrieval executions",
		},
		[]string{"strategy", "status"},
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askgames",
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval execution duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	RetrievalHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askgames",
			Name:      "retrieval_hits",
			Help:      "Number of documents returned per retrieval",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		},
		[]string{"strategy"},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askgames",
			Name:      "generation_requests_total",
			Help:      "Total number of answer generation attempts",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askgames",
			Name:      "generation_duration_seconds",
			Help:      "Answer generation duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"provider", "model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askgames",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers retrieval and generation metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalHits)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	pipelineMetricsRegistered = true
}

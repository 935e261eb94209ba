// internal/metrics/metrics.go

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chanalytics_pipeline_runs_total",
			Help: "Total number of analytics pipeline runs by outcome",
		},
		[]string{"outcome"}, // "ok", "not_found", "insufficient_data", "error"
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chanalytics_pipeline_duration_seconds",
			Help:    "Duration of analytics pipeline runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PipelineVideos = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chanalytics_pipeline_videos",
			Help:    "Number of videos per analyzed channel",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 250},
		},
	)

	CentralityDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chanalytics_centrality_degraded_total",
			Help: "Centrality measures replaced by an empty result",
		},
		[]string{"measure"},
	)

	PredictionFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chanalytics_prediction_fallback_total",
			Help: "Predictions that used the flat max-views fallback",
		},
	)

	// Source metrics
	SourceBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chanalytics_source_breaker_state",
			Help: "Channel source circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chanalytics_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chanalytics_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chanalytics_websocket_connections",
			Help: "Open report websocket connections",
		},
	)
)

// RecordAPIRequest records one served API request
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordPipelineRun records the outcome of one pipeline run
func RecordPipelineRun(outcome string, videos int, duration time.Duration) {
	PipelineRuns.WithLabelValues(outcome).Inc()
	PipelineDuration.Observe(duration.Seconds())
	if videos > 0 {
		PipelineVideos.Observe(float64(videos))
	}
}

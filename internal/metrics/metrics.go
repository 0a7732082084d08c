// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Recommendation requests per strategy and cache outcome
// - Cache operations, invalidations and the store circuit breaker
// - Retraining runs and artifact loads
// - DuckDB activity queries
// - API endpoint latency and throughput

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_recommendations_total",
			Help: "Total recommendation requests by strategy and cache outcome",
		},
		[]string{"strategy", "cache"}, // cache: "hit", "miss", "disabled"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsxpress_recommendation_duration_seconds",
			Help:    "Recommendation latency including cache lookup, in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"strategy"},
	)

	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsxpress_recommendation_results",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"strategy"},
	)

	// Cache Metrics
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_cache_operations_total",
			Help: "Total cache operations by operation and result",
		},
		[]string{"op", "result"}, // result: "hit", "miss", "ok", "error"
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_cache_invalidations_total",
			Help: "Total cache keys removed by invalidation reason",
		},
		[]string{"reason"}, // reason: "retrain", "user", "article", "pattern"
	)

	CacheEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsxpress_cache_enabled",
			Help: "Whether the recommendation cache is enabled (1) or disabled (0)",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Retraining Metrics
	RetrainRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_retrain_runs_total",
			Help: "Total retraining runs by outcome",
		},
		[]string{"outcome"}, // outcome: "success", "build_failed", "reload_failed"
	)

	RetrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsxpress_retrain_duration_seconds",
			Help:    "Duration of retraining runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
		},
	)

	RetrainLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsxpress_retrain_last_success_timestamp_seconds",
			Help: "Unix time of the last successful retrain",
		},
	)

	// Artifact Metrics
	ArtifactLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_artifact_loads_total",
			Help: "Total artifact family load attempts by family and status",
		},
		[]string{"family", "status"}, // status: "loaded", "missing", "invalid"
	)

	SnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsxpress_artifact_snapshot_version",
			Help: "Version of the currently served artifact snapshot",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordRecommendation records one served recommendation request.
func RecordRecommendation(strategy, cacheOutcome string, results int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(strategy, cacheOutcome).Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	RecommendationResults.WithLabelValues(strategy).Observe(float64(results))
}

// RecordCacheOp records a cache store operation.
func RecordCacheOp(op, result string) {
	CacheOperations.WithLabelValues(op, result).Inc()
}

// RecordInvalidation records keys removed by an invalidation.
func RecordInvalidation(reason string, removed int) {
	CacheInvalidations.WithLabelValues(reason).Add(float64(removed))
}

// RecordRetrain records a retraining run.
func RecordRetrain(outcome string, duration time.Duration) {
	RetrainRuns.WithLabelValues(outcome).Inc()
	RetrainDuration.Observe(duration.Seconds())
	if outcome == "success" {
		RetrainLastSuccess.SetToCurrentTime()
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

/*
Package metrics provides Prometheus metrics for the recommendation service.

All collectors are registered with the default registry via promauto and
exposed at /metrics by the API router:

	curl http://localhost:5001/metrics

# Available Metrics

Recommendation Metrics:
  - newsxpress_recommendations_total: Requests served (counter)
    Labels: strategy, cache (hit, miss, disabled)
  - newsxpress_recommendation_duration_seconds: Latency (histogram)
    Labels: strategy
  - newsxpress_recommendation_results: Result list sizes (histogram)

Cache Metrics:
  - newsxpress_cache_operations_total: Store operations (counter)
    Labels: op (get, set, delete), result
  - newsxpress_cache_invalidations_total: Keys removed (counter)
    Labels: reason (retrain, user, article, pattern)
  - newsxpress_cache_enabled: Global cache switch (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_state_transitions_total: Labels name, from_state, to_state

Retraining Metrics:
  - newsxpress_retrain_runs_total: Labels outcome (success, build_failed, reload_failed)
  - newsxpress_retrain_duration_seconds (histogram)
  - newsxpress_retrain_last_success_timestamp_seconds (gauge)
  - newsxpress_artifact_loads_total: Labels family, status
  - newsxpress_artifact_snapshot_version (gauge)

Database and API Metrics:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - api_requests_total, api_request_duration_seconds
  - api_active_requests, api_rate_limit_hits_total

# Example Alert

	groups:
	  - name: newsxpress
	    rules:
	      - alert: RetrainFailing
	        expr: increase(newsxpress_retrain_runs_total{outcome!="success"}[2d]) > 1
	        annotations:
	          summary: "Model retraining has failed repeatedly"
*/
package metrics

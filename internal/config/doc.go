// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

/*
Package config provides configuration loading for the recommendation
service and the retraining scheduler.

# Configuration Sources

Configuration is layered with Koanf v2, later sources overriding earlier ones:
  - Built-in defaults (defaultConfig)
  - Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/newsxpress/config.yaml)
  - Environment variables

# Configuration Structure

  - ServerConfig: HTTP listener, CORS, rate limiting
  - ArtifactsConfig: model artifact directory
  - CacheConfig: recommendation cache backend and per-strategy TTLs
  - RetrainConfig: retraining cadence and builder command
  - RecommendConfig: engine tunables (top-N bounds, hybrid weights, trending decay)
  - ActivityConfig: DuckDB interaction log
  - LoggingConfig: zerolog level and format

# Environment Variables

Server:
  - HTTP_PORT / ML_API_PORT: Listen port (default: 5001)
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - CORS_ORIGINS: Comma-separated allowed origins
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Artifacts and cache:
  - ARTIFACTS_DIR / MODELS_DIR: Artifact directory (default: /data/models)
  - CACHE_ENABLED: Global cache switch (default: true)
  - CACHE_BACKEND: memory or badger
  - CACHE_SIMILAR_TTL, CACHE_PERSONALIZED_TTL, CACHE_TRENDING_TTL

Retraining:
  - RETRAIN_SCHEDULE: daily, weekly or monthly (default: daily)
  - RETRAIN_HOUR, RETRAIN_MINUTE: Time of day (default: 02:00)
  - RETRAIN_DAY: Weekday name (weekly) or day of month (monthly)
  - RETRAIN_ON_START: Run one retrain before the loop starts
  - RETRAIN_COMMAND: Builder command line

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config

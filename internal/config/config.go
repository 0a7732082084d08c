// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package config

import (
	"time"
)

// Config holds all configuration for the recommendation service and the
// retraining scheduler.
//
// Loading order (Koanf v2, later layers win):
//  1. Defaults from defaultConfig()
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/newsxpress/config.yaml)
//  3. Environment variables mapped by envTransformFunc
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Cache     CacheConfig     `koanf:"cache"`
	Retrain   RetrainConfig   `koanf:"retrain"`
	Recommend RecommendConfig `koanf:"recommend"`
	Activity  ActivityConfig  `koanf:"activity"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// RateLimitReqs requests are allowed per RateLimitWindow per client IP.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// ClearCachePerSecond throttles POST /api/cache/clear across all clients.
	ClearCachePerSecond float64 `koanf:"clear_cache_per_second"`
}

// ArtifactsConfig locates the precomputed model artifacts.
type ArtifactsConfig struct {
	// Dir is the artifact store directory written by the model builder.
	Dir string `koanf:"dir"`

	// LoadOnStartup loads artifacts before the HTTP server accepts traffic.
	LoadOnStartup bool `koanf:"load_on_startup"`
}

// CacheConfig controls the recommendation result cache.
type CacheConfig struct {
	Enabled bool `koanf:"enabled"`

	// Backend is "memory" or "badger".
	Backend    string `koanf:"backend"`
	BadgerPath string `koanf:"badger_path"`

	SimilarTTL      time.Duration `koanf:"similar_ttl"`
	PersonalizedTTL time.Duration `koanf:"personalized_ttl"`
	TrendingTTL     time.Duration `koanf:"trending_ttl"`

	// CleanupInterval is how often the memory backend sweeps expired entries.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// Breaker settings for the store circuit breaker.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// RetrainConfig controls the retraining scheduler.
type RetrainConfig struct {
	Enabled bool `koanf:"enabled"`

	// Schedule is the cadence: daily, weekly or monthly.
	Schedule string `koanf:"schedule"`
	Hour     int    `koanf:"hour"`
	Minute   int    `koanf:"minute"`

	// Day is a weekday name for weekly cadence or a day of month (1-31)
	// for monthly cadence. Ignored for daily.
	Day string `koanf:"day"`

	// OnStart runs one retrain before entering the scheduler loop.
	OnStart bool `koanf:"on_start"`

	// TickInterval is how often the loop checks for due jobs.
	TickInterval time.Duration `koanf:"tick_interval"`

	// Command is the external model builder invocation.
	Command []string `koanf:"command"`
	WorkDir string   `koanf:"work_dir"`

	// Location is the IANA time zone schedules are evaluated in.
	Location string `koanf:"location"`

	// ReloadURL is the serving process's POST /api/models/reload endpoint.
	// The scheduler and retrain commands call it after a successful build
	// so the API reloads artifacts and clears its own cache.
	ReloadURL     string        `koanf:"reload_url"`
	ReloadTimeout time.Duration `koanf:"reload_timeout"`
}

// RecommendConfig holds engine tunables.
type RecommendConfig struct {
	DefaultTopN int `koanf:"default_top_n"`
	MaxTopN     int `koanf:"max_top_n"`

	HybridContentWeight       float64 `koanf:"hybrid_content_weight"`
	HybridCollaborativeWeight float64 `koanf:"hybrid_collaborative_weight"`
	// HybridNormalization is minmax, max or none.
	HybridNormalization string `koanf:"hybrid_normalization"`

	// CollaborativeFeatureWeight blends article-feature affinity into
	// neighbour scores. 0 disables it.
	CollaborativeFeatureWeight float64 `koanf:"collaborative_feature_weight"`

	TrendingWindowDays    int     `koanf:"trending_window_days"`
	TrendingHalfLifeHours float64 `koanf:"trending_half_life_hours"`
}

// ActivityConfig configures the DuckDB interaction log used by trending.
type ActivityConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// Load reads configuration from all layers and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

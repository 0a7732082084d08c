// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/newsxpress/config.yaml",
	"/etc/newsxpress/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                5001,
			Host:                "0.0.0.0",
			Timeout:             30 * time.Second,
			ShutdownTimeout:     10 * time.Second,
			CORSOrigins:         []string{},
			RateLimitReqs:       100,
			RateLimitWindow:     time.Minute,
			RateLimitDisabled:   false,
			ClearCachePerSecond: 5,
		},
		Artifacts: ArtifactsConfig{
			Dir:           "/data/models",
			LoadOnStartup: true,
		},
		Cache: CacheConfig{
			Enabled:         true,
			Backend:         "memory",
			BadgerPath:      "/data/cache",
			SimilarTTL:      30 * time.Minute,
			PersonalizedTTL: 15 * time.Minute,
			TrendingTTL:     5 * time.Minute,
			CleanupInterval: time.Minute,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Retrain: RetrainConfig{
			Enabled:       true,
			Schedule:      "daily",
			Hour:          2,
			Minute:        0,
			Day:           "",
			OnStart:       false,
			TickInterval:  time.Minute,
			Command:       []string{},
			WorkDir:       "",
			Location:      "Local",
			ReloadURL:     "",
			ReloadTimeout: 30 * time.Second,
		},
		Recommend: RecommendConfig{
			DefaultTopN:                10,
			MaxTopN:                    100,
			HybridContentWeight:        0.5,
			HybridCollaborativeWeight:  0.5,
			HybridNormalization:        "minmax",
			CollaborativeFeatureWeight: 0.3,
			TrendingWindowDays:         7,
			TrendingHalfLifeHours:      48,
		},
		Activity: ActivityConfig{
			Enabled: false,
			Path:    "/data/activity.duckdb",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults
//  2. Config file (optional)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

// loadFrom runs the layered load with an explicit file path ("" skips the file layer).
func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"retrain.command",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		sep := ","
		if path == "retrain.command" && !strings.Contains(strVal, ",") {
			// A plain command line is split on whitespace.
			sep = " "
		}

		parts := strings.Split(strVal, sep)
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":              "server.port",
	"ml_api_port":            "server.port",
	"http_host":              "server.host",
	"http_timeout":           "server.timeout",
	"http_shutdown_timeout":  "server.shutdown_timeout",
	"cors_origins":           "server.cors_origins",
	"rate_limit_requests":    "server.rate_limit_reqs",
	"rate_limit_window":      "server.rate_limit_window",
	"disable_rate_limit":     "server.rate_limit_disabled",
	"clear_cache_per_second": "server.clear_cache_per_second",

	// Artifacts
	"artifacts_dir":             "artifacts.dir",
	"models_dir":                "artifacts.dir",
	"artifacts_load_on_start":   "artifacts.load_on_startup",
	"artifacts_load_on_startup": "artifacts.load_on_startup",

	// Cache
	"cache_enabled":          "cache.enabled",
	"cache_backend":          "cache.backend",
	"cache_badger_path":      "cache.badger_path",
	"cache_similar_ttl":      "cache.similar_ttl",
	"cache_personalized_ttl": "cache.personalized_ttl",
	"cache_trending_ttl":     "cache.trending_ttl",
	"cache_cleanup_interval": "cache.cleanup_interval",
	"cache_breaker_failures": "cache.breaker_failures",
	"cache_breaker_timeout":  "cache.breaker_timeout",

	// Retraining scheduler
	"retrain_enabled":        "retrain.enabled",
	"retrain_schedule":       "retrain.schedule",
	"retrain_hour":           "retrain.hour",
	"retrain_minute":         "retrain.minute",
	"retrain_day":            "retrain.day",
	"retrain_on_start":       "retrain.on_start",
	"retrain_tick_interval":  "retrain.tick_interval",
	"retrain_command":        "retrain.command",
	"retrain_work_dir":       "retrain.work_dir",
	"retrain_timezone":       "retrain.location",
	"retrain_reload_url":     "retrain.reload_url",
	"retrain_reload_timeout": "retrain.reload_timeout",

	// Engine
	"default_top_n":                "recommend.default_top_n",
	"max_top_n":                    "recommend.max_top_n",
	"hybrid_content_weight":        "recommend.hybrid_content_weight",
	"hybrid_collaborative_weight":  "recommend.hybrid_collaborative_weight",
	"hybrid_normalization":         "recommend.hybrid_normalization",
	"collaborative_feature_weight": "recommend.collaborative_feature_weight",
	"trending_window_days":         "recommend.trending_window_days",
	"trending_half_life_hours":     "recommend.trending_half_life_hours",

	// Activity store
	"activity_enabled": "activity.enabled",
	"duckdb_path":      "activity.path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
//
// Examples:
//   - RETRAIN_SCHEDULE -> retrain.schedule
//   - CACHE_ENABLED    -> cache.enabled
//   - HTTP_PORT        -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

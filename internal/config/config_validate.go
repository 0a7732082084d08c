// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Dhruvil05Patel/NewsXpress/internal/retrain"
)

// ErrInvalidSchedule is wrapped by every retraining schedule validation failure.
var ErrInvalidSchedule = errors.New("invalid retraining schedule")

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validCacheBackends = map[string]bool{
	"memory": true,
	"badger": true,
}

var validNormalizations = map[string]bool{
	"minmax": true,
	"max":    true,
	"none":   true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateArtifacts(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateRetrain(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateActivity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < 1 || c.Server.RateLimitReqs > 100000 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Server.RateLimitWindow)
	}
	if c.Server.ClearCachePerSecond <= 0 {
		return fmt.Errorf("CLEAR_CACHE_PER_SECOND must be positive")
	}
	return nil
}

func (c *Config) validateArtifacts() error {
	if strings.TrimSpace(c.Artifacts.Dir) == "" {
		return fmt.Errorf("ARTIFACTS_DIR is required")
	}
	return nil
}

// validateCache validates cache settings. TTLs are checked even when the
// cache is disabled (SetEnabled can turn it on); backend settings only if
// enabled.
func (c *Config) validateCache() error {
	for _, ttl := range []struct {
		name  string
		value time.Duration
	}{
		{"CACHE_SIMILAR_TTL", c.Cache.SimilarTTL},
		{"CACHE_PERSONALIZED_TTL", c.Cache.PersonalizedTTL},
		{"CACHE_TRENDING_TTL", c.Cache.TrendingTTL},
	} {
		if ttl.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", ttl.name, ttl.value)
		}
	}

	if !c.Cache.Enabled {
		return nil
	}
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, badger")
	}
	if c.Cache.Backend == "badger" && c.Cache.BadgerPath == "" {
		return fmt.Errorf("CACHE_BADGER_PATH is required when CACHE_BACKEND=badger")
	}
	if c.Cache.BreakerFailures == 0 {
		return fmt.Errorf("CACHE_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

// validateRetrain validates the retraining schedule (only if enabled) with
// the parser the scheduler uses.
func (c *Config) validateRetrain() error {
	r := c.Retrain
	if r.ReloadURL != "" {
		u, err := url.ParseRequestURI(r.ReloadURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("RETRAIN_RELOAD_URL must be an absolute http(s) URL, got %q", r.ReloadURL)
		}
		if r.ReloadTimeout <= 0 {
			return fmt.Errorf("RETRAIN_RELOAD_TIMEOUT must be positive, got %v", r.ReloadTimeout)
		}
	}
	if !r.Enabled {
		return nil
	}

	if _, err := retrain.ParseSchedule(r.Schedule, r.Hour, r.Minute, r.Day); err != nil {
		return fmt.Errorf("%w: RETRAIN_SCHEDULE/RETRAIN_HOUR/RETRAIN_MINUTE/RETRAIN_DAY: %w", ErrInvalidSchedule, err)
	}

	if r.TickInterval < time.Second {
		return fmt.Errorf("RETRAIN_TICK_INTERVAL must be at least 1s, got %v", r.TickInterval)
	}
	if r.Location != "" && r.Location != "Local" {
		if _, err := time.LoadLocation(r.Location); err != nil {
			return fmt.Errorf("RETRAIN_TIMEZONE is invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MaxTopN < 1 {
		return fmt.Errorf("MAX_TOP_N must be at least 1")
	}
	if r.DefaultTopN < 1 || r.DefaultTopN > r.MaxTopN {
		return fmt.Errorf("DEFAULT_TOP_N must be between 1 and MAX_TOP_N (%d), got %d", r.MaxTopN, r.DefaultTopN)
	}
	if r.HybridContentWeight < 0 || r.HybridCollaborativeWeight < 0 {
		return fmt.Errorf("hybrid weights must not be negative")
	}
	if r.HybridContentWeight+r.HybridCollaborativeWeight == 0 {
		return fmt.Errorf("at least one hybrid weight must be positive")
	}
	if !validNormalizations[r.HybridNormalization] {
		return fmt.Errorf("HYBRID_NORMALIZATION must be one of: minmax, max, none")
	}
	if r.CollaborativeFeatureWeight < 0 || r.CollaborativeFeatureWeight > 1 {
		return fmt.Errorf("COLLABORATIVE_FEATURE_WEIGHT must be between 0 and 1, got %v", r.CollaborativeFeatureWeight)
	}
	if r.TrendingWindowDays < 1 {
		return fmt.Errorf("TRENDING_WINDOW_DAYS must be at least 1")
	}
	if r.TrendingHalfLifeHours <= 0 {
		return fmt.Errorf("TRENDING_HALF_LIFE_HOURS must be positive")
	}
	return nil
}

func (c *Config) validateActivity() error {
	if c.Activity.Enabled && c.Activity.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required when ACTIVITY_ENABLED=true")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

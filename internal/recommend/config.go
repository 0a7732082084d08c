// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import (
	"fmt"
	"time"
)

// Normalization selects how hybrid rescales each strategy before weighting.
type Normalization string

const (
	// NormalizeMinMax maps scores to [0, 1] via (s-min)/(max-min).
	NormalizeMinMax Normalization = "minmax"
	// NormalizeMax divides by the maximum absolute score.
	NormalizeMax Normalization = "max"
	// NormalizeNone uses raw scores.
	NormalizeNone Normalization = "none"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Hybrid controls the content/collaborative merge.
	Hybrid HybridConfig `json:"hybrid"`

	// Collaborative contains neighbour-scoring parameters.
	Collaborative CollaborativeConfig `json:"collaborative"`

	// Trending contains popularity decay parameters.
	Trending TrendingConfig `json:"trending"`

	// Cache holds per-strategy result TTLs used by Service.
	Cache CacheTTLConfig `json:"cache"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is used by callers that do not specify a count.
	// Default: 10.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps every request.
	// Default: 100.
	MaxTopN int `json:"max_top_n"`
}

// HybridConfig controls the hybrid merge.
type HybridConfig struct {
	// ContentWeight is the weight of normalized content seed scores.
	// Default: 0.5.
	ContentWeight float64 `json:"content_weight"`

	// CollaborativeWeight is the weight of normalized collaborative scores.
	// Default: 0.5.
	CollaborativeWeight float64 `json:"collaborative_weight"`

	// Normalization is applied to each strategy independently.
	// Default: minmax.
	Normalization Normalization `json:"normalization"`
}

// CollaborativeConfig contains neighbour-scoring parameters.
type CollaborativeConfig struct {
	// FeatureWeight blends cosine affinity between the user's interaction
	// profile and each article feature vector into the neighbour score.
	// 0 uses neighbour scores only.
	// Default: 0.3.
	FeatureWeight float64 `json:"feature_weight"`
}

// TrendingConfig contains popularity decay parameters.
type TrendingConfig struct {
	// WindowDays is used when a request passes a non-positive window.
	// Default: 7.
	WindowDays int `json:"window_days"`

	// HalfLife is the age at which an article's popularity counts half.
	// Default: 48h.
	HalfLife time.Duration `json:"half_life"`
}

// CacheTTLConfig holds per-strategy result TTLs.
type CacheTTLConfig struct {
	// Similar TTL. Default: 30m.
	Similar time.Duration `json:"similar"`

	// Personalized TTL (collaborative and hybrid). Default: 15m.
	Personalized time.Duration `json:"personalized"`

	// Trending TTL. Default: 5m.
	Trending time.Duration `json:"trending"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultTopN: 10,
			MaxTopN:     100,
		},
		Hybrid: HybridConfig{
			ContentWeight:       0.5,
			CollaborativeWeight: 0.5,
			Normalization:       NormalizeMinMax,
		},
		Collaborative: CollaborativeConfig{
			FeatureWeight: 0.3,
		},
		Trending: TrendingConfig{
			WindowDays: 7,
			HalfLife:   48 * time.Hour,
		},
		Cache: CacheTTLConfig{
			Similar:      30 * time.Minute,
			Personalized: 15 * time.Minute,
			Trending:     5 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.MaxTopN < 1 {
		return fmt.Errorf("limits.max_top_n must be positive, got %d", c.Limits.MaxTopN)
	}
	if c.Limits.DefaultTopN < 1 || c.Limits.DefaultTopN > c.Limits.MaxTopN {
		return fmt.Errorf("limits.default_top_n must be in [1, %d], got %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}

	if c.Hybrid.ContentWeight < 0 || c.Hybrid.CollaborativeWeight < 0 {
		return fmt.Errorf("hybrid weights must be non-negative, got %f/%f", c.Hybrid.ContentWeight, c.Hybrid.CollaborativeWeight)
	}
	switch c.Hybrid.Normalization {
	case NormalizeMinMax, NormalizeMax, NormalizeNone:
	default:
		return fmt.Errorf("hybrid.normalization must be minmax, max or none, got %q", c.Hybrid.Normalization)
	}

	if c.Collaborative.FeatureWeight < 0 || c.Collaborative.FeatureWeight > 1 {
		return fmt.Errorf("collaborative.feature_weight must be in [0, 1], got %f", c.Collaborative.FeatureWeight)
	}

	if c.Trending.WindowDays < 1 {
		return fmt.Errorf("trending.window_days must be positive, got %d", c.Trending.WindowDays)
	}
	if c.Trending.HalfLife <= 0 {
		return fmt.Errorf("trending.half_life must be positive, got %v", c.Trending.HalfLife)
	}

	if c.Cache.Similar <= 0 || c.Cache.Personalized <= 0 || c.Cache.Trending <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

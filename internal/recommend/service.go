// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/cache"
	"github.com/Dhruvil05Patel/NewsXpress/internal/metrics"
)

// Cache outcome labels for the recommendation metric.
const (
	cacheHit      = "hit"
	cacheMiss     = "miss"
	cacheDisabled = "disabled"
)

// Result is a served recommendation list.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	FromCache       bool             `json:"from_cache"`
}

// Service puts the cache in front of the engine. It is constructed once
// and shared by the HTTP handlers.
type Service struct {
	engine *Engine
	cache  *cache.Manager
	logger zerolog.Logger
}

// NewService creates a Service. A nil cache manager disables caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(engine *Engine, cacheManager *cache.Manager, logger zerolog.Logger) *Service {
	return &Service{
		engine: engine,
		cache:  cacheManager,
		logger: logger.With().Str("component", "recommend_service").Logger(),
	}
}

// Engine returns the underlying engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Similar serves content-based recommendations for articleID.
func (s *Service) Similar(ctx context.Context, articleID string, topN int, exclude []string) Result {
	n := s.engine.limit(topN)
	key := cacheKey{strategy: StrategySimilar, scope: cache.ScopeArticle, id: articleID, params: cache.Params{
		"top_n":   n,
		"exclude": cache.SortedList(exclude),
	}}
	return s.serve(ctx, key, s.engine.config.Cache.Similar, n, func() []Recommendation {
		return s.engine.Similar(ctx, articleID, n, exclude)
	})
}

// Personalized serves collaborative or hybrid recommendations for userID.
// recentIDs seed the content side of hybrid and are ignored otherwise.
// Any other method returns ErrUnknownMethod.
func (s *Service) Personalized(ctx context.Context, userID, method string, recentIDs []string, topN int, exclude []string) (Result, error) {
	n := s.engine.limit(topN)
	ttl := s.engine.config.Cache.Personalized

	switch method {
	case StrategyCollaborative:
		key := cacheKey{strategy: StrategyCollaborative, scope: cache.ScopeUser, id: userID, params: cache.Params{
			"top_n":   n,
			"exclude": cache.SortedList(exclude),
		}}
		return s.serve(ctx, key, ttl, n, func() []Recommendation {
			return s.engine.Collaborative(ctx, userID, n, exclude)
		}), nil

	case StrategyHybrid:
		key := cacheKey{strategy: StrategyHybrid, scope: cache.ScopeUser, id: userID, params: cache.Params{
			"top_n":   n,
			"exclude": cache.SortedList(exclude),
			"recent":  cache.List(recentIDs),
		}}
		return s.serve(ctx, key, ttl, n, func() []Recommendation {
			return s.engine.Hybrid(ctx, userID, recentIDs, n, exclude)
		}), nil

	default:
		return Result{Recommendations: []Recommendation{}}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// Trending serves popularity-ranked recent articles. A non-positive
// windowDays uses the configured default.
func (s *Service) Trending(ctx context.Context, topN, windowDays int) Result {
	n := s.engine.limit(topN)
	if windowDays <= 0 {
		windowDays = s.engine.config.Trending.WindowDays
	}
	key := cacheKey{strategy: StrategyTrending, scope: cache.ScopeGlobal, params: cache.Params{
		"top_n": n,
		"days":  windowDays,
	}}
	return s.serve(ctx, key, s.engine.config.Cache.Trending, n, func() []Recommendation {
		return s.engine.Trending(ctx, n, windowDays)
	})
}

// cacheKey is the unversioned identity of a request.
type cacheKey struct {
	strategy string
	scope    cache.Scope
	id       string
	params   cache.Params
}

// build renders the key for snapshot version v. The version is part of the
// signature, so a result computed on a superseded snapshot can never be
// read back after a reload, even if its Set lands after the invalidation.
func (k cacheKey) build(v int64) string {
	params := make(cache.Params, len(k.params)+1)
	for name, val := range k.params {
		params[name] = val
	}
	params["v"] = v
	return cache.Key(k.strategy, k.scope, k.id, params)
}

// serve is the read-through path shared by every strategy. Results computed
// without a snapshot, or while the snapshot was replaced, are not cached.
func (s *Service) serve(ctx context.Context, k cacheKey, ttl time.Duration, n int, compute func() []Recommendation) Result {
	start := time.Now()
	strategy := k.strategy

	if n == 0 {
		metrics.RecordRecommendation(strategy, cacheDisabled, 0, time.Since(start))
		return Result{Recommendations: []Recommendation{}}
	}

	snap := s.engine.Snapshot()
	var version int64
	if snap != nil {
		version = snap.Version
	}
	key := k.build(version)

	outcome := cacheDisabled
	if s.cache != nil && s.cache.Enabled() {
		var recs []Recommendation
		if s.cache.GetJSON(ctx, key, &recs) {
			if recs == nil {
				recs = []Recommendation{}
			}
			metrics.RecordRecommendation(strategy, cacheHit, len(recs), time.Since(start))
			return Result{Recommendations: recs, FromCache: true}
		}
		outcome = cacheMiss
	}

	recs := compute()

	if outcome == cacheMiss && snap != nil && s.engine.Snapshot() == snap {
		if err := s.cache.SetJSON(ctx, key, recs, ttl); err != nil {
			logger := s.logger.With().Str("strategy", strategy).Logger()
			logger.Debug().Err(err).Msg("Failed to cache recommendations")
		}
	}

	metrics.RecordRecommendation(strategy, outcome, len(recs), time.Since(start))
	return Result{Recommendations: recs}
}

// Reload reloads artifacts and, if a snapshot was published, invalidates
// every cached recommendation. A failed invalidation leaves the cache
// bypassed (see cache.Manager.Invalidate) and is logged.
func (s *Service) Reload(ctx context.Context) LoadOutcome {
	out := s.engine.Load(ctx)
	if out.Success() && s.cache != nil {
		if _, err := s.cache.Invalidate(ctx, "reload"); err != nil {
			s.logger.Error().Err(err).Msg("Artifacts reloaded but the recommendation cache could not be cleared")
		}
	}
	return out
}

// ModelInfo describes the served snapshot.
func (s *Service) ModelInfo() ModelInfo {
	return s.engine.ModelInfo()
}

// CacheEnabled reports whether results are cached.
func (s *Service) CacheEnabled() bool {
	return s.cache != nil && s.cache.Enabled()
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats(ctx context.Context) cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.GetCacheStats(ctx)
}

// ClearUserCache removes every cached result for userID.
func (s *Service) ClearUserCache(ctx context.Context, userID string) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.ClearUserCache(ctx, userID)
}

// ClearArticleCache removes every cached result seeded by articleID.
func (s *Service) ClearArticleCache(ctx context.Context, articleID string) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.ClearArticleCache(ctx, articleID)
}

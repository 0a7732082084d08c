// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/cache"
	"github.com/Dhruvil05Patel/NewsXpress/internal/config"
	"github.com/Dhruvil05Patel/NewsXpress/internal/database"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend/storage"
)

// buildEngineConfig maps the flat configuration onto the engine tunables.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()

	rc.Limits.DefaultTopN = cfg.Recommend.DefaultTopN
	rc.Limits.MaxTopN = cfg.Recommend.MaxTopN

	rc.Hybrid.ContentWeight = cfg.Recommend.HybridContentWeight
	rc.Hybrid.CollaborativeWeight = cfg.Recommend.HybridCollaborativeWeight
	if cfg.Recommend.HybridNormalization != "" {
		rc.Hybrid.Normalization = recommend.Normalization(cfg.Recommend.HybridNormalization)
	}

	rc.Collaborative.FeatureWeight = cfg.Recommend.CollaborativeFeatureWeight

	rc.Trending.WindowDays = cfg.Recommend.TrendingWindowDays
	rc.Trending.HalfLife = time.Duration(cfg.Recommend.TrendingHalfLifeHours * float64(time.Hour))

	rc.Cache.Similar = cfg.Cache.SimilarTTL
	rc.Cache.Personalized = cfg.Cache.PersonalizedTTL
	rc.Cache.Trending = cfg.Cache.TrendingTTL

	return rc
}

// initRecommend creates the engine and the cached service in front of it.
// With ARTIFACTS_LOAD_ON_STARTUP the first snapshot is loaded here; a failed
// load is logged and the server starts anyway, answering with empty results
// until a reload succeeds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initRecommend(ctx context.Context, cfg *config.Config, activity *database.DB, cacheManager *cache.Manager, logger zerolog.Logger) (*recommend.Engine, *recommend.Service, error) {
	store, err := storage.NewStore(cfg.Artifacts.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open artifact store: %w", err)
	}

	var opts []recommend.Option
	if activity != nil {
		opts = append(opts, recommend.WithActivitySource(activity))
	}
	if !cfg.Artifacts.LoadOnStartup {
		opts = append(opts, recommend.WithLazyLoad(recommend.DefaultLazyRetryInterval))
	}

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), recommend.NewLoader(store, logger), logger, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	if cfg.Artifacts.LoadOnStartup {
		out := engine.Load(ctx)
		if !out.Success() {
			logger.Warn().
				Str("dir", cfg.Artifacts.Dir).
				Msg("No model artifacts loaded at startup, serving empty results until a reload succeeds")
		}
	}

	return engine, recommend.NewService(engine, cacheManager, logger), nil
}

// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/cache"
	"github.com/Dhruvil05Patel/NewsXpress/internal/config"
)

// initCache builds the recommendation cache. The store is always wrapped in
// a circuit breaker; a disabled cache still gets a manager so the API can
// report its state.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initCache(cfg *config.Config, logger zerolog.Logger) (*cache.Manager, error) {
	var (
		store   cache.Store
		backend = cfg.Cache.Backend
	)

	switch backend {
	case cache.BackendBadger:
		bs, err := cache.OpenBadgerStore(cfg.Cache.BadgerPath, false, logger)
		if err != nil {
			return nil, fmt.Errorf("open badger cache: %w", err)
		}
		store = bs
	default:
		backend = cache.BackendMemory
		store = cache.NewMemoryStore(cfg.Cache.CleanupInterval)
	}

	breaker := cache.NewBreakerStore(store, cache.BreakerSettings{
		Name:                "cache-" + backend,
		ConsecutiveFailures: cfg.Cache.BreakerFailures,
		Timeout:             cfg.Cache.BreakerTimeout,
	})

	logger.Info().
		Bool("enabled", cfg.Cache.Enabled).
		Str("backend", backend).
		Dur("similar_ttl", cfg.Cache.SimilarTTL).
		Dur("personalized_ttl", cfg.Cache.PersonalizedTTL).
		Dur("trending_ttl", cfg.Cache.TrendingTTL).
		Msg("Recommendation cache initialized")

	return cache.NewManager(breaker, backend, cfg.Cache.Enabled, logger), nil
}

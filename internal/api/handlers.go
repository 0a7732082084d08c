// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Dhruvil05Patel/NewsXpress/internal/database"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend"
)

// ActivityStore records interactions and answers per-user statistics.
// *database.DB implements it.
type ActivityStore interface {
	RecordActivity(ctx context.Context, a database.Activity) (database.Activity, bool, error)
	UserReadingStats(ctx context.Context, userID string, since time.Time) (database.ReadingStats, error)
}

// Handler serves the recommendation API.
type Handler struct {
	svc      *recommend.Service
	activity ActivityStore
	logger   zerolog.Logger

	// clearLimiter throttles targeted cache invalidation across all clients.
	clearLimiter *rate.Limiter

	startTime time.Time
}

// NewHandler creates a Handler. activity may be nil, in which case the
// activity endpoints answer 503. clearPerSecond <= 0 disables the
// invalidation throttle.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(svc *recommend.Service, activity ActivityStore, clearPerSecond float64, logger zerolog.Logger) *Handler {
	limit := rate.Inf
	burst := 0
	if clearPerSecond > 0 {
		limit = rate.Limit(clearPerSecond)
		burst = max(1, int(clearPerSecond))
	}

	return &Handler{
		svc:          svc,
		activity:     activity,
		logger:       logger.With().Str("component", "api").Logger(),
		clearLimiter: rate.NewLimiter(limit, burst),
		startTime:    time.Now(),
	}
}

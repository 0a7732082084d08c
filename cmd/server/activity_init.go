// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/config"
	"github.com/Dhruvil05Patel/NewsXpress/internal/database"
)

// initActivity opens the activity store. Returns nil when activity tracking
// is disabled or the database cannot be opened; trending then falls back to
// the popularity computed by the model builder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initActivity(cfg *config.Config, logger zerolog.Logger) *database.DB {
	if !cfg.Activity.Enabled {
		logger.Info().Msg("Activity tracking disabled (ACTIVITY_ENABLED=false)")
		return nil
	}

	db, err := database.New(cfg.Activity.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Activity.Path).
			Msg("Failed to open activity database, continuing without activity tracking")
		return nil
	}
	return db
}

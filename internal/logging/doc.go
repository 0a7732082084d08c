// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

// Package logging provides the zerolog-based logger shared by the
// recommendation service, the retraining scheduler and the CLI.
//
// Initialize once from the loaded configuration:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//
// Components derive their own child logger:
//
//	logger := logging.WithComponent("retrain")
//	logger.Info().Str("cadence", "weekly").Msg("scheduler starting")
//
// HTTP handlers log through the request context so every line carries the
// request ID assigned by the API middleware:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("trending lookup failed")
//
// Always terminate event chains with Msg or Send; an unterminated chain is
// never written.
package logging

// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/config"
	"github.com/Dhruvil05Patel/NewsXpress/internal/retrain"
)

// errRetrainDisabled is returned by initRetrain when no scheduler should run.
var errRetrainDisabled = errors.New("retraining disabled")

// initCoordinator creates the retrain coordinator for the configured model
// builder command. The builder inherits the process environment plus
// ARTIFACTS_DIR so it writes where the loader reads.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initCoordinator(cfg *config.Config, reloader retrain.Reloader, invalidator retrain.Invalidator, logger zerolog.Logger) (*retrain.Coordinator, error) {
	builder, err := retrain.NewCommandBuilder(
		cfg.Retrain.Command,
		cfg.Retrain.WorkDir,
		[]string{"ARTIFACTS_DIR=" + cfg.Artifacts.Dir},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("model builder: %w", err)
	}
	return retrain.NewCoordinator(builder, reloader, invalidator, logger), nil
}

// initRetrain builds the scheduler with the coordinator's job registered on
// the configured cadence. Returns errRetrainDisabled when retraining is off
// or no builder command is configured.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initRetrain(cfg *config.Config, reloader retrain.Reloader, invalidator retrain.Invalidator, logger zerolog.Logger) (*retrain.Scheduler, *retrain.Coordinator, error) {
	if !cfg.Retrain.Enabled {
		logger.Info().Msg("Retraining scheduler disabled (RETRAIN_ENABLED=false)")
		return nil, nil, errRetrainDisabled
	}

	schedule, err := retrain.ParseSchedule(cfg.Retrain.Schedule, cfg.Retrain.Hour, cfg.Retrain.Minute, cfg.Retrain.Day)
	if err != nil {
		return nil, nil, err
	}

	coord, err := initCoordinator(cfg, reloader, invalidator, logger)
	if errors.Is(err, retrain.ErrNoCommand) {
		logger.Warn().Msg("Retraining enabled but RETRAIN_COMMAND is empty, scheduler not started")
		return nil, nil, errRetrainDisabled
	}
	if err != nil {
		return nil, nil, err
	}

	loc, err := retrainLocation(cfg.Retrain.Location)
	if err != nil {
		return nil, nil, err
	}

	sched := retrain.NewScheduler(logger,
		retrain.WithLocation(loc),
		retrain.WithTickInterval(cfg.Retrain.TickInterval),
	)
	job := sched.Every(schedule, coord.Job())

	logger.Info().
		Str("schedule", schedule.String()).
		Str("timezone", loc.String()).
		Time("next_run", job.NextRun()).
		Bool("on_start", cfg.Retrain.OnStart).
		Strs("command", cfg.Retrain.Command).
		Msg("Retraining scheduler configured")

	return sched, coord, nil
}

// initRemoteReloader returns the reloader the standalone scheduler and
// retrain commands use to hand new artifacts to the API process, or nil when
// RETRAIN_RELOAD_URL is unset. These commands never open the cache: the API
// process clears its own cache when it reloads.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initRemoteReloader(cfg *config.Config, logger zerolog.Logger) retrain.Reloader {
	if cfg.Retrain.ReloadURL == "" {
		return nil
	}
	return retrain.NewRemoteReloader(cfg.Retrain.ReloadURL, cfg.Retrain.ReloadTimeout, logger)
}

func retrainLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("retrain timezone: %w", err)
	}
	return loc, nil
}

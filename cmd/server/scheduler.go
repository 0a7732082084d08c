// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dhruvil05Patel/NewsXpress/internal/logging"
	"github.com/Dhruvil05Patel/NewsXpress/internal/supervisor/services"
)

// errReloadURLRequired is returned by the scheduler command when it has no
// way to hand new artifacts to the API process.
var errReloadURLRequired = errors.New("RETRAIN_RELOAD_URL is required: the scheduler hands new artifacts to the API process through its reload endpoint")

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run only the retraining scheduler",
	Long: "Runs the model builder on the configured cadence without serving HTTP. " +
		"After a successful build it calls RETRAIN_RELOAD_URL (the API process's " +
		"POST /api/models/reload), which reloads the artifacts and clears the " +
		"API's recommendation cache. RETRAIN_RELOAD_URL is required.",
	RunE: runScheduler,
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Logger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reloader := initRemoteReloader(cfg, logger)
	if reloader == nil {
		return errReloadURLRequired
	}

	sched, _, err := initRetrain(cfg, reloader, nil, logger)
	if errors.Is(err, errRetrainDisabled) {
		return errors.New("nothing to schedule: set RETRAIN_ENABLED=true and RETRAIN_COMMAND")
	}
	if err != nil {
		return err
	}

	tree, err := newTree(cfg)
	if err != nil {
		return err
	}
	tree.AddSchedulingService(services.NewRetrainService(sched, cfg.Retrain.OnStart, logger))

	runTree(ctx, tree)
	return nil
}

// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Dhruvil05Patel/NewsXpress/internal/logging"
	"github.com/Dhruvil05Patel/NewsXpress/internal/retrain"
)

// errRetrainFailed makes the process exit non-zero after a failed rebuild.
var errRetrainFailed = errors.New("model retraining failed")

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Rebuild every model once and exit",
	Long: "Runs the model builder once. When RETRAIN_RELOAD_URL is set the API " +
		"process is then asked to reload, which also clears its cache; " +
		"otherwise the new artifacts are picked up on the API's next reload or start.",
	RunE: runRetrain,
}

func runRetrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Logger()

	reloader := initRemoteReloader(cfg, logger)
	if reloader == nil {
		logger.Warn().Msg("RETRAIN_RELOAD_URL not set, running API processes keep the previous models until POST /api/models/reload")
	}

	coord, err := initCoordinator(cfg, reloader, nil, logger)
	if errors.Is(err, retrain.ErrNoCommand) {
		return errors.New("RETRAIN_COMMAND is not configured")
	}
	if err != nil {
		return err
	}

	if !coord.RetrainModels(cmd.Context()) {
		status := coord.Status()
		logger.Error().Str("outcome", status.LastOutcome).Str("error", status.LastError).Msg("Retraining failed")
		return errRetrainFailed
	}
	return nil
}

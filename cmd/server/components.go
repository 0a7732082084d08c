// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dhruvil05Patel/NewsXpress/internal/config"
	"github.com/Dhruvil05Patel/NewsXpress/internal/logging"
	"github.com/Dhruvil05Patel/NewsXpress/internal/supervisor"
)

// loadConfig loads the layered configuration and initializes the global
// logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	return cfg, nil
}

// newTree creates the supervisor tree with suture events routed through
// the zerolog-backed slog handler.
func newTree(cfg *config.Config) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}
	return tree, nil
}

// runTree serves the tree until ctx is canceled and reports services that
// did not stop in time.
func runTree(ctx context.Context, tree *supervisor.SupervisorTree) {
	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
}

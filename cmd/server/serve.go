// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dhruvil05Patel/NewsXpress/internal/api"
	"github.com/Dhruvil05Patel/NewsXpress/internal/logging"
	"github.com/Dhruvil05Patel/NewsXpress/internal/supervisor/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation API and the retraining scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Logger()
	logger.Info().Str("version", Version).Msg("Starting NewsXpress recommendation service")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	activity := initActivity(cfg, logger)
	if activity != nil {
		defer func() {
			if err := activity.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close activity database")
			}
		}()
	}

	cacheManager, err := initCache(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := cacheManager.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close cache store")
		}
	}()

	engine, svc, err := initRecommend(ctx, cfg, activity, cacheManager, logger)
	if err != nil {
		return err
	}

	tree, err := newTree(cfg)
	if err != nil {
		return err
	}

	sched, _, err := initRetrain(cfg, engine, cacheManager, logger)
	switch {
	case errors.Is(err, errRetrainDisabled):
	case err != nil:
		return err
	default:
		tree.AddSchedulingService(services.NewRetrainService(sched, cfg.Retrain.OnStart, logger))
	}

	var activityStore api.ActivityStore
	if activity != nil {
		activityStore = activity
	}
	handler := api.NewHandler(svc, activityStore, cfg.Server.ClearCachePerSecond, logger)
	mw := api.NewChiMiddlewareFromConfig(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitReqs,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	)
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))

	runTree(ctx, tree)
	logger.Info().Msg("Application stopped gracefully")
	return nil
}

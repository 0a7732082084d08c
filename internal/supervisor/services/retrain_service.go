// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package services

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// RetrainScheduler is the part of *retrain.Scheduler the service drives.
type RetrainScheduler interface {
	// RunOnStart executes every registered job once without moving the
	// schedule.
	RunOnStart(ctx context.Context)

	// Start runs the poll loop until ctx is canceled and returns ctx.Err().
	Start(ctx context.Context) error
}

// RetrainService runs the retraining scheduler under suture supervision.
// The run-on-start pass happens once per process, not on every restart.
type RetrainService struct {
	scheduler  RetrainScheduler
	runOnStart bool
	started    atomic.Bool
	logger     zerolog.Logger
	name       string
}

// NewRetrainService creates the scheduler service. With runOnStart the
// registered jobs run once before the first scheduled slot.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(scheduler RetrainScheduler, runOnStart bool, logger zerolog.Logger) *RetrainService {
	return &RetrainService{
		scheduler:  scheduler,
		runOnStart: runOnStart,
		logger:     logger.With().Str("service", "retrain").Logger(),
		name:       "retrain-scheduler",
	}
}

// Serve implements the suture.Service interface.
func (s *RetrainService) Serve(ctx context.Context) error {
	if s.runOnStart && s.started.CompareAndSwap(false, true) {
		s.logger.Info().Msg("running retraining on start")
		s.scheduler.RunOnStart(ctx)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return s.scheduler.Start(ctx)
}

// String returns the service name for logging.
func (s *RetrainService) String() string {
	return s.name
}

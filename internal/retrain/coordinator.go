// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package retrain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/metrics"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend"
)

// ErrBuildFailed wraps every failed or errored model build.
var ErrBuildFailed = errors.New("model build failed")

// Retrain outcomes, used as the metric label and in Status.
const (
	OutcomeSuccess      = "success"
	OutcomeBuildFailed  = "build_failed"
	OutcomeReloadFailed = "reload_failed"

	// OutcomeInvalidateFailed means new artifacts are served but the cache
	// could not be purged; the cache is bypassed until a purge succeeds.
	OutcomeInvalidateFailed = "invalidate_failed"
)

// Reloader publishes freshly built artifacts. *recommend.Engine implements it.
type Reloader interface {
	Load(ctx context.Context) recommend.LoadOutcome
}

// Invalidator drops every cached recommendation. *cache.Manager implements
// it; on error it stops serving from the cache until a later purge succeeds.
type Invalidator interface {
	Invalidate(ctx context.Context, reason string) (int, error)
}

// Status describes the most recent retrain.
type Status struct {
	Running      bool          `json:"running"`
	LastRun      time.Time     `json:"last_run,omitempty"`
	LastOutcome  string        `json:"last_outcome,omitempty"`
	LastDuration time.Duration `json:"last_duration_ns,omitempty"`
	LastError    string        `json:"last_error,omitempty"`
	LastSuccess  time.Time     `json:"last_success,omitempty"`
}

// Coordinator rebuilds models and keeps the cache consistent with them: the
// cache is only invalidated after a build succeeded and its artifacts were
// published.
type Coordinator struct {
	builder  Builder
	reloader Reloader
	cache    Invalidator
	logger   zerolog.Logger

	runMu sync.Mutex

	statusMu sync.RWMutex
	status   Status
}

// NewCoordinator creates a coordinator. reloader and cache may be nil, in
// which case the corresponding step is skipped.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCoordinator(builder Builder, reloader Reloader, cache Invalidator, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		builder:  builder,
		reloader: reloader,
		cache:    cache,
		logger:   logger.With().Str("component", "retrain").Logger(),
	}
}

// RetrainModels rebuilds every model, reloads the artifacts and clears the
// recommendation cache. It returns true only if all three happened. Calls are
// serialized; a call made during a run waits for it.
func (c *Coordinator) RetrainModels(ctx context.Context) bool {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	start := time.Now()
	c.setRunning(start)
	c.logger.Info().Msg("Starting model retraining")

	ok, err := c.build(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrBuildFailed, err)
		c.logger.Error().Err(err).Msg("error during retraining")
		c.finish(OutcomeBuildFailed, start, err)
		return false
	}
	if !ok {
		c.logger.Error().Err(ErrBuildFailed).Msg("Model retraining failed, cache left intact")
		c.finish(OutcomeBuildFailed, start, ErrBuildFailed)
		return false
	}

	if c.reloader != nil {
		out := c.reloader.Load(ctx)
		if !out.Success() {
			err := errors.Join(out.ContentErr, out.CollaborativeErr)
			c.logger.Error().Err(err).Msg("Retrained artifacts failed to load, cache left intact")
			c.finish(OutcomeReloadFailed, start, err)
			return false
		}
		c.logger.Info().
			Str("status", out.Status.String()).
			Msg("Retrained artifacts loaded")
	}

	removed := 0
	if c.cache != nil {
		n, err := c.cache.Invalidate(ctx, "retrain")
		if err != nil {
			c.logger.Error().Err(err).Msg("Models retrained but the recommendation cache could not be cleared")
			c.finish(OutcomeInvalidateFailed, start, err)
			return false
		}
		removed = n
	}

	c.logger.Info().
		Dur("duration", time.Since(start)).
		Int("cache_keys_removed", removed).
		Msg("Models retrained successfully")
	c.finish(OutcomeSuccess, start, nil)
	return true
}

// build runs the builder, converting a panic into an error.
func (c *Coordinator) build(ctx context.Context) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("builder panic: %v", r)
		}
	}()
	return c.builder.TrainAll(ctx)
}

// Job adapts RetrainModels to a scheduler callback.
func (c *Coordinator) Job() JobFunc {
	return func(ctx context.Context) {
		c.RetrainModels(ctx)
	}
}

// Status returns the state of the most recent run.
func (c *Coordinator) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

func (c *Coordinator) setRunning(start time.Time) {
	c.statusMu.Lock()
	c.status.Running = true
	c.status.LastRun = start
	c.statusMu.Unlock()
}

func (c *Coordinator) finish(outcome string, start time.Time, err error) {
	d := time.Since(start)
	metrics.RecordRetrain(outcome, d)

	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.status.Running = false
	c.status.LastOutcome = outcome
	c.status.LastDuration = d
	c.status.LastError = ""
	if err != nil {
		c.status.LastError = err.Error()
	}
	if outcome == OutcomeSuccess {
		c.status.LastSuccess = time.Now()
	}
}

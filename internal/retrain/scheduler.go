// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package retrain

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// State is the scheduler loop state.
type State int32

const (
	StateWaiting State = iota
	StateExecuting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateExecuting:
		return "executing"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// DefaultTickInterval is how often Start checks for due jobs.
const DefaultTickInterval = time.Minute

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source used for due checks.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLocation evaluates schedules in loc instead of time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithTickInterval sets the polling interval of Start.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// Scheduler runs jobs from a single goroutine. Jobs execute inline, so a
// slow job delays every other job and ticks that arrive meanwhile are
// dropped by the ticker.
type Scheduler struct {
	logger zerolog.Logger
	tick   time.Duration
	loc    *time.Location
	now    func() time.Time

	mu      sync.Mutex
	jobs    []*Job
	running atomic.Bool
	state   atomic.Int32
}

// NewScheduler creates a scheduler in the Stopped state.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScheduler(logger zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: logger.With().Str("component", "retrain-scheduler").Logger(),
		tick:   DefaultTickInterval,
		loc:    time.Local,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(int32(StateStopped))
	return s
}

// Every registers fn to run on schedule.
func (s *Scheduler) Every(schedule Schedule, fn JobFunc) *Job {
	job := newJob(schedule, fn, s.loc, s.now())

	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()

	s.logger.Info().
		Str("schedule", schedule.String()).
		Time("next_run", job.NextRun()).
		Msg("Retraining job scheduled")
	return job
}

// Jobs returns the registered jobs.
func (s *Scheduler) Jobs() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Job(nil), s.jobs...)
}

// State returns the current loop state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// RunPending executes every job due at now, in registration order, and
// returns how many callbacks executed.
func (s *Scheduler) RunPending(ctx context.Context, now time.Time) int {
	executed := 0
	for _, job := range s.Jobs() {
		if ctx.Err() != nil {
			break
		}
		if !job.Due(now) {
			continue
		}
		if job.Run(ctx, now) {
			executed++
		} else {
			s.logger.Debug().
				Str("schedule", job.Schedule().String()).
				Int("day", now.In(s.loc).Day()).
				Msg("Monthly job skipped, not its day")
		}
	}
	return executed
}

// RunOnStart executes every job once regardless of its schedule. Next run
// times are left alone.
func (s *Scheduler) RunOnStart(ctx context.Context) {
	prev := State(s.state.Swap(int32(StateExecuting)))
	defer s.state.Store(int32(prev))

	s.logger.Info().Msg("Running retraining jobs on start")
	for _, job := range s.Jobs() {
		if ctx.Err() != nil {
			return
		}
		job.runNow(ctx, s.now())
	}
}

// Start runs the polling loop until ctx is cancelled and then returns
// ctx.Err(). It returns an error immediately if the loop is already running.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("retraining scheduler already running")
	}
	defer s.running.Store(false)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.state.Store(int32(StateWaiting))
	s.logger.Info().
		Dur("tick_interval", s.tick).
		Int("jobs", len(s.Jobs())).
		Msg("Retraining scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.state.Store(int32(StateStopped))
			s.logger.Info().Msg("retraining scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.state.Store(int32(StateExecuting))
			s.RunPending(ctx, s.now())
			s.state.Store(int32(StateWaiting))
		}
	}
}

// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package retrain

import (
	"context"
	"sync"
	"time"
)

// JobFunc is the work a job performs when it fires.
type JobFunc func(ctx context.Context)

// Job is a scheduled callback. It is owned by a Scheduler.
type Job struct {
	schedule Schedule
	fn       JobFunc
	loc      *time.Location

	mu      sync.Mutex
	nextRun time.Time
	lastRun time.Time
}

func newJob(schedule Schedule, fn JobFunc, loc *time.Location, now time.Time) *Job {
	return &Job{
		schedule: schedule,
		fn:       fn,
		loc:      loc,
		nextRun:  schedule.next(now.In(loc)),
	}
}

// Schedule returns the job's schedule.
func (j *Job) Schedule() Schedule {
	return j.schedule
}

// NextRun returns the next time the job is due.
func (j *Job) NextRun() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.nextRun
}

// LastRun returns when the callback last executed, or the zero time.
func (j *Job) LastRun() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastRun
}

// Due reports whether now has reached the next run.
func (j *Job) Due(now time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return !now.Before(j.nextRun)
}

// Run executes the callback and advances the next run past now. A monthly
// job only executes on its day of month; on other days Run just advances.
// It reports whether the callback executed.
func (j *Job) Run(ctx context.Context, now time.Time) bool {
	local := now.In(j.loc)
	execute := j.schedule.Cadence != Monthly || local.Day() == j.schedule.DayOfMonth

	if execute {
		j.fn(ctx)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if execute {
		j.lastRun = now
	}
	j.nextRun = j.schedule.next(local)
	return execute
}

// runNow executes the callback without touching the schedule.
func (j *Job) runNow(ctx context.Context, now time.Time) {
	j.fn(ctx)
	j.mu.Lock()
	j.lastRun = now
	j.mu.Unlock()
}

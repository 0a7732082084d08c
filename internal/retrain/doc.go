// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

/*
Package retrain schedules model rebuilds and keeps the recommendation cache
consistent with the artifacts being served.

Components:
  - Schedule: daily, weekly (on a weekday) or monthly (on a day of month)
    firing at a wall-clock HH:MM in a configured location
  - Scheduler: a single goroutine polling its jobs on a ticker
  - Coordinator: build, reload, then invalidate "rec:*"
  - CommandBuilder: runs the external model builder process

A failed build or a failed reload leaves the cache untouched, since the
engine keeps serving the previous snapshot.

Usage:

	coord := retrain.NewCoordinator(builder, engine, cacheManager, logger)
	sched := retrain.NewScheduler(logger, retrain.WithTickInterval(time.Minute))
	schedule, err := retrain.ParseSchedule("weekly", 3, 30, "monday")
	if err != nil {
		return err
	}
	sched.Every(schedule, coord.Job())
	return sched.Start(ctx)
*/
package retrain

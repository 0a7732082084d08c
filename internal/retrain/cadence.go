// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package retrain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidCadence is returned for a cadence other than daily, weekly
	// or monthly.
	ErrInvalidCadence = errors.New("invalid retraining cadence")

	// ErrInvalidSchedule is returned for an out-of-range time or day.
	ErrInvalidSchedule = errors.New("invalid retraining schedule")
)

// Cadence is how often a job fires.
type Cadence string

const (
	Daily   Cadence = "daily"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
)

// ParseCadence parses a cadence name, ignoring case and surrounding space.
func ParseCadence(s string) (Cadence, error) {
	switch c := Cadence(strings.ToLower(strings.TrimSpace(s))); c {
	case Daily, Weekly, Monthly:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q (must be daily, weekly or monthly)", ErrInvalidCadence, s)
	}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

// Schedule is a parsed cadence plus the wall-clock time it fires at.
// Weekday is used by weekly schedules and DayOfMonth by monthly ones.
type Schedule struct {
	Cadence    Cadence
	Hour       int
	Minute     int
	Weekday    time.Weekday
	DayOfMonth int
}

// ParseSchedule builds a Schedule. day is a weekday name ("monday" or "mon")
// for weekly schedules and a day of month (1-31) for monthly ones; it is
// ignored for daily schedules. An empty day means Monday for weekly and the
// 1st for monthly.
func ParseSchedule(cadence string, hour, minute int, day string) (Schedule, error) {
	c, err := ParseCadence(cadence)
	if err != nil {
		return Schedule{}, err
	}
	if hour < 0 || hour > 23 {
		return Schedule{}, fmt.Errorf("%w: hour %d out of range 0-23", ErrInvalidSchedule, hour)
	}
	if minute < 0 || minute > 59 {
		return Schedule{}, fmt.Errorf("%w: minute %d out of range 0-59", ErrInvalidSchedule, minute)
	}

	s := Schedule{Cadence: c, Hour: hour, Minute: minute}
	day = strings.ToLower(strings.TrimSpace(day))

	switch c {
	case Weekly:
		s.Weekday = time.Monday
		if day != "" {
			wd, ok := weekdays[day]
			if !ok {
				return Schedule{}, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, day)
			}
			s.Weekday = wd
		}
	case Monthly:
		s.DayOfMonth = 1
		if day != "" {
			d, err := strconv.Atoi(day)
			if err != nil || d < 1 || d > 31 {
				return Schedule{}, fmt.Errorf("%w: day of month %q out of range 1-31", ErrInvalidSchedule, day)
			}
			s.DayOfMonth = d
		}
	}
	return s, nil
}

// At returns the firing time as HH:MM.
func (s Schedule) At() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// String describes the schedule, e.g. "weekly on monday at 03:30".
func (s Schedule) String() string {
	switch s.Cadence {
	case Weekly:
		return fmt.Sprintf("weekly on %s at %s", strings.ToLower(s.Weekday.String()), s.At())
	case Monthly:
		return fmt.Sprintf("monthly on day %d at %s", s.DayOfMonth, s.At())
	default:
		return "daily at " + s.At()
	}
}

// next returns the first firing slot strictly after t, evaluated in t's
// location. Monthly schedules fire daily and filter on the day of month when
// run, so a day the month does not have is skipped for that month.
func (s Schedule) next(t time.Time) time.Time {
	candidate := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, t.Location())
	if !candidate.After(t) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	if s.Cadence == Weekly {
		for candidate.Weekday() != s.Weekday {
			candidate = candidate.AddDate(0, 0, 1)
		}
	}
	return candidate
}

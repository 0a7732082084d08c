// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Dhruvil05Patel/NewsXpress/internal/logging"
	"github.com/Dhruvil05Patel/NewsXpress/internal/metrics"
)

// DefaultMergeWindow is how long repeated activity of one type on one article
// by one user accumulates into a single row.
const DefaultMergeWindow = 5 * time.Minute

// queryTimeout bounds every activity query.
const queryTimeout = 10 * time.Second

// ErrInvalidActivity is returned for an activity missing its ids or carrying
// an unknown type.
var ErrInvalidActivity = errors.New("invalid activity")

// Activity types.
const (
	ActivityView     = "view"
	ActivityClick    = "click"
	ActivityRead     = "read"
	ActivityLike     = "like"
	ActivityBookmark = "bookmark"
	ActivityShare    = "share"
)

// ActivityWeights is the popularity contributed by one activity of each type.
var ActivityWeights = map[string]float64{
	ActivityView:     1,
	ActivityClick:    1.5,
	ActivityRead:     3,
	ActivityLike:     4,
	ActivityBookmark: 5,
	ActivityShare:    5,
}

// readMinuteWeight is the popularity contributed per minute of reading time.
const readMinuteWeight = 0.5

// Activity is one tracked user interaction with an article.
type Activity struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	ArticleID          string    `json:"article_id"`
	Type               string    `json:"activity_type"`
	DurationSeconds    int       `json:"duration_seconds"`
	ScrollPercentage   *float64  `json:"scroll_percentage,omitempty"`
	Source             string    `json:"source,omitempty"`
	RecommendationType string    `json:"recommendation_type,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ReadingStats summarizes a user's activity since a point in time.
type ReadingStats struct {
	UserID               string         `json:"user_id"`
	Since                time.Time      `json:"since"`
	TotalArticles        int            `json:"total_articles"`
	TotalActivities      int            `json:"total_activities"`
	TotalDurationSeconds int64          `json:"total_duration_seconds"`
	AvgDurationSeconds   float64        `json:"avg_duration_seconds"`
	ByType               map[string]int `json:"by_type"`
}

// RecordActivity stores a. Activity of the same type on the same article by
// the same user within the merge window is accumulated into the existing
// row: durations add up and the highest scroll percentage is kept. It
// returns the stored row and whether it was merged.
func (db *DB) RecordActivity(ctx context.Context, a Activity) (Activity, bool, error) {
	if a.Type == "" {
		a.Type = ActivityView
	}
	if err := validateActivity(a); err != nil {
		return Activity{}, false, err
	}
	if a.DurationSeconds < 0 {
		a.DurationSeconds = 0
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	stored, merged, err := db.recordActivity(ctx, a)
	op := "insert"
	if merged {
		op = "update"
	}
	metrics.RecordDBQuery(op, "user_activities", time.Since(start), err)
	if err != nil {
		return Activity{}, false, err
	}

	logging.Debug().
		Str("user_id", stored.UserID).
		Str("article_id", stored.ArticleID).
		Str("activity_type", stored.Type).
		Int("duration_seconds", stored.DurationSeconds).
		Bool("merged", merged).
		Msg("Activity recorded")
	return stored, merged, nil
}

func (db *DB) recordActivity(ctx context.Context, a Activity) (Activity, bool, error) {
	now := db.now().UTC()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return Activity{}, false, fmt.Errorf("begin activity transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if db.mergeWindow > 0 {
		existing, found, err := findRecent(ctx, tx, a, now.Add(-db.mergeWindow))
		if err != nil {
			return Activity{}, false, err
		}
		if found {
			existing.DurationSeconds += a.DurationSeconds
			if a.ScrollPercentage != nil && (existing.ScrollPercentage == nil || *a.ScrollPercentage > *existing.ScrollPercentage) {
				existing.ScrollPercentage = a.ScrollPercentage
			}
			existing.UpdatedAt = now

			_, err := tx.ExecContext(ctx, `
				UPDATE user_activities
				SET duration_seconds = ?, scroll_percentage = ?, updated_at = ?
				WHERE id = ?`,
				existing.DurationSeconds, nullFloat(existing.ScrollPercentage), now, existing.ID)
			if err != nil {
				return Activity{}, false, fmt.Errorf("update activity: %w", err)
			}
			if err := tx.Commit(); err != nil {
				return Activity{}, false, fmt.Errorf("commit activity: %w", err)
			}
			return existing, true, nil
		}
	}

	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_activities (
			id, user_id, article_id, activity_type, duration_seconds,
			scroll_percentage, source, recommendation_type, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.ArticleID, a.Type, a.DurationSeconds,
		nullFloat(a.ScrollPercentage), nullString(a.Source), nullString(a.RecommendationType),
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return Activity{}, false, fmt.Errorf("insert activity: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Activity{}, false, fmt.Errorf("commit activity: %w", err)
	}
	return a, false, nil
}

func findRecent(ctx context.Context, tx *sql.Tx, a Activity, since time.Time) (Activity, bool, error) {
	var (
		existing Activity
		scroll   sql.NullFloat64
		source   sql.NullString
		recType  sql.NullString
	)
	err := tx.QueryRowContext(ctx, `
		SELECT CAST(id AS VARCHAR), user_id, article_id, activity_type, duration_seconds,
			scroll_percentage, source, recommendation_type, created_at, updated_at
		FROM user_activities
		WHERE user_id = ? AND article_id = ? AND activity_type = ? AND created_at >= ?
		ORDER BY created_at DESC
		LIMIT 1`,
		a.UserID, a.ArticleID, a.Type, since,
	).Scan(&existing.ID, &existing.UserID, &existing.ArticleID, &existing.Type, &existing.DurationSeconds,
		&scroll, &source, &recType, &existing.CreatedAt, &existing.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Activity{}, false, nil
	}
	if err != nil {
		return Activity{}, false, fmt.Errorf("query recent activity: %w", err)
	}
	if scroll.Valid {
		v := scroll.Float64
		existing.ScrollPercentage = &v
	}
	existing.Source = source.String
	existing.RecommendationType = recType.String
	return existing, true, nil
}

// ArticleActivity returns the popularity of every article with activity since
// the given time: the sum of ActivityWeights per activity plus a reading-time
// bonus. It implements recommend.ActivitySource.
func (db *DB) ArticleActivity(ctx context.Context, since time.Time) (map[string]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	out, err := db.articleActivity(ctx, since)
	metrics.RecordDBQuery("article_activity", "user_activities", time.Since(start), err)
	return out, err
}

func (db *DB) articleActivity(ctx context.Context, since time.Time) (map[string]float64, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT article_id, activity_type, COUNT(*), COALESCE(SUM(duration_seconds), 0)
		FROM user_activities
		WHERE created_at >= ?
		GROUP BY article_id, activity_type`,
		since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query article activity: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var (
			articleID, activityType string
			count                   int64
			duration                int64
		)
		if err := rows.Scan(&articleID, &activityType, &count, &duration); err != nil {
			return nil, fmt.Errorf("scan article activity: %w", err)
		}
		out[articleID] += float64(count)*ActivityWeights[activityType] + float64(duration)/60*readMinuteWeight
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article activity: %w", err)
	}
	return out, nil
}

// UserReadingStats summarizes userID's activity since the given time.
func (db *DB) UserReadingStats(ctx context.Context, userID string, since time.Time) (ReadingStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	stats, err := db.userReadingStats(ctx, userID, since.UTC())
	metrics.RecordDBQuery("reading_stats", "user_activities", time.Since(start), err)
	return stats, err
}

func (db *DB) userReadingStats(ctx context.Context, userID string, since time.Time) (ReadingStats, error) {
	stats := ReadingStats{UserID: userID, Since: since, ByType: make(map[string]int)}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT activity_type, COUNT(*), COALESCE(SUM(duration_seconds), 0)
		FROM user_activities
		WHERE user_id = ? AND created_at >= ?
		GROUP BY activity_type`,
		userID, since)
	if err != nil {
		return stats, fmt.Errorf("query reading stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			activityType string
			count        int
			duration     int64
		)
		if err := rows.Scan(&activityType, &count, &duration); err != nil {
			return stats, fmt.Errorf("scan reading stats: %w", err)
		}
		stats.ByType[activityType] = count
		stats.TotalActivities += count
		stats.TotalDurationSeconds += duration
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate reading stats: %w", err)
	}

	err = db.conn.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT article_id)
		FROM user_activities
		WHERE user_id = ? AND created_at >= ?`,
		userID, since).Scan(&stats.TotalArticles)
	if err != nil {
		return stats, fmt.Errorf("count reading stats articles: %w", err)
	}
	if stats.TotalArticles > 0 {
		stats.AvgDurationSeconds = float64(stats.TotalDurationSeconds) / float64(stats.TotalArticles)
	}
	return stats, nil
}

func validateActivity(a Activity) error {
	if a.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidActivity)
	}
	if a.ArticleID == "" {
		return fmt.Errorf("%w: article id is required", ErrInvalidActivity)
	}
	if _, ok := ActivityWeights[a.Type]; !ok {
		return fmt.Errorf("%w: unknown activity type %q", ErrInvalidActivity, a.Type)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the activity table and its indexes
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS user_activities (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			article_id TEXT NOT NULL,
			activity_type TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			scroll_percentage DOUBLE,
			source TEXT,
			recommendation_type TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_created ON user_activities(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_user_article ON user_activities(user_id, article_id, activity_type)`,
	}
}

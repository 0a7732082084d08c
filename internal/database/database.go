// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

// Package database stores user activity in DuckDB and answers the windowed
// popularity queries the trending strategy ranks by.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/Dhruvil05Patel/NewsXpress/internal/logging"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps the DuckDB connection and provides data access methods
type DB struct {
	conn *sql.DB
	path string
	now  func() time.Time

	// mergeWindow is how far back RecordActivity looks for an activity to
	// accumulate into instead of inserting a new row.
	mergeWindow time.Duration
}

// Option configures a DB.
type Option func(*DB)

// WithClock overrides the time source used for activity timestamps.
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// WithMergeWindow sets the activity merge window. Zero disables merging.
func WithMergeWindow(d time.Duration) Option {
	return func(db *DB) { db.mergeWindow = d }
}

// New opens (or creates) the database at path and initializes the schema.
func New(path string, opts ...Option) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	// Ensure parent directory exists for database file
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	dsn := path
	if path == MemoryPath {
		dsn = ""
	}
	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps an in-memory database shared by every query.
	conn.SetMaxOpenConns(1)

	db := &DB{
		conn:        conn,
		path:        path,
		now:         time.Now,
		mergeWindow: DefaultMergeWindow,
	}
	for _, opt := range opts {
		opt(db)
	}

	if err := db.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Str("path", path).Msg("Activity database ready")
	return db, nil
}

// Close checkpoints file-backed databases and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.path != MemoryPath {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(conn *sql.DB) {
	if conn != nil {
		_ = conn.Close() // Explicitly ignore error - cleanup is best-effort
	}
}

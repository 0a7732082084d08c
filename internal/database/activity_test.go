// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package database

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// testDBSemaphore serializes DuckDB tests; concurrent CGO connections are
// slow to set up and gain nothing here.
var testDBSemaphore = make(chan struct{}, 1)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupTestDB(t *testing.T) (*DB, *testClock) {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	clock := &testClock{now: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)}
	db, err := New(MemoryPath, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, clock
}

func TestRecordActivity_InsertAndMerge(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()

	first, merged, err := db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a1", Type: ActivityRead, DurationSeconds: 30})
	if err != nil {
		t.Fatalf("RecordActivity() error = %v", err)
	}
	if merged || first.ID == "" {
		t.Fatalf("first activity = %+v merged=%v, want new row", first, merged)
	}

	clock.Advance(2 * time.Minute)
	scroll := 80.0
	second, merged, err := db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a1", Type: ActivityRead, DurationSeconds: 45, ScrollPercentage: &scroll})
	if err != nil {
		t.Fatalf("RecordActivity() error = %v", err)
	}
	if !merged {
		t.Fatal("activity inside the merge window was not merged")
	}
	if second.ID != first.ID {
		t.Errorf("merged into %s, want %s", second.ID, first.ID)
	}
	if second.DurationSeconds != 75 {
		t.Errorf("DurationSeconds = %d, want 75", second.DurationSeconds)
	}
	if second.ScrollPercentage == nil || *second.ScrollPercentage != 80 {
		t.Errorf("ScrollPercentage = %v, want 80", second.ScrollPercentage)
	}

	// A lower scroll does not overwrite the max.
	lower := 10.0
	third, _, _ := db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a1", Type: ActivityRead, ScrollPercentage: &lower})
	if third.ScrollPercentage == nil || *third.ScrollPercentage != 80 {
		t.Errorf("ScrollPercentage after lower = %v, want 80", third.ScrollPercentage)
	}

	// A different type is a separate row.
	if _, merged, _ := db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a1", Type: ActivityLike}); merged {
		t.Error("different activity type was merged")
	}

	// Outside the window a new row starts.
	clock.Advance(10 * time.Minute)
	if _, merged, _ := db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a1", Type: ActivityRead}); merged {
		t.Error("activity outside the merge window was merged")
	}
}

func TestRecordActivity_Validation(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		a    Activity
	}{
		{"missing user", Activity{ArticleID: "a1"}},
		{"missing article", Activity{UserID: "u1"}},
		{"unknown type", Activity{UserID: "u1", ArticleID: "a1", Type: "hover"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := db.RecordActivity(ctx, tt.a); !errors.Is(err, ErrInvalidActivity) {
				t.Errorf("RecordActivity() error = %v, want ErrInvalidActivity", err)
			}
		})
	}

	stored, _, err := db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a1", DurationSeconds: -5})
	if err != nil {
		t.Fatalf("RecordActivity() error = %v", err)
	}
	if stored.Type != ActivityView || stored.DurationSeconds != 0 {
		t.Errorf("defaults = %q/%d, want view/0", stored.Type, stored.DurationSeconds)
	}
}

func TestArticleActivity(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()
	since := clock.Now()

	record := func(user, article, typ string, seconds int) {
		t.Helper()
		if _, _, err := db.RecordActivity(ctx, Activity{UserID: user, ArticleID: article, Type: typ, DurationSeconds: seconds}); err != nil {
			t.Fatalf("RecordActivity() error = %v", err)
		}
	}

	record("u1", "a1", ActivityView, 0)
	record("u2", "a1", ActivityView, 0)
	record("u1", "a1", ActivityBookmark, 0)
	record("u1", "a2", ActivityRead, 120)
	clock.Advance(time.Minute)

	got, err := db.ArticleActivity(ctx, since)
	if err != nil {
		t.Fatalf("ArticleActivity() error = %v", err)
	}

	want := map[string]float64{
		"a1": 2*ActivityWeights[ActivityView] + ActivityWeights[ActivityBookmark],
		"a2": ActivityWeights[ActivityRead] + 2*readMinuteWeight,
	}
	if len(got) != len(want) {
		t.Fatalf("ArticleActivity() = %v, want %v", got, want)
	}
	for id, w := range want {
		if math.Abs(got[id]-w) > 1e-9 {
			t.Errorf("activity[%s] = %v, want %v", id, got[id], w)
		}
	}

	later, err := db.ArticleActivity(ctx, clock.Now())
	if err != nil {
		t.Fatalf("ArticleActivity() error = %v", err)
	}
	if len(later) != 0 {
		t.Errorf("activity after window start = %v, want empty", later)
	}
}

func TestUserReadingStats(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()
	since := clock.Now().Add(-time.Hour)

	_, _, _ = db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a1", Type: ActivityRead, DurationSeconds: 60})
	_, _, _ = db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a2", Type: ActivityRead, DurationSeconds: 30})
	_, _, _ = db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a2", Type: ActivityLike})
	_, _, _ = db.RecordActivity(ctx, Activity{UserID: "u2", ArticleID: "a1", Type: ActivityView})

	stats, err := db.UserReadingStats(ctx, "u1", since)
	if err != nil {
		t.Fatalf("UserReadingStats() error = %v", err)
	}
	if stats.TotalArticles != 2 || stats.TotalActivities != 3 {
		t.Errorf("articles/activities = %d/%d, want 2/3", stats.TotalArticles, stats.TotalActivities)
	}
	if stats.TotalDurationSeconds != 90 || stats.AvgDurationSeconds != 45 {
		t.Errorf("duration total/avg = %d/%v, want 90/45", stats.TotalDurationSeconds, stats.AvgDurationSeconds)
	}
	if stats.ByType[ActivityRead] != 2 || stats.ByType[ActivityLike] != 1 {
		t.Errorf("ByType = %v", stats.ByType)
	}

	empty, err := db.UserReadingStats(ctx, "nobody", since)
	if err != nil {
		t.Fatalf("UserReadingStats() error = %v", err)
	}
	if empty.TotalArticles != 0 || empty.AvgDurationSeconds != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestNew_FileBacked(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "activity.duckdb")

	db, err := New(path, WithMergeWindow(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	_, _, _ = db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a1"})
	if _, merged, _ := db.RecordActivity(ctx, Activity{UserID: "u1", ArticleID: "a1"}); merged {
		t.Error("merge window 0 should never merge")
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.ArticleActivity(ctx, time.Time{})
	if err != nil {
		t.Fatalf("ArticleActivity() error = %v", err)
	}
	if got["a1"] != 2*ActivityWeights[ActivityView] {
		t.Errorf("persisted activity = %v", got)
	}
}

func TestNew_EmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("New(\"\") should fail")
	}
}

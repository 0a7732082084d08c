// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package cache

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(0)
	m := NewManager(store, BackendMemory, true, zerolog.Nop())
	t.Cleanup(func() { _ = m.Close() })
	return m, store
}

// seed fills m with one entry per key.
func seed(t *testing.T, m *Manager, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if err := m.Set(context.Background(), k, []byte("v"), time.Hour); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}
}

func remainingKeys(t *testing.T, s Store) []string {
	t.Helper()
	keys, err := s.Keys(context.Background(), "")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	return keys
}

func TestManager_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	if _, ok := m.Get(ctx, "rec:x"); ok {
		t.Error("expected miss on empty cache")
	}
	seed(t, m, "rec:x")
	if v, ok := m.Get(ctx, "rec:x"); !ok || string(v) != "v" {
		t.Errorf("Get() = %q, %v", v, ok)
	}

	if err := m.Set(ctx, "rec:zero", []byte("v"), 0); err != nil {
		t.Errorf("Set() with zero TTL error = %v", err)
	}
	if _, ok := m.Get(ctx, "rec:zero"); ok {
		t.Error("zero TTL should store nothing")
	}
}

func TestManager_JSON(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, store := newTestManager(t)

	type rec struct {
		ID    string  `json:"article_id"`
		Score float64 `json:"score"`
	}
	want := []rec{{"a2", 0.8}, {"a3", 0.3}}

	if err := m.SetJSON(ctx, "rec:similar:article:a1:", want, time.Minute); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	var got []rec
	if !m.GetJSON(ctx, "rec:similar:article:a1:", &got) {
		t.Fatal("GetJSON() missed")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetJSON() = %v, want %v", got, want)
	}

	_ = store.Set(ctx, "rec:bad", []byte("{not json"), time.Minute)
	if m.GetJSON(ctx, "rec:bad", &got) {
		t.Error("undecodable entry should be a miss")
	}
}

func TestManager_DeletePattern(t *testing.T) {
	t.Parallel()

	all := []string{
		"rec:similar:article:a1:top_n=10",
		"rec:similar:article:a2:top_n=10",
		"rec:hybrid:user:u1:top_n=5",
		"rec:collaborative:user:u1:top_n=5",
		"rec:collaborative:user:u10:top_n=5",
		"rec:trending:global:_:days=7",
		"other:key",
	}

	tests := []struct {
		name    string
		pattern string
		removed int
		left    []string
	}{
		{
			name:    "namespace",
			pattern: NamespacePattern,
			removed: 6,
			left:    []string{"other:key"},
		},
		{
			name:    "trailing star prefix",
			pattern: "rec:similar:*",
			removed: 2,
			left: []string{
				"other:key",
				"rec:collaborative:user:u10:top_n=5",
				"rec:collaborative:user:u1:top_n=5",
				"rec:hybrid:user:u1:top_n=5",
				"rec:trending:global:_:days=7",
			},
		},
		{
			name:    "inner star",
			pattern: "rec:*:user:u1:*",
			removed: 2,
			left: []string{
				"other:key",
				"rec:collaborative:user:u10:top_n=5",
				"rec:similar:article:a1:top_n=10",
				"rec:similar:article:a2:top_n=10",
				"rec:trending:global:_:days=7",
			},
		},
		{
			name:    "exact",
			pattern: "rec:trending:global:_:days=7",
			removed: 1,
			left: []string{
				"other:key",
				"rec:collaborative:user:u10:top_n=5",
				"rec:collaborative:user:u1:top_n=5",
				"rec:hybrid:user:u1:top_n=5",
				"rec:similar:article:a1:top_n=10",
				"rec:similar:article:a2:top_n=10",
			},
		},
		{
			name:    "no match",
			pattern: "rec:*:user:nobody:*",
			removed: 0,
			left: []string{
				"other:key",
				"rec:collaborative:user:u10:top_n=5",
				"rec:collaborative:user:u1:top_n=5",
				"rec:hybrid:user:u1:top_n=5",
				"rec:similar:article:a1:top_n=10",
				"rec:similar:article:a2:top_n=10",
				"rec:trending:global:_:days=7",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, store := newTestManager(t)
			seed(t, m, all...)

			got, err := m.DeletePattern(context.Background(), tt.pattern)
			if err != nil {
				t.Fatalf("DeletePattern(%q) error = %v", tt.pattern, err)
			}
			if got != tt.removed {
				t.Errorf("DeletePattern(%q) = %d, want %d", tt.pattern, got, tt.removed)
			}
			if got := remainingKeys(t, store); !reflect.DeepEqual(got, tt.left) {
				t.Errorf("remaining = %v, want %v", got, tt.left)
			}
		})
	}
}

func TestManager_EntityInvalidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, store := newTestManager(t)

	userKey := Key("hybrid", ScopeUser, "u1", Params{"top_n": 5})
	collabKey := Key("collaborative", ScopeUser, "u1", nil)
	otherUser := Key("hybrid", ScopeUser, "u2", nil)
	articleKey := Key("similar", ScopeArticle, "a1", Params{"top_n": 10})
	newStrategy := Key("some-future-strategy", ScopeArticle, "a1", nil)
	trending := Key("trending", ScopeGlobal, "", nil)
	seed(t, m, userKey, collabKey, otherUser, articleKey, newStrategy, trending)

	if n, err := m.ClearUserCache(ctx, "u1"); n != 2 || err != nil {
		t.Errorf("ClearUserCache() = %d, %v; want 2", n, err)
	}
	if n, err := m.ClearArticleCache(ctx, "a1"); n != 2 || err != nil {
		t.Errorf("ClearArticleCache() = %d, %v; want 2", n, err)
	}

	want := []string{otherUser, trending}
	if got := remainingKeys(t, store); !reflect.DeepEqual(got, want) {
		t.Errorf("remaining = %v, want %v", got, want)
	}

	if n, err := m.Invalidate(ctx, "test"); n != 2 || err != nil {
		t.Errorf("Invalidate() = %d, %v; want 2", n, err)
	}
}

func TestManager_Disabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, store := newTestManager(t)
	seed(t, m, "rec:a")

	m.SetEnabled(false)
	if m.Enabled() {
		t.Fatal("Enabled() should be false")
	}

	if _, ok := m.Get(ctx, "rec:a"); ok {
		t.Error("disabled cache should always miss")
	}
	_ = m.Set(ctx, "rec:b", []byte("v"), time.Hour)
	if n, _ := store.Len(ctx); n != 1 {
		t.Errorf("disabled Set should be a no-op, store has %d keys", n)
	}

	// Invalidation still reaches the store while disabled.
	if n, _ := m.DeletePattern(ctx, NamespacePattern); n != 1 {
		t.Errorf("DeletePattern() while disabled = %d, want 1", n)
	}

	m.SetEnabled(true)
	if _, ok := m.Get(ctx, "rec:a"); ok {
		t.Error("entry invalidated while disabled should not resurface")
	}
}

func TestManager_StoreFailureIsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(&failingStore{err: errBackendDown}, BackendBadger, true, zerolog.Nop())

	if _, ok := m.Get(ctx, "rec:a"); ok {
		t.Error("store failure should be a miss")
	}
	if err := m.Set(ctx, "rec:a", []byte("v"), time.Minute); err == nil {
		t.Error("Set() should surface store error")
	}
	if n, err := m.DeletePattern(ctx, "rec:*:user:u1:*"); n != 0 || !errors.Is(err, errBackendDown) {
		t.Errorf("DeletePattern() on failing store = %d, %v; want 0, errBackendDown", n, err)
	}

	stats := m.GetCacheStats(ctx)
	if stats.Error == "" {
		t.Error("GetCacheStats() should report store error")
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

func TestManager_Stats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewBreakerStore(NewMemoryStore(0), BreakerSettings{Name: "test-manager-stats"})
	m := NewManager(store, BackendMemory, true, zerolog.Nop())
	defer m.Close()

	seed(t, m, "rec:a", "rec:b")
	m.Get(ctx, "rec:a")
	m.Get(ctx, "rec:a")
	m.Get(ctx, "rec:a")
	m.Get(ctx, "rec:missing")

	stats := m.GetCacheStats(ctx)
	if !stats.Enabled || stats.Backend != BackendMemory {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Keys != 2 {
		t.Errorf("Keys = %d, want 2", stats.Keys)
	}
	if stats.Hits != 3 || stats.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 3/1", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.75 {
		t.Errorf("HitRate = %v, want 0.75", stats.HitRate)
	}
	if stats.BreakerState != "closed" {
		t.Errorf("BreakerState = %q, want closed", stats.BreakerState)
	}
	if stats.LastCleanup.IsZero() {
		t.Error("LastCleanup should be forwarded from memory store")
	}
}

// prefixFailStore is a MemoryStore whose prefix deletes fail while fail is set.
type prefixFailStore struct {
	*MemoryStore
	fail atomic.Bool
}

func (s *prefixFailStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if s.fail.Load() {
		return 0, errBackendDown
	}
	return s.MemoryStore.DeletePrefix(ctx, prefix)
}

func TestManager_FailedInvalidateBypassesUntilPurged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &prefixFailStore{MemoryStore: NewMemoryStore(0)}
	m := NewManager(store, BackendMemory, true, zerolog.Nop())
	defer m.Close()
	m.purgeRetry = time.Hour

	seed(t, m, "rec:similar:article:a1:")
	store.fail.Store(true)

	if _, err := m.Invalidate(ctx, "retrain"); !errors.Is(err, errBackendDown) {
		t.Fatalf("Invalidate() error = %v, want errBackendDown", err)
	}
	if !m.PurgePending() || !m.GetCacheStats(ctx).PurgePending {
		t.Fatal("failed invalidation should leave a purge pending")
	}

	// The stale entry is still in the store but must not be served.
	if _, ok := m.Get(ctx, "rec:similar:article:a1:"); ok {
		t.Error("stale entry served after a failed invalidation")
	}
	_ = m.Set(ctx, "rec:trending:global:_:", []byte("v"), time.Hour)
	if n, _ := store.Len(ctx); n != 1 {
		t.Errorf("Set while a purge is pending wrote to the store, keys = %d", n)
	}

	// The store recovers; the next read retries the purge once the
	// interval has passed.
	store.fail.Store(false)
	m.purgeRetry = 0
	if _, ok := m.Get(ctx, "rec:similar:article:a1:"); ok {
		t.Error("stale entry served after the purge retry")
	}
	if m.PurgePending() {
		t.Error("successful retry should clear the pending purge")
	}
	if n, _ := store.Len(ctx); n != 0 {
		t.Errorf("keys after purge = %d, want 0", n)
	}

	seed(t, m, "rec:x")
	if _, ok := m.Get(ctx, "rec:x"); !ok {
		t.Error("cache should serve again after the purge")
	}
}

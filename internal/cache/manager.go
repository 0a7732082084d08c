// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/metrics"
)

// Backend names reported in Stats.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Stats is a point-in-time view of the cache.
type Stats struct {
	Enabled      bool      `json:"enabled"`
	Backend      string    `json:"backend"`
	Keys         int       `json:"keys"`
	Hits         int64     `json:"hits"`
	Misses       int64     `json:"misses"`
	HitRate      float64   `json:"hit_rate"`
	Evictions    int64     `json:"evictions"`
	LastCleanup  time.Time `json:"last_cleanup,omitempty"`
	BreakerState string    `json:"breaker_state,omitempty"`
	Error        string    `json:"error,omitempty"`

	// PurgePending is set while a failed namespace invalidation has the
	// cache bypassed.
	PurgePending bool `json:"purge_pending,omitempty"`
}

// DefaultPurgeRetryInterval is how often a pending namespace purge is
// retried from the read path.
const DefaultPurgeRetryInterval = 30 * time.Second

// Manager is the recommendation cache. Reads never fail: a store error is
// a miss. When disabled, Get always misses and Set does nothing, but
// invalidation still reaches the store so stale entries cannot resurface on
// re-enable.
//
// A failed Invalidate leaves the namespace in an unknown state, so the
// manager bypasses the store (every Get misses, every Set is dropped) until
// a later purge succeeds. Get retries the purge at most once per
// purgeRetry.
type Manager struct {
	store   Store
	backend string
	enabled atomic.Bool

	purgePending atomic.Bool
	lastPurgeTry atomic.Int64
	purgeRetry   time.Duration

	hits   atomic.Int64
	misses atomic.Int64

	logger zerolog.Logger
}

// NewManager creates a Manager over store.
func NewManager(store Store, backend string, enabled bool, logger zerolog.Logger) *Manager {
	m := &Manager{
		store:      store,
		backend:    backend,
		purgeRetry: DefaultPurgeRetryInterval,
		logger:     logger.With().Str("component", "cache").Logger(),
	}
	m.SetEnabled(enabled)
	return m
}

// Get returns the cached value for key.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, bool) {
	if !m.enabled.Load() {
		return nil, false
	}
	if m.purgePending.Load() && !m.retryPurge(ctx) {
		m.misses.Add(1)
		metrics.RecordCacheOp("get", "bypass")
		return nil, false
	}

	value, ok, err := m.store.Get(ctx, key)
	switch {
	case err != nil:
		m.misses.Add(1)
		metrics.RecordCacheOp("get", "error")
		m.logger.Debug().Err(err).Str("key", key).Msg("Cache get failed, treating as miss")
		return nil, false
	case !ok:
		m.misses.Add(1)
		metrics.RecordCacheOp("get", "miss")
		return nil, false
	default:
		m.hits.Add(1)
		metrics.RecordCacheOp("get", "hit")
		return value, true
	}
}

// Set stores value under key for ttl. A non-positive ttl stores nothing.
// Store errors are logged and returned; callers serving a request may
// ignore them.
func (m *Manager) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !m.enabled.Load() || ttl <= 0 || m.purgePending.Load() {
		return nil
	}
	if err := m.store.Set(ctx, key, value, ttl); err != nil {
		metrics.RecordCacheOp("set", "error")
		m.logger.Debug().Err(err).Str("key", key).Msg("Cache set failed")
		return err
	}
	metrics.RecordCacheOp("set", "ok")
	return nil
}

// GetJSON decodes the cached value for key into target. A value that does
// not decode is treated as a miss.
func (m *Manager) GetJSON(ctx context.Context, key string, target any) bool {
	data, ok := m.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		m.logger.Debug().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return false
	}
	return true
}

// SetJSON encodes value and stores it under key.
func (m *Manager) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !m.enabled.Load() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	return m.Set(ctx, key, data, ttl)
}

// Delete removes a single key.
func (m *Manager) Delete(ctx context.Context, key string) (bool, error) {
	existed, err := m.store.Delete(ctx, key)
	if err != nil {
		metrics.RecordCacheOp("delete", "error")
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache delete failed")
		return false, fmt.Errorf("delete %q: %w", key, err)
	}
	metrics.RecordCacheOp("delete", "ok")
	return existed, nil
}

// DeletePattern removes every key matching pattern and returns how many
// were removed. '*' matches any run of characters, including ':'.
//
//	"rec:*"                     whole namespace (prefix delete)
//	"rec:similar:article:a1:*"  prefix delete
//	"rec:*:user:u1:*"           enumerate "rec:" then glob-filter
//	"rec:trending:global:_:"    exact delete
//
// On a store error the count covers what was removed before the failure.
func (m *Manager) DeletePattern(ctx context.Context, pattern string) (int, error) {
	star := strings.IndexByte(pattern, '*')

	if star < 0 {
		existed, err := m.Delete(ctx, pattern)
		if existed {
			return 1, err
		}
		return 0, err
	}

	prefix := pattern[:star]
	if star == len(pattern)-1 {
		n, err := m.store.DeletePrefix(ctx, prefix)
		if err != nil {
			metrics.RecordCacheOp("delete_pattern", "error")
			m.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache prefix delete failed")
			return n, fmt.Errorf("delete pattern %q: %w", pattern, err)
		}
		metrics.RecordCacheOp("delete_pattern", "ok")
		return n, nil
	}

	keys, err := m.store.Keys(ctx, prefix)
	if err != nil {
		metrics.RecordCacheOp("delete_pattern", "error")
		m.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache key scan failed")
		return 0, fmt.Errorf("delete pattern %q: %w", pattern, err)
	}

	removed := 0
	for _, k := range keys {
		if !matchGlob(pattern, k) {
			continue
		}
		existed, err := m.store.Delete(ctx, k)
		if err != nil {
			metrics.RecordCacheOp("delete_pattern", "error")
			m.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache pattern delete aborted")
			return removed, fmt.Errorf("delete pattern %q: %w", pattern, err)
		}
		if existed {
			removed++
		}
	}
	metrics.RecordCacheOp("delete_pattern", "ok")
	return removed, nil
}

// Invalidate removes everything in the recommendation namespace. reason
// labels the invalidation metric. On failure the cache is bypassed until a
// later purge succeeds.
func (m *Manager) Invalidate(ctx context.Context, reason string) (int, error) {
	m.lastPurgeTry.Store(time.Now().UnixNano())

	n, err := m.DeletePattern(ctx, NamespacePattern)
	metrics.RecordInvalidation(reason, n)
	if err != nil {
		if !m.purgePending.Swap(true) {
			m.logger.Error().Err(err).Str("reason", reason).
				Msg("Cache namespace invalidation failed, bypassing cache until a purge succeeds")
		}
		return n, err
	}

	if m.purgePending.Swap(false) {
		m.logger.Info().Str("reason", reason).Msg("Pending cache purge completed, cache resumed")
	}
	m.logger.Info().Str("reason", reason).Int("removed", n).Msg("Cache namespace invalidated")
	return n, nil
}

// retryPurge retries a pending namespace purge if purgeRetry has elapsed
// since the last attempt. It reports whether the cache is usable again.
func (m *Manager) retryPurge(ctx context.Context) bool {
	last := m.lastPurgeTry.Load()
	now := time.Now().UnixNano()
	if now-last < int64(m.purgeRetry) || !m.lastPurgeTry.CompareAndSwap(last, now) {
		return false
	}
	_, err := m.Invalidate(ctx, "purge_retry")
	return err == nil
}

// ClearUserCache removes every cached result personalized for userID.
func (m *Manager) ClearUserCache(ctx context.Context, userID string) (int, error) {
	n, err := m.DeletePattern(ctx, UserPattern(userID))
	metrics.RecordInvalidation("user", n)
	m.logger.Debug().Str("user_id", userID).Int("removed", n).Msg("User cache cleared")
	return n, err
}

// ClearArticleCache removes every cached result seeded by articleID.
func (m *Manager) ClearArticleCache(ctx context.Context, articleID string) (int, error) {
	n, err := m.DeletePattern(ctx, ArticlePattern(articleID))
	metrics.RecordInvalidation("article", n)
	m.logger.Debug().Str("article_id", articleID).Int("removed", n).Msg("Article cache cleared")
	return n, err
}

// GetCacheStats returns current statistics. A store error is reported in
// Stats.Error rather than returned.
func (m *Manager) GetCacheStats(ctx context.Context) Stats {
	hits := m.hits.Load()
	misses := m.misses.Load()

	stats := Stats{
		Enabled:      m.enabled.Load(),
		Backend:      m.backend,
		Hits:         hits,
		Misses:       misses,
		PurgePending: m.purgePending.Load(),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}

	if n, err := m.store.Len(ctx); err != nil {
		stats.Error = err.Error()
	} else {
		stats.Keys = n
	}

	if r, ok := m.store.(evictionReporter); ok {
		stats.Evictions = r.Evictions()
		stats.LastCleanup = r.LastCleanup()
	}
	if r, ok := m.store.(breakerReporter); ok {
		stats.BreakerState = r.BreakerState()
	}
	return stats
}

// SetEnabled toggles caching globally.
func (m *Manager) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
	if enabled {
		metrics.CacheEnabled.Set(1)
	} else {
		metrics.CacheEnabled.Set(0)
	}
}

// PurgePending reports whether a failed namespace invalidation has the
// cache bypassed.
func (m *Manager) PurgePending() bool {
	return m.purgePending.Load()
}

// Enabled reports whether caching is on.
func (m *Manager) Enabled() bool {
	return m.enabled.Load()
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// memEntry represents a cached value with expiration
type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore provides a thread-safe in-memory Store with TTL support.
//
// Keys are additionally held in a byte trie so prefix deletes and listings
// touch only matching keys. A background janitor removes expired entries
// every cleanup interval; expired entries are also dropped lazily on Get.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	index   *keyIndex

	evictions   atomic.Int64
	lastCleanup atomic.Int64 // unix nanos

	now func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates an in-memory store. A positive cleanupInterval
// starts the janitor goroutine, stopped by Close.
//
// Example:
//
//	store := cache.NewMemoryStore(time.Minute)
//	defer store.Close()
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memEntry),
		index:   newKeyIndex(),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.lastCleanup.Store(s.now().UnixNano())

	if cleanupInterval > 0 {
		go s.cleanupLoop(cleanupInterval)
	} else {
		close(s.done)
	}
	return s
}

// Get retrieves a value by key with automatic expiration checking.
// An expired entry is removed and reported as missing.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}

	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if current, ok := s.entries[key]; ok && s.now().After(current.expiresAt) {
			delete(s.entries, key)
			s.index.remove(key)
			s.evictions.Add(1)
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set stores a copy of value with expiry now+ttl.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memEntry{
		value:     buf,
		expiresAt: s.now().Add(ttl),
	}
	s.index.insert(key)
	return nil
}

// Delete removes a specific entry by key.
func (s *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.entries[key]
	if existed {
		delete(s.entries, key)
		s.index.remove(key)
	}
	return existed, nil
}

// DeletePrefix removes every entry whose key starts with prefix.
func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.index.removePrefix(prefix)
	for _, k := range keys {
		delete(s.entries, k)
	}
	return len(keys), nil
}

// Keys returns the unexpired keys starting with prefix, sorted.
func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	candidates := s.index.withPrefix(prefix)
	keys := candidates[:0]
	for _, k := range candidates {
		if entry, ok := s.entries[k]; ok && !now.After(entry.expiresAt) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Len returns the number of stored entries, including expired entries not
// yet swept.
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Evictions returns the number of expired entries removed so far.
func (s *MemoryStore) Evictions() int64 {
	return s.evictions.Load()
}

// LastCleanup returns when the janitor last ran.
func (s *MemoryStore) LastCleanup() time.Time {
	return time.Unix(0, s.lastCleanup.Load())
}

// Close stops the janitor. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (s *MemoryStore) cleanup() {
	now := s.now()

	s.mu.Lock()
	var removed int64
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
			s.index.remove(key)
			removed++
		}
	}
	s.mu.Unlock()

	s.evictions.Add(removed)
	s.lastCleanup.Store(now.UnixNano())
}

// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/cache"
	"github.com/Dhruvil05Patel/NewsXpress/internal/database"
	"github.com/Dhruvil05Patel/NewsXpress/internal/models"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		load       bool
		activity   ActivityStore
		wantStatus string
	}{
		{name: "loaded", load: true, activity: &fakeActivityStore{}, wantStatus: "healthy"},
		{name: "not loaded", load: false, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, _ := newTestService(t, tt.load)
			router := NewRouter(NewHandler(svc, tt.activity, 0, zerolog.Nop()), nil).SetupChi()

			w := doRequest(t, router, http.MethodGet, "/health", "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var env genericEnvelope
			decode(t, w, &env)
			var health HealthStatus
			if err := json.Unmarshal(env.Data, &health); err != nil {
				t.Fatalf("decode health: %v", err)
			}
			if health.Status != tt.wantStatus || health.ModelsLoaded != tt.load {
				t.Errorf("health = %+v", health)
			}
			if health.ContentAvailable != tt.load || health.CollaborativeAvailable != tt.load {
				t.Errorf("availability = %+v", health)
			}
			if !health.CacheEnabled {
				t.Error("cache_enabled = false")
			}
			if health.ActivityEnabled != (tt.activity != nil) {
				t.Errorf("activity_enabled = %v", health.ActivityEnabled)
			}
		})
	}
}

func TestClearCache(t *testing.T) {
	t.Parallel()

	router, m := newTestRouter(t, nil)
	ctx := context.Background()

	// Warm one user entry and one article entry.
	doRequest(t, router, http.MethodGet, "/api/recommendations/personalized/u1?method=collaborative", "")
	doRequest(t, router, http.MethodGet, "/api/recommendations/similar/a1", "")
	doRequest(t, router, http.MethodGet, "/api/recommendations/trending", "")
	if keys := m.GetCacheStats(ctx).Keys; keys != 3 {
		t.Fatalf("cached keys = %d, want 3", keys)
	}

	w := doRequest(t, router, http.MethodPost, "/api/cache/clear", `{"user_id":"u1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var env genericEnvelope
	decode(t, w, &env)
	var resp ClearCacheResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Removed != 1 || !strings.Contains(resp.Message, "user u1") {
		t.Errorf("response = %+v", resp)
	}

	w = doRequest(t, router, http.MethodPost, "/api/cache/clear", `{"article_id":"a1"}`)
	decode(t, w, &env)
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Removed != 1 {
		t.Errorf("article clear removed %d, want 1", resp.Removed)
	}

	// Trending is untouched by targeted invalidation.
	if keys := m.GetCacheStats(ctx).Keys; keys != 1 {
		t.Errorf("cached keys after clears = %d, want 1", keys)
	}
}

func TestClearCache_BadRequests(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"neither id", `{}`},
		{"empty ids", `{"user_id":"","article_id":""}`},
		{"wildcard id", `{"user_id":"*"}`},
		{"unknown field", `{"user":"u1"}`},
		{"not json", `user_id=u1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := doRequest(t, router, http.MethodPost, "/api/cache/clear", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body = %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestClearCache_Throttled(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, true)
	router := NewRouter(NewHandler(svc, nil, 1, zerolog.Nop()), NewChiMiddlewareFromConfig(nil, 100, time.Minute, true)).SetupChi()

	if w := doRequest(t, router, http.MethodPost, "/api/cache/clear", `{"user_id":"u1"}`); w.Code != http.StatusOK {
		t.Fatalf("first clear status = %d", w.Code)
	}
	w := doRequest(t, router, http.MethodPost, "/api/cache/clear", `{"user_id":"u2"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second clear status = %d, want 429", w.Code)
	}
	var env genericEnvelope
	decode(t, w, &env)
	if env.Error == nil || env.Error.Code != models.ErrCodeTooManyRequests {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestClearCache_BackendFailure(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, true)
	m := cache.NewManager(scanFailStore{cache.NewMemoryStore(0)}, cache.BackendBadger, true, zerolog.Nop())
	t.Cleanup(func() { _ = m.Close() })
	svc = recommend.NewService(svc.Engine(), m, zerolog.Nop())
	router := NewRouter(NewHandler(svc, nil, 0, zerolog.Nop()), NewChiMiddlewareFromConfig(nil, 100, time.Minute, true)).SetupChi()

	tests := []struct {
		name string
		body string
	}{
		{"user", `{"user_id":"u1"}`},
		{"article", `{"article_id":"a1"}`},
		{"both", `{"user_id":"u1","article_id":"a1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := doRequest(t, router, http.MethodPost, "/api/cache/clear", tt.body)
			if w.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want 503; body = %s", w.Code, w.Body.String())
			}
			var env genericEnvelope
			decode(t, w, &env)
			if env.Error == nil || env.Error.Code != models.ErrCodeServiceUnavailable {
				t.Errorf("error = %+v", env.Error)
			}
		})
	}
}

// scanFailStore cannot enumerate keys, so pattern deletes fail.
type scanFailStore struct {
	*cache.MemoryStore
}

func (scanFailStore) Keys(context.Context, string) ([]string, error) {
	return nil, errors.New("scan: connection reset")
}

func TestCacheStats(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)
	doRequest(t, router, http.MethodGet, "/api/recommendations/similar/a1", "")
	doRequest(t, router, http.MethodGet, "/api/recommendations/similar/a1", "")

	w := doRequest(t, router, http.MethodGet, "/api/cache/stats", "")
	var env genericEnvelope
	decode(t, w, &env)
	var stats struct {
		Enabled bool   `json:"enabled"`
		Backend string `json:"backend"`
		Keys    int    `json:"keys"`
		Hits    int64  `json:"hits"`
	}
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !stats.Enabled || stats.Backend != "memory" || stats.Keys != 1 || stats.Hits != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestModelInfoAndReload(t *testing.T) {
	t.Parallel()

	svc, m := newTestService(t, false)
	router := NewRouter(NewHandler(svc, nil, 0, zerolog.Nop()), nil).SetupChi()

	w := doRequest(t, router, http.MethodGet, "/api/models/info", "")
	var env genericEnvelope
	decode(t, w, &env)
	var info recommend.ModelInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Loaded {
		t.Fatal("models reported loaded before reload")
	}

	w = doRequest(t, router, http.MethodPost, "/api/models/reload", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reload status = %d, body = %s", w.Code, w.Body.String())
	}
	decode(t, w, &env)
	var reload ReloadResponse
	if err := json.Unmarshal(env.Data, &reload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reload.Status != recommend.LoadSuccess.String() || !reload.Model.Loaded || reload.Model.Version != 1 {
		t.Errorf("reload = %+v", reload)
	}

	// A reload invalidates cached recommendations.
	doRequest(t, router, http.MethodGet, "/api/recommendations/similar/a1", "")
	if keys := m.GetCacheStats(context.Background()).Keys; keys != 1 {
		t.Fatalf("cached keys = %d, want 1", keys)
	}
	doRequest(t, router, http.MethodPost, "/api/models/reload", "")
	if keys := m.GetCacheStats(context.Background()).Keys; keys != 0 {
		t.Errorf("cached keys after reload = %d, want 0", keys)
	}
}

func TestRecordActivity(t *testing.T) {
	t.Parallel()

	store := &fakeActivityStore{}
	router, _ := newTestRouter(t, store)

	body := `{"user_id":"u1","article_id":"a1","activity_type":"read","duration_seconds":42,"recommendation_type":"similar"}`
	w := doRequest(t, router, http.MethodPost, "/api/activities", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var env genericEnvelope
	decode(t, w, &env)
	var resp ActivityResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Merged || resp.Activity.ID != "act-1" || resp.Activity.Type != database.ActivityRead {
		t.Errorf("response = %+v", resp)
	}
	if len(store.recorded) != 1 || store.recorded[0].DurationSeconds != 42 || store.recorded[0].RecommendationType != "similar" {
		t.Errorf("recorded = %+v", store.recorded)
	}

	// Type defaults to view.
	w = doRequest(t, router, http.MethodPost, "/api/activities", `{"user_id":"u1","article_id":"a2"}`)
	decode(t, w, &env)
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Activity.Type != database.ActivityView {
		t.Errorf("default type = %q", resp.Activity.Type)
	}
}

func TestRecordActivity_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		store      ActivityStore
		body       string
		wantStatus int
		wantCode   string
	}{
		{"disabled", nil, `{"user_id":"u1","article_id":"a1"}`, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable},
		{"missing user", &fakeActivityStore{}, `{"article_id":"a1"}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"unknown type", &fakeActivityStore{}, `{"user_id":"u1","article_id":"a1","activity_type":"hover"}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"negative duration", &fakeActivityStore{}, `{"user_id":"u1","article_id":"a1","duration_seconds":-1}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"scroll over 100", &fakeActivityStore{}, `{"user_id":"u1","article_id":"a1","scroll_percentage":101}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"store rejects", &fakeActivityStore{err: fmt.Errorf("%w: nope", database.ErrInvalidActivity)}, `{"user_id":"u1","article_id":"a1"}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"store fails", &fakeActivityStore{err: errors.New("disk full")}, `{"user_id":"u1","article_id":"a1"}`, http.StatusInternalServerError, models.ErrCodeDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router, _ := newTestRouter(t, tt.store)
			w := doRequest(t, router, http.MethodPost, "/api/activities", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			var env genericEnvelope
			decode(t, w, &env)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestUserStats(t *testing.T) {
	t.Parallel()

	store := &fakeActivityStore{stats: database.ReadingStats{TotalArticles: 4, TotalActivities: 9}}
	router, _ := newTestRouter(t, store)

	w := doRequest(t, router, http.MethodGet, "/api/users/u1/stats?days=7", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var env genericEnvelope
	decode(t, w, &env)
	var stats database.ReadingStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.UserID != "u1" || stats.TotalArticles != 4 {
		t.Errorf("stats = %+v", stats)
	}
	if age := time.Since(stats.Since); age < 7*24*time.Hour-time.Minute || age > 7*24*time.Hour+time.Minute {
		t.Errorf("since = %v, want about 7 days ago", stats.Since)
	}

	if w := doRequest(t, router, http.MethodGet, "/api/users/u1/stats?days=0", ""); w.Code != http.StatusBadRequest {
		t.Errorf("days=0 status = %d, want 400", w.Code)
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	if w := doRequest(t, router, http.MethodGet, "/api/unknown", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", w.Code)
	}
	if w := doRequest(t, router, http.MethodGet, "/api/cache/clear", ""); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/cache/clear status = %d, want 405", w.Code)
	}
}

func TestRouter_MetricsAndRequestID(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/api/recommendations/trending", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	w = doRequest(t, router, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "api_requests_total") {
		t.Error("/metrics does not expose api_requests_total")
	}
}

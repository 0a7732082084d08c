// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/cache"
	"github.com/Dhruvil05Patel/NewsXpress/internal/database"
	"github.com/Dhruvil05Patel/NewsXpress/internal/models"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend/storage"
)

// writeFixtureArtifacts stores a small content and collaborative family.
func writeFixtureArtifacts(t *testing.T) *storage.Store {
	t.Helper()

	now := time.Now()
	content := &recommend.ContentArtifacts{
		Index: map[string]int{"a1": 0, "a2": 1, "a3": 2},
		Similarity: [][]float64{
			{1.0, 0.9, 0.2},
			{0.9, 1.0, 0.4},
			{0.2, 0.4, 1.0},
		},
		Articles: []recommend.Article{
			{ID: "a1", Title: "Budget vote", Topic: "politics", PublishedAt: now.Add(-2 * time.Hour), Popularity: 10},
			{ID: "a2", Title: "Election recap", Topic: "politics", PublishedAt: now.Add(-3 * time.Hour), Popularity: 30},
			{ID: "a3", Title: "Chip launch", Topic: "tech", PublishedAt: now.Add(-4 * time.Hour), Popularity: 20},
		},
	}
	collab := &recommend.CollaborativeArtifacts{
		UserIndex:      map[string]int{"u1": 0, "u2": 1},
		UserSimilarity: [][]float64{{1.0, 0.7}, {0.7, 1.0}},
		Interactions:   [][]float64{{1, 0, 0}, {1, 1, 1}},
		ArticleIDs:     []string{"a1", "a2", "a3"},
	}

	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	meta := storage.ArtifactMetadata{TrainedAt: now.Add(-time.Hour)}
	if err := recommend.WriteArtifacts(context.Background(), store, content, collab, meta); err != nil {
		t.Fatalf("WriteArtifacts() error = %v", err)
	}
	return store
}

// newTestService returns a service over the fixture artifacts. With load
// false the engine starts without a snapshot.
func newTestService(t *testing.T, load bool) (*recommend.Service, *cache.Manager) {
	t.Helper()

	store := writeFixtureArtifacts(t)
	engine, err := recommend.NewEngine(nil, recommend.NewLoader(store, zerolog.Nop()), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if load {
		if out := engine.Load(context.Background()); out.Status != recommend.LoadSuccess {
			t.Fatalf("Load() status = %v", out.Status)
		}
	}

	m := cache.NewManager(cache.NewMemoryStore(0), cache.BackendMemory, true, zerolog.Nop())
	t.Cleanup(func() { _ = m.Close() })
	return recommend.NewService(engine, m, zerolog.Nop()), m
}

// newTestRouter returns the full chi handler over a loaded service with
// rate limiting disabled.
func newTestRouter(t *testing.T, activity ActivityStore) (http.Handler, *cache.Manager) {
	t.Helper()
	svc, m := newTestService(t, true)
	h := NewHandler(svc, activity, 0, zerolog.Nop())
	mw := NewChiMiddlewareFromConfig(nil, 100, time.Minute, true)
	return NewRouter(h, mw).SetupChi(), m
}

// fakeActivityStore records activities in memory.
type fakeActivityStore struct {
	mu       sync.Mutex
	recorded []database.Activity
	err      error
	stats    database.ReadingStats
}

func (f *fakeActivityStore) RecordActivity(_ context.Context, a database.Activity) (database.Activity, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return database.Activity{}, false, f.err
	}
	a.ID = "act-1"
	if a.Type == "" {
		a.Type = database.ActivityView
	}
	merged := len(f.recorded) > 0
	f.recorded = append(f.recorded, a)
	return a, merged, nil
}

func (f *fakeActivityStore) UserReadingStats(_ context.Context, userID string, since time.Time) (database.ReadingStats, error) {
	if f.err != nil {
		return database.ReadingStats{}, f.err
	}
	stats := f.stats
	stats.UserID = userID
	stats.Since = since
	return stats, nil
}

// recsEnvelope decodes the recommendation responses.
type recsEnvelope struct {
	Status   string                  `json:"status"`
	Data     RecommendationsResponse `json:"data"`
	Metadata models.Metadata         `json:"metadata"`
	Error    *models.APIError        `json:"error"`
}

// genericEnvelope decodes any response with raw data.
type genericEnvelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func recIDs(recs []recommend.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

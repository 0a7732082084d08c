// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/models"
)

func TestSimilar_ReadThrough(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/api/recommendations/similar/a1?top_n=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var first recsEnvelope
	decode(t, w, &first)
	if first.Data.FromCache || first.Metadata.Cached {
		t.Error("first request should miss the cache")
	}
	if got := recIDs(first.Data.Recommendations); !reflect.DeepEqual(got, []string{"a2", "a3"}) {
		t.Errorf("recommendations = %v, want [a2 a3]", got)
	}
	if first.Data.ArticleID != "a1" || first.Data.Method != "similar" {
		t.Errorf("data = %+v", first.Data)
	}
	if first.Metadata.RequestID == "" {
		t.Error("metadata request_id missing")
	}

	w = doRequest(t, router, http.MethodGet, "/api/recommendations/similar/a1?top_n=2", "")
	var second recsEnvelope
	decode(t, w, &second)
	if !second.Data.FromCache || !second.Metadata.Cached {
		t.Error("second request should be served from cache")
	}
}

func TestSimilar_Exclude(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	for _, target := range []string{
		"/api/recommendations/similar/a1?exclude=a2",
		"/api/recommendations/similar/a1?exclude=a2,zz",
		"/api/recommendations/similar/a1?exclude=zz&exclude=a2",
	} {
		w := doRequest(t, router, http.MethodGet, target, "")
		var env recsEnvelope
		decode(t, w, &env)
		if got := recIDs(env.Data.Recommendations); !reflect.DeepEqual(got, []string{"a3"}) {
			t.Errorf("%s: recommendations = %v, want [a3]", target, got)
		}
	}
}

func TestRecommendations_Validation(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	tests := []struct {
		name      string
		target    string
		wantField string
	}{
		{"similar top_n not a number", "/api/recommendations/similar/a1?top_n=abc", "top_n"},
		{"similar top_n zero", "/api/recommendations/similar/a1?top_n=0", "top_n"},
		{"similar top_n too large", "/api/recommendations/similar/a1?top_n=101", "top_n"},
		{"similar bad exclude", "/api/recommendations/similar/a1?exclude=a*", "exclude[0]"},
		{"personalized top_n not a number", "/api/recommendations/personalized/u1?top_n=hello", "top_n"},
		{"personalized unknown method", "/api/recommendations/personalized/u1?method=popular", "method"},
		{"personalized bad user", "/api/recommendations/personalized/u:1", "user_id"},
		{"trending days not a number", "/api/recommendations/trending?days=xyz", "days"},
		{"trending days too large", "/api/recommendations/trending?days=366", "days"},
		{"trending days zero", "/api/recommendations/trending?days=0", "days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := doRequest(t, router, http.MethodGet, tt.target, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
			}
			var env genericEnvelope
			decode(t, w, &env)
			if env.Status != models.StatusError || env.Error == nil || env.Error.Code != models.ErrCodeValidation {
				t.Fatalf("envelope = %+v", env)
			}
			if env.Error.Details["field"] != tt.wantField {
				t.Errorf("field = %v, want %s", env.Error.Details["field"], tt.wantField)
			}
		})
	}
}

func TestPersonalized_Methods(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	tests := []struct {
		target     string
		wantMethod string
	}{
		{"/api/recommendations/personalized/u1", "hybrid"},
		{"/api/recommendations/personalized/u1?method=hybrid&recent=a1", "hybrid"},
		{"/api/recommendations/personalized/u1?method=collaborative", "collaborative"},
	}

	for _, tt := range tests {
		w := doRequest(t, router, http.MethodGet, tt.target, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, body = %s", tt.target, w.Code, w.Body.String())
		}
		var env recsEnvelope
		decode(t, w, &env)
		if env.Data.Method != tt.wantMethod || env.Data.UserID != "u1" {
			t.Errorf("%s: data = %+v", tt.target, env.Data)
		}
	}

	// u1 read a1; its neighbour u2 read a2 and a3.
	w := doRequest(t, router, http.MethodGet, "/api/recommendations/personalized/u1?method=collaborative&top_n=5", "")
	var env recsEnvelope
	decode(t, w, &env)
	for _, id := range recIDs(env.Data.Recommendations) {
		if id == "a1" {
			t.Error("collaborative recommended an article the user already read")
		}
	}
	if len(env.Data.Recommendations) == 0 {
		t.Error("collaborative returned nothing for a known user")
	}
}

func TestPersonalized_UnknownUserIsEmpty(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/api/recommendations/personalized/nobody?method=collaborative", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var env recsEnvelope
	decode(t, w, &env)
	if env.Data.Recommendations == nil || len(env.Data.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want empty list", env.Data.Recommendations)
	}
}

func TestTrending(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/api/recommendations/trending?top_n=3&days=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var env recsEnvelope
	decode(t, w, &env)
	if env.Data.Method != "trending" || len(env.Data.Recommendations) != 3 {
		t.Fatalf("data = %+v", env.Data)
	}

	w = doRequest(t, router, http.MethodGet, "/api/recommendations/trending?top_n=3&days=3", "")
	decode(t, w, &env)
	if !env.Metadata.Cached {
		t.Error("repeat trending request should be cached")
	}
}

func TestSimilar_DirectWithRouteContext(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, true)
	h := NewHandler(svc, nil, 0, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations/similar/a3", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("articleID", "a3")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	h.Similar(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var env recsEnvelope
	decode(t, w, &env)
	if got := recIDs(env.Data.Recommendations); !reflect.DeepEqual(got, []string{"a2", "a1"}) {
		t.Errorf("recommendations = %v, want [a2 a1]", got)
	}
}

func TestRecommendations_NoSnapshot(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, false)
	router := NewRouter(NewHandler(svc, nil, 0, zerolog.Nop()), nil).SetupChi()

	w := doRequest(t, router, http.MethodGet, "/api/recommendations/similar/a1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var env recsEnvelope
	decode(t, w, &env)
	if len(env.Data.Recommendations) != 0 || env.Data.FromCache {
		t.Errorf("data = %+v, want empty uncached list", env.Data)
	}
}

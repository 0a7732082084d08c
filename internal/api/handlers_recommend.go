// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dhruvil05Patel/NewsXpress/internal/models"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend"
)

// SimilarRequest is the validated query of the similar endpoint.
type SimilarRequest struct {
	ArticleID string   `json:"article_id" validate:"entityid"`
	TopN      int      `json:"top_n" validate:"gte=1,lte=100"`
	Exclude   []string `json:"exclude" validate:"max=500,dive,entityid"`
}

// PersonalizedRequest is the validated query of the personalized endpoint.
type PersonalizedRequest struct {
	UserID  string   `json:"user_id" validate:"entityid"`
	TopN    int      `json:"top_n" validate:"gte=1,lte=100"`
	Method  string   `json:"method" validate:"oneof=collaborative hybrid"`
	Recent  []string `json:"recent" validate:"max=100,dive,entityid"`
	Exclude []string `json:"exclude" validate:"max=500,dive,entityid"`
}

// TrendingRequest is the validated query of the trending endpoint.
type TrendingRequest struct {
	TopN int `json:"top_n" validate:"gte=1,lte=100"`
	Days int `json:"days" validate:"gte=1,lte=365"`
}

// RecommendationsResponse is the data of every recommendation endpoint.
type RecommendationsResponse struct {
	ArticleID       string                     `json:"article_id,omitempty"`
	UserID          string                     `json:"user_id,omitempty"`
	Method          string                     `json:"method"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	FromCache       bool                       `json:"from_cache"`
}

// defaultTopN is the count used when top_n is absent.
func (h *Handler) defaultTopN() int {
	return h.svc.Engine().Config().Limits.DefaultTopN
}

// Similar handles GET /api/recommendations/similar/{articleID}
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	topN, perr := getIntParam(r, "top_n", h.defaultTopN())
	if perr != nil {
		respondAPIError(w, http.StatusBadRequest, perr.apiError(), nil)
		return
	}

	req := SimilarRequest{
		ArticleID: chi.URLParam(r, "articleID"),
		TopN:      topN,
		Exclude:   getListParam(r, "exclude"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	result := h.svc.Similar(r.Context(), req.ArticleID, req.TopN, req.Exclude)

	respondSuccess(w, r, RecommendationsResponse{
		ArticleID:       req.ArticleID,
		Method:          recommend.StrategySimilar,
		Recommendations: result.Recommendations,
		FromCache:       result.FromCache,
	}, start, result.FromCache)
}

// Personalized handles GET /api/recommendations/personalized/{userID}
// method defaults to hybrid; recent seeds the content side of hybrid.
func (h *Handler) Personalized(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	topN, perr := getIntParam(r, "top_n", h.defaultTopN())
	if perr != nil {
		respondAPIError(w, http.StatusBadRequest, perr.apiError(), nil)
		return
	}

	method := r.URL.Query().Get("method")
	if method == "" {
		method = recommend.StrategyHybrid
	}

	req := PersonalizedRequest{
		UserID:  chi.URLParam(r, "userID"),
		TopN:    topN,
		Method:  method,
		Recent:  getListParam(r, "recent"),
		Exclude: getListParam(r, "exclude"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	result, err := h.svc.Personalized(r.Context(), req.UserID, req.Method, req.Recent, req.TopN, req.Exclude)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	respondSuccess(w, r, RecommendationsResponse{
		UserID:          req.UserID,
		Method:          req.Method,
		Recommendations: result.Recommendations,
		FromCache:       result.FromCache,
	}, start, result.FromCache)
}

// Trending handles GET /api/recommendations/trending
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	topN, perr := getIntParam(r, "top_n", h.defaultTopN())
	if perr != nil {
		respondAPIError(w, http.StatusBadRequest, perr.apiError(), nil)
		return
	}
	days, perr := getIntParam(r, "days", h.svc.Engine().Config().Trending.WindowDays)
	if perr != nil {
		respondAPIError(w, http.StatusBadRequest, perr.apiError(), nil)
		return
	}

	req := TrendingRequest{TopN: topN, Days: days}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	result := h.svc.Trending(r.Context(), req.TopN, req.Days)

	respondSuccess(w, r, RecommendationsResponse{
		Method:          recommend.StrategyTrending,
		Recommendations: result.Recommendations,
		FromCache:       result.FromCache,
	}, start, result.FromCache)
}

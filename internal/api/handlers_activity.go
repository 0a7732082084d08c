// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dhruvil05Patel/NewsXpress/internal/database"
	"github.com/Dhruvil05Patel/NewsXpress/internal/models"
)

// ActivityRequest is the body of POST /api/activities.
type ActivityRequest struct {
	UserID             string   `json:"user_id" validate:"required,entityid"`
	ArticleID          string   `json:"article_id" validate:"required,entityid"`
	ActivityType       string   `json:"activity_type" validate:"omitempty,oneof=view click read like bookmark share"`
	DurationSeconds    int      `json:"duration_seconds" validate:"gte=0,lte=86400"`
	ScrollPercentage   *float64 `json:"scroll_percentage" validate:"omitempty,gte=0,lte=100"`
	Source             string   `json:"source" validate:"max=64"`
	RecommendationType string   `json:"recommendation_type" validate:"omitempty,oneof=similar collaborative hybrid trending"`
}

// ActivityResponse is the stored activity and whether it was merged into a
// recent row.
type ActivityResponse struct {
	Activity database.Activity `json:"activity"`
	Merged   bool              `json:"merged"`
}

// UserStatsRequest is the validated query of the user stats endpoint.
type UserStatsRequest struct {
	UserID string `json:"user_id" validate:"entityid"`
	Days   int    `json:"days" validate:"gte=1,lte=365"`
}

// RecordActivity handles POST /api/activities
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.activity == nil {
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable, "Activity tracking is disabled", nil)
		return
	}

	var req ActivityRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	stored, merged, err := h.activity.RecordActivity(r.Context(), database.Activity{
		UserID:             req.UserID,
		ArticleID:          req.ArticleID,
		Type:               req.ActivityType,
		DurationSeconds:    req.DurationSeconds,
		ScrollPercentage:   req.ScrollPercentage,
		Source:             req.Source,
		RecommendationType: req.RecommendationType,
	})
	if errors.Is(err, database.ErrInvalidActivity) {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to record activity", err)
		return
	}

	respondSuccess(w, r, ActivityResponse{Activity: stored, Merged: merged}, start, false)
}

// UserStats handles GET /api/users/{userID}/stats?days=30
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.activity == nil {
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable, "Activity tracking is disabled", nil)
		return
	}

	days, perr := getIntParam(r, "days", 30)
	if perr != nil {
		respondAPIError(w, http.StatusBadRequest, perr.apiError(), nil)
		return
	}
	req := UserStatsRequest{UserID: chi.URLParam(r, "userID"), Days: days}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	since := time.Now().AddDate(0, 0, -req.Days)
	stats, err := h.activity.UserReadingStats(r.Context(), req.UserID, since)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to load reading stats", err)
		return
	}

	respondSuccess(w, r, stats, start, false)
}

// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package api

import (
	"net/http"
	"time"

	"github.com/Dhruvil05Patel/NewsXpress/internal/models"
)

// ClearCacheRequest is the body of POST /api/cache/clear.
type ClearCacheRequest struct {
	UserID    string `json:"user_id" validate:"omitempty,entityid"`
	ArticleID string `json:"article_id" validate:"omitempty,entityid"`
}

// ClearCacheResponse reports what a targeted invalidation removed.
type ClearCacheResponse struct {
	UserID    string `json:"user_id,omitempty"`
	ArticleID string `json:"article_id,omitempty"`
	Removed   int    `json:"removed"`
	Message   string `json:"message"`
}

// ClearCache handles POST /api/cache/clear
// Either user_id or article_id is required; when both are given both are cleared.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ClearCacheRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	if req.UserID == "" && req.ArticleID == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Please provide user_id or article_id", nil)
		return
	}

	if !h.clearLimiter.Allow() {
		respondError(w, http.StatusTooManyRequests, models.ErrCodeTooManyRequests, "Cache invalidation is throttled, retry shortly", nil)
		return
	}

	resp := ClearCacheResponse{UserID: req.UserID, ArticleID: req.ArticleID}
	if req.UserID != "" {
		n, err := h.svc.ClearUserCache(r.Context(), req.UserID)
		resp.Removed += n
		if err != nil {
			h.clearFailed(w, req, err)
			return
		}
	}
	if req.ArticleID != "" {
		n, err := h.svc.ClearArticleCache(r.Context(), req.ArticleID)
		resp.Removed += n
		if err != nil {
			h.clearFailed(w, req, err)
			return
		}
	}
	switch {
	case req.UserID != "" && req.ArticleID != "":
		resp.Message = "Cache cleared for user " + req.UserID + " and article " + req.ArticleID
	case req.UserID != "":
		resp.Message = "Cache cleared for user " + req.UserID
	default:
		resp.Message = "Cache cleared for article " + req.ArticleID
	}

	h.logger.Info().
		Str("user_id", sanitizeLogValue(req.UserID)).
		Str("article_id", sanitizeLogValue(req.ArticleID)).
		Int("removed", resp.Removed).
		Msg("Targeted cache invalidation")

	respondSuccess(w, r, resp, start, false)
}

// clearFailed reports a targeted invalidation the cache backend could not
// complete. Entries that survive it may still be served until they expire.
func (h *Handler) clearFailed(w http.ResponseWriter, req ClearCacheRequest, err error) {
	h.logger.Error().Err(err).
		Str("user_id", sanitizeLogValue(req.UserID)).
		Str("article_id", sanitizeLogValue(req.ArticleID)).
		Msg("Targeted cache invalidation failed")
	respondError(w, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable, "Cache backend unavailable, invalidation incomplete", nil)
}

// CacheStats handles GET /api/cache/stats
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, h.svc.CacheStats(r.Context()), start, false)
}

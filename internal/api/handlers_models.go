// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package api

import (
	"net/http"
	"time"

	"github.com/Dhruvil05Patel/NewsXpress/internal/models"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend"
)

// ReloadResponse reports the outcome of an artifact reload.
type ReloadResponse struct {
	Status             string              `json:"status"`
	ContentError       string              `json:"content_error,omitempty"`
	CollaborativeError string              `json:"collaborative_error,omitempty"`
	Model              recommend.ModelInfo `json:"model"`
}

// ModelInfo handles GET /api/models/info
func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, h.svc.ModelInfo(), start, false)
}

// ReloadModels handles POST /api/models/reload
// A failed reload keeps serving the previous snapshot and answers 503.
func (h *Handler) ReloadModels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	out := h.svc.Reload(r.Context())
	resp := ReloadResponse{
		Status: out.Status.String(),
		Model:  h.svc.ModelInfo(),
	}
	if out.ContentErr != nil {
		resp.ContentError = out.ContentErr.Error()
	}
	if out.CollaborativeErr != nil {
		resp.CollaborativeError = out.CollaborativeErr.Error()
	}

	if !out.Success() {
		respondAPIError(w, http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeServiceUnavailable,
			Message: "No artifact family could be loaded",
			Details: map[string]interface{}{
				"content_error":       resp.ContentError,
				"collaborative_error": resp.CollaborativeError,
			},
		}, nil)
		return
	}

	h.logger.Info().Str("status", resp.Status).Int64("version", resp.Model.Version).Msg("Models reloaded via API")
	respondSuccess(w, r, resp, start, false)
}

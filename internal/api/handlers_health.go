// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the data of GET /health.
type HealthStatus struct {
	Status                 string  `json:"status"`
	Service                string  `json:"service"`
	ModelsLoaded           bool    `json:"models_loaded"`
	ContentAvailable       bool    `json:"content_available"`
	CollaborativeAvailable bool    `json:"collaborative_available"`
	CacheEnabled           bool    `json:"cache_enabled"`
	ActivityEnabled        bool    `json:"activity_enabled"`
	Uptime                 float64 `json:"uptime_seconds"`
}

// Health handles GET /health
// It always answers 200; status is "degraded" until a snapshot is loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	info := h.svc.ModelInfo()

	status := "healthy"
	if !info.Loaded {
		status = "degraded"
	}

	respondSuccess(w, r, HealthStatus{
		Status:                 status,
		Service:                "NewsXpress Recommendation API",
		ModelsLoaded:           info.Loaded,
		ContentAvailable:       info.ContentAvailable,
		CollaborativeAvailable: info.CollaborativeAvailable,
		CacheEnabled:           h.svc.CacheEnabled(),
		ActivityEnabled:        h.activity != nil,
		Uptime:                 time.Since(h.startTime).Seconds(),
	}, start, false)
}

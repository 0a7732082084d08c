// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

/*
Package api provides the HTTP REST API of the recommendation service.

Endpoints:

	GET  /health                                        service and model availability
	GET  /api/recommendations/similar/{articleID}       content-based recommendations
	GET  /api/recommendations/personalized/{userID}     collaborative or hybrid recommendations
	GET  /api/recommendations/trending                  popularity-ranked recent articles
	POST /api/cache/clear                               targeted invalidation by user or article
	GET  /api/cache/stats                               cache introspection
	GET  /api/models/info                               loaded snapshot and training metadata
	POST /api/models/reload                             reload artifacts from the store
	POST /api/activities                                record a user interaction
	GET  /api/users/{userID}/stats                      a user's reading statistics
	GET  /metrics                                       Prometheus metrics

Every JSON endpoint answers with models.APIResponse. Recommendation responses
set Metadata.Cached when the list came from the result cache.

Query parameters are validated with go-playground/validator through the
validation package: top_n must be 1..100, days 1..365 and method one of
collaborative or hybrid. Invalid values return 400 VALIDATION_ERROR.

Middleware order (outermost first): request ID, real IP, panic recovery,
CORS, then per-group httprate limiting, Prometheus instrumentation and
response compression.

Usage Example:

	svc := recommend.NewService(engine, cacheManager, logger)
	handler := api.NewHandler(svc, activityDB, cfg.Server.ClearCachePerSecond, logger)
	mw := api.NewChiMiddlewareFromConfig(cfg.Server.CORSOrigins,
	    cfg.Server.RateLimitReqs, cfg.Server.RateLimitWindow, cfg.Server.RateLimitDisabled)
	router := api.NewRouter(handler, mw)

	srv := &http.Server{Addr: ":5001", Handler: router.SetupChi()}
*/
package api

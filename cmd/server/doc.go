// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

/*
Package main is the entry point for the NewsXpress recommendation service.

The binary serves article recommendations computed from precomputed model
artifacts and runs the retraining scheduler that rebuilds them.

# Commands

	newsxpress serve      # HTTP API plus the retraining scheduler
	newsxpress scheduler  # retraining scheduler only (needs RETRAIN_RELOAD_URL)
	newsxpress retrain    # rebuild every model once and exit (non-zero on failure)
	newsxpress version

Every command accepts --config to point at a YAML file (same as CONFIG_PATH).

# Application Architecture

The serve command runs a Suture v4 tree:

	RootSupervisor ("newsxpress")
	├── SchedulingSupervisor ("scheduling-layer")
	│   └── RetrainService (retrain-scheduler, RETRAIN_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (http-server)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Activity store: DuckDB (optional, ACTIVITY_ENABLED)
 4. Cache: memory or BadgerDB store behind a gobreaker circuit breaker
 5. Engine: artifact store, loader and the four strategies
 6. Retraining: model builder command, coordinator and scheduler
 7. HTTP Server: Chi router with middleware stack

# Configuration

Core environment variables:

	HTTP_PORT=5001
	ARTIFACTS_DIR=/data/models
	CACHE_ENABLED=true
	CACHE_BACKEND=memory         # memory or badger
	RETRAIN_SCHEDULE=daily       # daily, weekly or monthly
	RETRAIN_HOUR=2
	RETRAIN_MINUTE=0
	RETRAIN_DAY=                 # weekday (weekly) or 1-31 (monthly)
	RETRAIN_ON_START=false
	RETRAIN_COMMAND=python,-m,train_models
	RETRAIN_RELOAD_URL=          # API reload endpoint for scheduler/retrain
	ACTIVITY_ENABLED=false
	LOG_LEVEL=info

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests within HTTP_SHUTDOWN_TIMEOUT, the scheduler stops after
the job it is running (a retrain is never interrupted), and services that
failed to stop are reported.
*/
package main

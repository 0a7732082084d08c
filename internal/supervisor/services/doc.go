// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

/*
Package services provides suture service wrappers for the long-running
components of the recommendation service.

# Services

  - HTTPServerService: the chi API server, with graceful shutdown
  - RetrainService: the retraining scheduler poll loop, with the optional
    run-on-start pass

Both implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Serve blocks until ctx is canceled and returns ctx.Err(); any other return
is treated as a failure and the service is restarted with backoff.

# Usage

	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second, logger))
	tree.AddSchedulingService(services.NewRetrainService(scheduler, cfg.Retrain.OnStart, logger))

	err := tree.Serve(ctx)
*/
package services

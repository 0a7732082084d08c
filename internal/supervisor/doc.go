// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

/*
Package supervisor provides process supervision for the recommendation
service using suture v4.

# Overview

	RootSupervisor ("newsxpress")
	├── SchedulingSupervisor ("scheduling-layer")
	│   └── RetrainService (serve with retraining enabled, scheduler command)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (serve command)

Crashed services are restarted with backoff once FailureThreshold failures
accumulate (decaying at FailureDecay per second). Supervisor events are
logged through sutureslog, fed by the zerolog slog adapter from the logging
package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddSchedulingService(services.NewRetrainService(scheduler, cfg.Retrain.OnStart, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Shutdown

Canceling the context stops every service in reverse order. A service that
does not return within ShutdownTimeout is abandoned and reported by
UnstoppedServiceReport.
*/
package supervisor

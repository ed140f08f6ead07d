package main

import (
	"context"
	"errors"

	"scicalc/internal/calcapi"
	"scicalc/internal/config"
	"scicalc/internal/observability"
)

// initTelemetry installs the OTLP providers enabled in cfg and re-creates the
// calculator instruments against them. The returned func shuts every
// provider down.
func initTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if !cfg.Telemetry {
		return shutdown, nil
	}

	traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	metricShutdown, err := observability.InitMetrics(ctx, cfg.ServiceName)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	shutdowns = append(shutdowns, metricShutdown)

	if err := calcapi.InitMetrics(); err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}

	if cfg.ExportLogs {
		logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
		shutdowns = append(shutdowns, logShutdown)
	}

	return shutdown, nil
}

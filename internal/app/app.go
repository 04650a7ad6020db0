// Package app wires configuration, logging, tracing, and metrics around the
// chain programs so each cmd only builds its chain and prints its result.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/menezmethod/handlerchain/internal/chain"
	"github.com/menezmethod/handlerchain/internal/config"
	"github.com/menezmethod/handlerchain/internal/logging"
	"github.com/menezmethod/handlerchain/internal/middleware"
	"github.com/menezmethod/handlerchain/internal/observability"
)

// Env is the ambient stack of one program run.
type Env struct {
	Config    config.Config
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Collector *middleware.Collector

	program string
	tracer  *observability.TracerProvider
}

// Setup loads configuration from configPath (optional) and builds the logger,
// metrics registry, and tracer for program. Logs are written to logOut.
// The returned context carries a fresh run ID.
func Setup(ctx context.Context, program, configPath string, logOut io.Writer) (context.Context, *Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return ctx, nil, fmt.Errorf("load config: %w", err)
	}

	ctx = middleware.WithRunID(ctx, "")

	logger := logging.NewLogger(logOut, logging.ParseLevel(cfg.Log.Level),
		cfg.Log.Format, cfg.Log.CloudFormat, cfg.Observability.OTelServiceName).
		With("program", program)

	reg := prometheus.NewRegistry()
	env := &Env{
		Config:    cfg,
		Logger:    logger,
		Registry:  reg,
		Collector: middleware.NewCollector(reg),
		program:   program,
	}

	if cfg.Observability.OTelEnabled {
		tp, err := observability.NewTracerProvider(ctx, cfg.Observability.OTelEndpoint, cfg.Observability.OTelServiceName)
		if err != nil {
			return ctx, nil, fmt.Errorf("otel tracer provider: %w", err)
		}
		env.tracer = tp
		logger.Info("opentelemetry tracing enabled", "endpoint", cfg.Observability.OTelEndpoint)
	}

	return ctx, env, nil
}

// Decorators returns the unit decorators for chainName.
// Order (outermost → innermost): Tracing → Metrics → Logging.
func Decorators[In, Out any](env *Env, chainName string) []chain.Decorator[In, Out] {
	return []chain.Decorator[In, Out]{
		middleware.Tracing[In, Out](env.tracer.Tracer("github.com/menezmethod/handlerchain/"+env.program), chainName),
		middleware.Metrics[In, Out](env.Collector, chainName),
		middleware.Logging[In, Out](env.Logger, chainName),
	}
}

// Close writes the metrics textfile and flushes pending spans. Failures are
// logged and returned joined; they never affect the program's result.
func (e *Env) Close(ctx context.Context) error {
	var errs []error
	if err := observability.WriteTextfile(e.Config.Metrics.Textfile, e.Registry); err != nil {
		e.Logger.Error("metrics textfile", "err", err)
		errs = append(errs, err)
	}
	if err := e.tracer.Shutdown(ctx); err != nil {
		e.Logger.Error("otel shutdown", "err", err)
		errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
	}
	return errors.Join(errs...)
}

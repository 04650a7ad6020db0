// Package middleware provides unit decorators for logging, metrics, and
// tracing. Each decorator wraps a named chain unit without touching its body.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/menezmethod/handlerchain/internal/chain"
)

// Logging returns a decorator that logs every unit invocation at debug level.
// It records the chain, unit, run ID, whether the unit delegated, and duration.
func Logging[In, Out any](logger *slog.Logger, chainName string) chain.Decorator[In, Out] {
	return func(unit string) chain.Middleware[In, Out] {
		return func(link chain.Link[In, Out]) chain.Link[In, Out] {
			return func(next chain.Handler[In, Out]) chain.Handler[In, Out] {
				return func(ctx context.Context, in In) Out {
					start := time.Now()

					out, delegated := invoke(ctx, link, next, in)

					logger.LogAttrs(ctx, slog.LevelDebug, "unit",
						slog.String("chain", chainName),
						slog.String("unit", unit),
						slog.String("run_id", RunIDFromContext(ctx)),
						slog.Bool("delegated", delegated),
						slog.Int64("duration_us", time.Since(start).Microseconds()),
					)
					return out
				}
			}
		}
	}
}

// invoke runs link once against next and reports whether the unit handed
// control to next.
func invoke[In, Out any](ctx context.Context, link chain.Link[In, Out], next chain.Handler[In, Out], in In) (Out, bool) {
	delegated := false
	h := link(func(ctx context.Context, in In) Out {
		delegated = true
		return next(ctx, in)
	})
	return h(ctx, in), delegated
}

package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/menezmethod/handlerchain/internal/chain"
)

// Tracing returns a decorator that wraps every unit invocation in a span
// named "<chain>/<unit>". Units that delegate produce nested spans, so the
// trace mirrors the order in which the chain was walked.
func Tracing[In, Out any](tracer trace.Tracer, chainName string) chain.Decorator[In, Out] {
	return func(unit string) chain.Middleware[In, Out] {
		return func(link chain.Link[In, Out]) chain.Link[In, Out] {
			return func(next chain.Handler[In, Out]) chain.Handler[In, Out] {
				return func(ctx context.Context, in In) Out {
					ctx, span := tracer.Start(ctx, chainName+"/"+unit,
						trace.WithAttributes(
							attribute.String("chain.name", chainName),
							attribute.String("chain.unit", unit),
						),
					)
					defer span.End()

					out, delegated := invoke(ctx, link, next, in)
					span.SetAttributes(attribute.Bool("chain.delegated", delegated))
					if id := RunIDFromContext(ctx); id != "" {
						span.SetAttributes(attribute.String("chain.run_id", id))
					}
					return out
				}
			}
		}
	}
}

// Package observability provides optional OpenTelemetry tracing and the
// Prometheus textfile export used by the chain programs.
package observability

import (
	"context"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/menezmethod/handlerchain/internal/version"
)

// TracerProvider holds the SDK TracerProvider for shutdown. A nil
// *TracerProvider hands out no-op tracers.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
}

// NewTracerProvider creates and sets a global TracerProvider that exports
// spans via OTLP HTTP to the given endpoint (e.g. http://localhost:4318 or https://otel.example.com).
// TLS is used when the endpoint URL scheme is https; http uses insecure transport (local/dev).
// Spans are exported synchronously because each program runs a single chain and exits.
func NewTracerProvider(ctx context.Context, endpoint, serviceName string) (*TracerProvider, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = "http://localhost:4318"
	}
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(endpoint),
	}
	if u, err := url.Parse(endpoint); err == nil && u.Scheme == "http" {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newProvider(sdktrace.NewSimpleSpanProcessor(exporter), serviceName)
}

// newProvider builds the SDK provider around processor and installs it globally.
func newProvider(processor sdktrace.SpanProcessor, serviceName string) (*TracerProvider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.Version),
		),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return &TracerProvider{provider: provider}, nil
}

// Tracer returns a named tracer, or a no-op tracer when tracing is disabled.
func (tp *TracerProvider) Tracer(name string) trace.Tracer {
	if tp == nil || tp.provider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return tp.provider.Tracer(name)
}

// Shutdown flushes and stops the TracerProvider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp == nil || tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}

package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "sqlserver-diagnostics"
	tracerName  = "github.com/coltonspears/McpServer"
)

// InitTracer installs the global TracerProvider.
// With OTEL_EXPORTER_OTLP_ENDPOINT set spans are exported over OTLP gRPC,
// otherwise the global no-op provider stays in place.
// The returned function flushes pending spans.
func InitTracer(ctx context.Context, serverAddress string) (func(context.Context) error, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		log.Debug("Tracing disabled (OTEL_EXPORTER_OTLP_ENDPOINT not set)")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.DBSystemMSSQL,
			semconv.ServerAddress(serverAddress),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Info("Tracing enabled, exporting to %s", endpoint)
	return tp.Shutdown, nil
}

// Tracer returns the tracer used for diagnostic spans
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

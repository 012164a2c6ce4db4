package tracer

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"go.uber.org/zap"
)

// InitTracer wires OpenTelemetry with an OTLP HTTP exporter and returns
// a shutdown function for application exit. Tracing is disabled unless
// OTEL_ENABLED=true.
func InitTracer(logger *zap.Logger) func(context.Context) error {
	if os.Getenv("OTEL_ENABLED") != "true" {
		logger.Info("tracing disabled (set OTEL_ENABLED=true to enable)")
		return func(context.Context) error { return nil }
	}

	ctx := context.Background()

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4318"
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Warn("failed to create OTLP exporter, tracing disabled", zap.Error(err))
		return func(context.Context) error { return nil }
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("tripboard-backend"),
		)),
	)

	otel.SetTracerProvider(tp)
	logger.Info("tracer initialized", zap.String("endpoint", endpoint))
	return tp.Shutdown
}

package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const shutdownTimeout = 5 * time.Second

// TelemetryProviders holds the OpenTelemetry providers of the service.
type TelemetryProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Resource       *resource.Resource
}

// NewTelemetryProviders creates the tracer and meter providers and sets them as globals.
//
// With tracing enabled, spans are exported with OTLP over gRPC to OTLPEndpoint.
// Without it, spans are recorded but not exported. The meter provider has no reader, metrics
// are exposed with the Prometheus collector instead.
func NewTelemetryProviders(ctx context.Context, c TelemetryConfig, version string) (*TelemetryProviders, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(c.ServiceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry resource: %w", err)
	}

	tracerOptions := []trace.TracerProviderOption{trace.WithResource(res)}

	if c.Tracing {
		traceExporter, exporterErr := otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(c.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if exporterErr != nil {
			return nil, fmt.Errorf("creating trace exporter: %w", exporterErr)
		}

		tracerOptions = append(tracerOptions, trace.WithBatcher(traceExporter))
	}

	tracerProvider := trace.NewTracerProvider(tracerOptions...)
	meterProvider := metric.NewMeterProvider(metric.WithResource(res))

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &TelemetryProviders{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Resource:       res,
	}, nil
}

// Shutdown flushes and stops both providers.
func (p *TelemetryProviders) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}

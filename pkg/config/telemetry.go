package config

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/mpapenbr/crashviz/log"
	"github.com/mpapenbr/crashviz/version"
)

const serviceName = "crashviz"

type (
	Telemetry struct {
		tp *sdktrace.TracerProvider
		mp *sdkmetric.MeterProvider
	}
	telemetryConfig struct {
		endpoint string
		writer   io.Writer
	}
	TelemetryOption func(*telemetryConfig)
)

// WithTelemetryEndpoint sends traces and metrics via OTLP/gRPC to endpoint.
func WithTelemetryEndpoint(endpoint string) TelemetryOption {
	return func(c *telemetryConfig) {
		c.endpoint = endpoint
	}
}

// WithTelemetryWriter sets the destination of the stdout exporters.
func WithTelemetryWriter(w io.Writer) TelemetryOption {
	return func(c *telemetryConfig) {
		c.writer = w
	}
}

// SetupTelemetry installs global trace and meter providers. Without an
// endpoint the data is written to stderr.
func SetupTelemetry(ctx context.Context, opts ...TelemetryOption) (*Telemetry, error) {
	cfg := &telemetryConfig{endpoint: TelemetryEndpoint, writer: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version.Version),
	)

	traceExporter, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	metricExporter, err := newMetricExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	log.Debug("telemetry initialized", log.String("endpoint", cfg.endpoint))
	return &Telemetry{tp: tp, mp: mp}, nil
}

func newTraceExporter(ctx context.Context, cfg *telemetryConfig) (sdktrace.SpanExporter, error) {
	if cfg.endpoint == "" {
		return stdouttrace.New(stdouttrace.WithWriter(cfg.writer))
	}
	return otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.endpoint),
		otlptracegrpc.WithInsecure())
}

func newMetricExporter(ctx context.Context, cfg *telemetryConfig) (sdkmetric.Exporter, error) {
	if cfg.endpoint == "" {
		return stdoutmetric.New(stdoutmetric.WithWriter(cfg.writer))
	}
	return otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.endpoint),
		otlpmetricgrpc.WithInsecure())
}

// Shutdown flushes pending telemetry data.
func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := errors.Join(t.tp.Shutdown(ctx), t.mp.Shutdown(ctx))
	if err != nil {
		log.Warn("telemetry shutdown", log.ErrorField(err))
	}
}

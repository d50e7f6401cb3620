// Package telemetry initializes OpenTelemetry tracing and metrics exporters.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"golang.org/x/sync/errgroup"

	"github.com/ashita-ai/tsuiseki/internal/config"
)

// Shutdown flushes and stops the configured providers.
type Shutdown func(ctx context.Context) error

// NoopShutdown is returned when no exporter is configured.
func NoopShutdown(context.Context) error { return nil }

// Config selects the exporter bootstrap path.
type Config struct {
	Exporter    string // config.ExporterOTLP, ExporterConsole, or ExporterNone
	Endpoint    string // OTLP endpoint, host:port
	ServiceName string
	Version     string
	Insecure    bool
}

// Init configures the global OpenTelemetry tracer (and, for the OTLP path,
// meter) providers. For ExporterNone, or for ExporterOTLP with an empty
// endpoint, telemetry stays disabled and the default no-op providers remain
// in place. Returns a shutdown function that must be called during graceful
// shutdown.
func Init(ctx context.Context, cfg Config) (Shutdown, error) {
	switch cfg.Exporter {
	case config.ExporterNone, "":
		return NoopShutdown, nil
	case config.ExporterConsole:
		return initConsole(ctx, cfg)
	case config.ExporterOTLP:
		if cfg.Endpoint == "" {
			return NoopShutdown, nil
		}
		return initOTLP(ctx, cfg)
	default:
		return nil, fmt.Errorf("telemetry: unknown exporter %q", cfg.Exporter)
	}
}

// initConsole wires a synchronous stdout exporter. Spans print as they end,
// with no batching delay.
func initConsole(ctx context.Context, cfg Config) (Shutdown, error) {
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("telemetry: create console exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	setPropagator()

	return tp.Shutdown, nil
}

// initOTLP wires batched OTLP HTTP exporters for traces and metrics.
func initOTLP(ctx context.Context, cfg Config) (Shutdown, error) {
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Trace exporter.
	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
	}
	traceExp, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp,
			sdktrace.WithBatchTimeout(5*time.Second),
		),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	setPropagator()

	// Metric exporter.
	metricOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}
	metricExp, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExp,
				sdkmetric.WithInterval(15*time.Second),
			),
		),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	shutdown := func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return tp.Shutdown(ctx) })
		g.Go(func() error { return mp.Shutdown(ctx) })
		return g.Wait()
	}

	return shutdown, nil
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create resource: %w", err)
	}
	return res, nil
}

// setPropagator registers W3C Trace Context and Baggage propagators so span
// context survives process boundaries (e.g. when the traced application also
// makes instrumented HTTP calls).
func setPropagator() {
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
}

// Package tsuiseki adds automatic tracing to calls made against third-party
// AI provider SDKs.
//
// The engine is generic: per-provider packages (openai, anthropic) supply an
// Extractor that maps the SDK's request/response shapes onto a neutral model,
// and the engine handles everything else: opening a span, propagating the
// trace context, accumulating streamed chunks, redacting and truncating large
// payloads, and finalizing the span exactly once however the call ends.
//
//	tracer, err := tsuiseki.New(tsuiseki.WithServiceName("my-agent"))
//	if err != nil { ... }
//	defer tracer.Shutdown(context.Background())
//
//	client := openai.NewClient(tracer, openaisdk.NewClient())
//	resp, err := client.ChatCompletion(ctx, params)
//
// Tracing is strictly additive and fail-open: a wrapped call's observable
// outcome (value, error, panic) is never changed by the instrumentation,
// and failures inside the instrumentation itself degrade to fallback
// attribute values rather than failing the call.
package tsuiseki

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ashita-ai/tsuiseki/internal/config"
	"github.com/ashita-ai/tsuiseki/internal/telemetry"
	"github.com/ashita-ai/tsuiseki/semconv"
)

const instrumentationName = "github.com/ashita-ai/tsuiseki"

// Tracer is the span lifecycle engine. Construct with New(); a Tracer is safe
// for concurrent use and its configuration is immutable after construction.
type Tracer struct {
	cfg      config.Config
	tracer   trace.Tracer
	logger   *slog.Logger
	registry *Registry
	metrics  *usageMetrics
	shutdown telemetry.Shutdown
}

// New initialises a Tracer. Configuration is read from environment variables
// (a .env file is honored if present), then option overrides are applied.
// Invalid configuration fails here: it is a programming error, not a runtime
// condition.
//
// Unless WithTracerProvider is given, New bootstraps the exporter selected by
// TSUISEKI_EXPORTER and registers it as the global OpenTelemetry provider.
func New(opts ...Option) (*Tracer, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: parseLogLevel(cfg.LogLevel),
		}))
	}

	version := o.version
	if version == "" {
		version = "dev"
	}

	var tp trace.TracerProvider
	var mp metric.MeterProvider
	shutdown := telemetry.NoopShutdown

	if o.tracerProvider != nil {
		tp = o.tracerProvider
		mp = o.meterProvider
		if mp == nil {
			mp = otel.GetMeterProvider()
		}
	} else {
		shutdown, err = telemetry.Init(context.Background(), telemetry.Config{
			Exporter:    cfg.Exporter,
			Endpoint:    cfg.OTELEndpoint,
			ServiceName: cfg.ServiceName,
			Version:     version,
			Insecure:    cfg.OTELInsecure,
		})
		if err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		tp = otel.GetTracerProvider()
		mp = otel.GetMeterProvider()
		if o.meterProvider != nil {
			mp = o.meterProvider
		}
	}

	return &Tracer{
		cfg:      cfg,
		tracer:   tp.Tracer(instrumentationName, trace.WithInstrumentationVersion(version)),
		logger:   logger,
		registry: NewRegistry(),
		metrics:  newUsageMetrics(mp, logger),
		shutdown: shutdown,
	}, nil
}

// Shutdown flushes any exporter the Tracer bootstrapped itself. It is a no-op
// when the TracerProvider was supplied by the caller.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}

// Logger returns the Tracer's structured logger.
func (t *Tracer) Logger() *slog.Logger { return t.logger }

// Registry returns the instrumentation registry owned by this Tracer.
func (t *Tracer) Registry() *Registry { return t.registry }

// StartSpan opens a span manually, for chain/agent/workflow scopes around
// intercepted calls. The span-kind attribute is always recorded. The returned
// context has ambient suppression cleared: an explicitly started span is the
// escape valve that lets a wrapper trace itself while nested instrumented
// calls inside it stay suppressed. The caller must end the span.
func (t *Tracer) StartSpan(ctx context.Context, name string, kind SpanKind, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.startSpan(ctx, name, kind, attrs)
}

func (t *Tracer) startSpan(ctx context.Context, name string, kind SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	ctx = restoreTracing(ctx)
	all := make([]attribute.KeyValue, 0, len(attrs)+2)
	all = append(all,
		attribute.String(semconv.SpanKind, string(kind)),
		attribute.String(semconv.CallID, uuid.NewString()),
	)
	all = append(all, attrs...)
	return t.tracer.Start(ctx, name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func applyOverrides(cfg *config.Config, o resolvedOptions) {
	if o.serviceName != "" {
		cfg.ServiceName = o.serviceName
	}
	if o.exporter != "" {
		cfg.Exporter = o.exporter
	}
	if o.endpoint != "" {
		cfg.OTELEndpoint = o.endpoint
	}
	if o.hideInputs != nil {
		cfg.HideInputs = *o.hideInputs
	}
	if o.hideOutputs != nil {
		cfg.HideOutputs = *o.hideOutputs
	}
	if o.hideInputMessages != nil {
		cfg.HideInputMessages = *o.hideInputMessages
	}
	if o.hideOutputMessages != nil {
		cfg.HideOutputMessages = *o.hideOutputMessages
	}
	if o.maxAttributeLength != nil {
		cfg.MaxAttributeLength = *o.maxAttributeLength
	}
}

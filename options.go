package tsuiseki

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Tracer.
type Option func(*resolvedOptions)

// resolvedOptions holds all extension points after applying defaults.
// Unexported; callers use the With* functions.
type resolvedOptions struct {
	logger             *slog.Logger
	tracerProvider     trace.TracerProvider
	meterProvider      metric.MeterProvider
	serviceName        string
	version            string
	exporter           string
	endpoint           string
	hideInputs         *bool
	hideOutputs        *bool
	hideInputMessages  *bool
	hideOutputMessages *bool
	maxAttributeLength *int
}

// WithLogger sets the structured logger for the Tracer.
// If not set, the default slog logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithTracerProvider supplies an externally managed TracerProvider. When set,
// the Tracer performs no exporter bootstrap of its own and Shutdown is a
// no-op; the caller owns the provider's lifecycle. Tests use this to capture
// spans in memory.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *resolvedOptions) { o.tracerProvider = tp }
}

// WithMeterProvider supplies an externally managed MeterProvider for the
// token-usage counters. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *resolvedOptions) { o.meterProvider = mp }
}

// WithServiceName overrides the exported service name (OTEL_SERVICE_NAME env var).
func WithServiceName(name string) Option {
	return func(o *resolvedOptions) { o.serviceName = name }
}

// WithVersion sets the instrumentation version reported on the tracer scope
// and the exported resource.
func WithVersion(version string) Option {
	return func(o *resolvedOptions) { o.version = version }
}

// WithExporter overrides the exporter selection (TSUISEKI_EXPORTER env var):
// "otlp", "console", or "none".
func WithExporter(name string) Option {
	return func(o *resolvedOptions) { o.exporter = name }
}

// WithEndpoint overrides the OTLP endpoint (OTEL_EXPORTER_OTLP_ENDPOINT env var).
func WithEndpoint(endpoint string) Option {
	return func(o *resolvedOptions) { o.endpoint = endpoint }
}

// WithHideInputs overrides TSUISEKI_HIDE_INPUTS. When true, the raw input
// payload and the input message list are omitted from spans entirely.
func WithHideInputs(hide bool) Option {
	return func(o *resolvedOptions) { o.hideInputs = &hide }
}

// WithHideOutputs overrides TSUISEKI_HIDE_OUTPUTS. When true, the raw output
// payload and the output message list are omitted from spans entirely.
func WithHideOutputs(hide bool) Option {
	return func(o *resolvedOptions) { o.hideOutputs = &hide }
}

// WithHideInputMessages overrides TSUISEKI_HIDE_INPUT_MESSAGES. Hides only
// the structured input message list; the raw input payload is still recorded.
func WithHideInputMessages(hide bool) Option {
	return func(o *resolvedOptions) { o.hideInputMessages = &hide }
}

// WithHideOutputMessages overrides TSUISEKI_HIDE_OUTPUT_MESSAGES. Hides only
// the structured output message list; the raw output payload is still recorded.
func WithHideOutputMessages(hide bool) Option {
	return func(o *resolvedOptions) { o.hideOutputMessages = &hide }
}

// WithMaxAttributeLength overrides TSUISEKI_MAX_ATTRIBUTE_LENGTH, the
// truncation threshold in characters for string attribute values.
// Zero disables truncation.
func WithMaxAttributeLength(n int) Option {
	return func(o *resolvedOptions) { o.maxAttributeLength = &n }
}

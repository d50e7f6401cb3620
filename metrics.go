package tsuiseki

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/ashita-ai/tsuiseki/semconv"
)

// usageMetrics counts provider-reported tokens per model. Recording is
// best-effort: a counter that fails to build degrades to a noop so spans
// keep flowing.
type usageMetrics struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
}

func newUsageMetrics(mp metric.MeterProvider, logger *slog.Logger) *usageMetrics {
	meter := mp.Meter(instrumentationName)
	return &usageMetrics{
		promptTokens: counter(meter, logger, "genai.token.prompt",
			metric.WithDescription("Number of prompt tokens consumed."),
			metric.WithUnit("{tokens}")),
		completionTokens: counter(meter, logger, "genai.token.completion",
			metric.WithDescription("Number of completion tokens produced."),
			metric.WithUnit("{tokens}")),
	}
}

func counter(meter metric.Meter, logger *slog.Logger, name string, opts ...metric.Int64CounterOption) metric.Int64Counter {
	c, err := meter.Int64Counter(name, opts...)
	if err != nil {
		logger.Warn("create counter", "name", name, "error", err)
		c, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter(name)
	}
	return c
}

func (m *usageMetrics) record(ctx context.Context, model string, u Usage) {
	attrs := metric.WithAttributes(attribute.String(semconv.GenAIRequestModel, model))
	if u.InputTokens > 0 {
		m.promptTokens.Add(ctx, u.InputTokens, attrs)
	}
	if u.OutputTokens > 0 {
		m.completionTokens.Add(ctx, u.OutputTokens, attrs)
	}
}

package tsuiseki_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ashita-ai/tsuiseki"
	"github.com/ashita-ai/tsuiseki/semconv"
)

func TestTokenCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tr, err := tsuiseki.New(
		tsuiseki.WithTracerProvider(tp),
		tsuiseki.WithMeterProvider(mp),
	)
	require.NoError(t, err)

	_, err = tsuiseki.Call(context.Background(), tr, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		fakeReq{model: "test-model", prompt: "hi"},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			return fakeResp{text: "hello", usage: &tsuiseki.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}, nil
		})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(10), counterValue(t, rm, "genai.token.prompt", "test-model"))
	assert.Equal(t, int64(5), counterValue(t, rm, "genai.token.completion", "test-model"))
}

func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name, model string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %q is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attribute.Key(semconv.GenAIRequestModel)); ok && v.AsString() == model {
					return dp.Value
				}
			}
		}
	}
	t.Fatalf("no data point for metric %q with model %q", name, model)
	return 0
}

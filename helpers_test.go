package tsuiseki_test

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ashita-ai/tsuiseki"
)

// newTestTracer builds a Tracer backed by an in-memory span recorder.
// Extra options are applied after the recorder wiring so tests can layer
// redaction and truncation settings on top.
func newTestTracer(t *testing.T, opts ...tsuiseki.Option) (*tsuiseki.Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	all := append([]tsuiseki.Option{
		tsuiseki.WithTracerProvider(tp),
		tsuiseki.WithMeterProvider(noop.NewMeterProvider()),
	}, opts...)
	tr, err := tsuiseki.New(all...)
	require.NoError(t, err)
	return tr, rec
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func mustAttr(t *testing.T, span sdktrace.ReadOnlySpan, key string) attribute.Value {
	t.Helper()
	v, ok := spanAttr(span, key)
	require.True(t, ok, "attribute %q not recorded", key)
	return v
}

func attrString(t *testing.T, span sdktrace.ReadOnlySpan, key string) string {
	t.Helper()
	v, ok := spanAttr(span, key)
	require.True(t, ok, "attribute %q not recorded", key)
	return v.AsString()
}

func hasAttr(span sdktrace.ReadOnlySpan, key string) bool {
	_, ok := spanAttr(span, key)
	return ok
}

// fakeReq and fakeResp stand in for a provider SDK's request/response shapes.
type fakeReq struct {
	model  string
	prompt string
}

type fakeResp struct {
	id    string
	text  string
	usage *tsuiseki.Usage
}

// fakeExtractor satisfies both the unary and the streaming extraction
// contracts; stream chunks are passed through in neutral form directly.
type fakeExtractor struct{}

func (fakeExtractor) System() string { return "fake" }

func (fakeExtractor) Request(r fakeReq) tsuiseki.Request {
	return tsuiseki.Request{
		Model:    r.model,
		Messages: []tsuiseki.Message{{Role: "user", Content: r.prompt}},
		Raw:      r.prompt,
	}
}

func (fakeExtractor) Response(r fakeResp) tsuiseki.Response {
	return tsuiseki.Response{ID: r.id, Text: r.text, Usage: r.usage}
}

func (fakeExtractor) Chunk(c tsuiseki.Chunk) tsuiseki.Chunk { return c }

// chunkSeq yields the given chunks in order, optionally terminating with err.
func chunkSeq(chunks []tsuiseki.Chunk, err error) iter.Seq2[tsuiseki.Chunk, error] {
	return func(yield func(tsuiseki.Chunk, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
		if err != nil {
			yield(tsuiseki.Chunk{}, err)
		}
	}
}

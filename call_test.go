package tsuiseki_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"

	"github.com/ashita-ai/tsuiseki"
	"github.com/ashita-ai/tsuiseki/semconv"
)

func TestCallSuccess(t *testing.T) {
	tr, rec := newTestTracer(t)
	ctx := context.Background()

	resp, err := tsuiseki.Call(ctx, tr, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		fakeReq{model: "test-model", prompt: "hi"},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			return fakeResp{id: "resp-1", text: "hello", usage: &tsuiseki.Usage{InputTokens: 3, OutputTokens: 2, TotalTokens: 5}}, nil
		})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.text)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, "chat", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Equal(t, "LLM", attrString(t, span, semconv.SpanKind))
	assert.NotEmpty(t, attrString(t, span, semconv.CallID))
	assert.Equal(t, "fake", attrString(t, span, semconv.GenAISystem))
	assert.Equal(t, "test-model", attrString(t, span, semconv.GenAIRequestModel))
	assert.Equal(t, "hi", attrString(t, span, semconv.InputValue))
	assert.Equal(t, "user", attrString(t, span, semconv.PromptRole(0)))
	assert.Equal(t, "hi", attrString(t, span, semconv.PromptContent(0)))
	assert.Equal(t, "hello", attrString(t, span, semconv.OutputValue))
	assert.Equal(t, "resp-1", attrString(t, span, semconv.GenAIResponseID))

	in, ok := spanAttr(span, semconv.GenAIUsageInputTokens)
	require.True(t, ok)
	assert.Equal(t, int64(3), in.AsInt64())
	total, ok := spanAttr(span, semconv.GenAIUsageTotalTokens)
	require.True(t, ok)
	assert.Equal(t, int64(5), total.AsInt64())
}

func TestCallError(t *testing.T) {
	tr, rec := newTestTracer(t)
	boom := errors.New("rate limited")

	resp, err := tsuiseki.Call(context.Background(), tr, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		fakeReq{model: "test-model", prompt: "hi"},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			return fakeResp{}, boom
		})
	// The exact error instance must come back, not a wrapped copy.
	require.Same(t, boom, err)
	assert.Zero(t, resp)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "rate limited", span.Status().Description)
	assert.Equal(t, "*errors.errorString", attrString(t, span, semconv.ErrorType))
	assert.Equal(t, "rate limited", attrString(t, span, semconv.ErrorMessage))
	// Input attributes survive on the error path.
	assert.Equal(t, "test-model", attrString(t, span, semconv.GenAIRequestModel))
	assert.False(t, hasAttr(span, semconv.OutputValue))
	require.NotEmpty(t, span.Events())
}

func TestWrapPanicPropagates(t *testing.T) {
	tr, rec := newTestTracer(t)
	wrapped := tsuiseki.Wrap(tr, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			panic("kaboom")
		})

	assert.PanicsWithValue(t, "kaboom", func() {
		_, _ = wrapped(context.Background(), fakeReq{model: "m", prompt: "hi"})
	})

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, attrString(t, spans[0], semconv.ErrorMessage), "kaboom")
}

func TestWrapNilTracer(t *testing.T) {
	wrapped := tsuiseki.Wrap(nil, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			return fakeResp{text: "ok"}, nil
		})
	resp, err := wrapped(context.Background(), fakeReq{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.text)
}

func TestCallHideInputs(t *testing.T) {
	tr, rec := newTestTracer(t, tsuiseki.WithHideInputs(true))

	_, err := tsuiseki.Call(context.Background(), tr, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		fakeReq{model: "test-model", prompt: "secret prompt"},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			return fakeResp{text: "visible output"}, nil
		})
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	// Redacted keys are absent, not blank.
	assert.False(t, hasAttr(span, semconv.InputValue))
	assert.False(t, hasAttr(span, semconv.PromptContent(0)))
	// Non-sensitive request metadata and all output attributes stay.
	assert.Equal(t, "test-model", attrString(t, span, semconv.GenAIRequestModel))
	assert.Equal(t, "visible output", attrString(t, span, semconv.OutputValue))
}

func TestCallHideInputMessagesKeepsRawInput(t *testing.T) {
	tr, rec := newTestTracer(t, tsuiseki.WithHideInputMessages(true))

	_, err := tsuiseki.Call(context.Background(), tr, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		fakeReq{model: "m", prompt: "hi"},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			return fakeResp{text: "out"}, nil
		})
	require.NoError(t, err)

	span := rec.Ended()[0]
	assert.Equal(t, "hi", attrString(t, span, semconv.InputValue))
	assert.False(t, hasAttr(span, semconv.PromptRole(0)))
	assert.False(t, hasAttr(span, semconv.PromptContent(0)))
}

func TestCallTruncation(t *testing.T) {
	const max = 20
	tr, rec := newTestTracer(t, tsuiseki.WithMaxAttributeLength(max))
	long := strings.Repeat("x", 100)

	_, err := tsuiseki.Call(context.Background(), tr, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		fakeReq{model: "m", prompt: long},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			return fakeResp{text: long}, nil
		})
	require.NoError(t, err)

	span := rec.Ended()[0]
	for _, key := range []string{semconv.InputValue, semconv.PromptContent(0), semconv.OutputValue} {
		got := attrString(t, span, key)
		assert.Len(t, got, max, "attribute %q", key)
		assert.True(t, strings.HasSuffix(got, "..."), "attribute %q = %q", key, got)
	}
}

func TestCallSuppressed(t *testing.T) {
	tr, rec := newTestTracer(t)
	ctx := tsuiseki.WithSuppressedTracing(context.Background())

	called := false
	resp, err := tsuiseki.Call(ctx, tr, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		fakeReq{prompt: "hi"},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			called = true
			return fakeResp{text: "ok"}, nil
		})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp.text)
	assert.Empty(t, rec.Ended())
}

func TestStartSpanClearsSuppression(t *testing.T) {
	tr, rec := newTestTracer(t)
	ctx := tsuiseki.WithSuppressedTracing(context.Background())

	ctx, span := tr.StartSpan(ctx, "agent-step", tsuiseki.SpanKindAgent)
	_, err := tsuiseki.Call(ctx, tr, "chat", tsuiseki.SpanKindLLM, fakeExtractor{},
		fakeReq{prompt: "hi"},
		func(ctx context.Context, req fakeReq) (fakeResp, error) {
			return fakeResp{text: "ok"}, nil
		})
	require.NoError(t, err)
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	inner, outer := spans[0], spans[1]
	assert.Equal(t, "chat", inner.Name())
	assert.Equal(t, "agent-step", outer.Name())
	assert.Equal(t, outer.SpanContext().SpanID(), inner.Parent().SpanID())
	assert.Equal(t, "AGENT", attrString(t, outer, semconv.SpanKind))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := tsuiseki.New(tsuiseki.WithMaxAttributeLength(-1))
	require.Error(t, err)

	_, err = tsuiseki.New(tsuiseki.WithExporter("bogus"))
	require.Error(t, err)
}

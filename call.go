package tsuiseki

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Wrap returns a decorator around fn with the identical calling convention,
// adding span emission as its only side effect.
//
// The wrapped function:
//   - honors ambient suppression (see WithSuppressedTracing) by calling fn
//     directly, untraced;
//   - opens a span with the extractor's input attributes before invoking fn;
//   - finalizes the span exactly once on every exit path (value, error, or
//     panic) before the outcome reaches the caller;
//   - never changes the outcome: errors and panics propagate by identity.
func Wrap[Req, Resp any](t *Tracer, name string, kind SpanKind, ex Extractor[Req, Resp], fn func(context.Context, Req) (Resp, error)) func(context.Context, Req) (Resp, error) {
	return func(ctx context.Context, req Req) (Resp, error) {
		if t == nil || TracingSuppressed(ctx) {
			return fn(ctx, req)
		}

		in := safeExtract(t, "request", func() Request { return ex.Request(req) })
		ctx, span := t.startSpan(ctx, name, kind, t.inputAttributes(ex.System(), in))

		defer func() {
			if r := recover(); r != nil {
				t.finishError(span, fmt.Errorf("panic: %v", r))
				panic(r)
			}
		}()

		resp, err := fn(ctx, req)
		if err != nil {
			t.finishError(span, err)
			return resp, err
		}

		out := safeExtract(t, "response", func() Response { return ex.Response(resp) })
		t.finishSuccess(ctx, span, in.Model, out)
		return resp, nil
	}
}

// Call applies Wrap and invokes the decorated function at once.
func Call[Req, Resp any](ctx context.Context, t *Tracer, name string, kind SpanKind, ex Extractor[Req, Resp], req Req, fn func(context.Context, Req) (Resp, error)) (Resp, error) {
	return Wrap(t, name, kind, ex, fn)(ctx, req)
}

// finishSuccess writes output and usage attributes, records token metrics,
// and ends the span with OK status.
func (t *Tracer) finishSuccess(ctx context.Context, span trace.Span, requestModel string, out Response) {
	span.SetAttributes(t.outputAttributes(out)...)
	if out.Usage != nil {
		t.metrics.record(ctx, modelOr(out.Model, requestModel), *out.Usage)
	}
	span.SetStatus(codes.Ok, "")
	span.End()
}

// safeExtract contains extractor failures: a panic inside provider-specific
// extraction degrades to a zero value and a low-severity log, never to a
// failed user call.
func safeExtract[T any](t *Tracer, stage string, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Debug("tsuiseki: attribute extraction failed", "stage", stage, "panic", r)
		}
	}()
	return fn()
}

func modelOr(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}

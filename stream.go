package tsuiseki

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ashita-ai/tsuiseki/semconv"
)

// WrapStream returns a decorator around a stream-opening function. The
// decorated function returns a sequence that yields exactly the same items,
// in the same order, with no added buffering, while a per-stream accumulator
// builds the span's final output attributes from each chunk's neutral form.
//
// Finalization paths:
//   - the opening call fails: the span ends ERROR before the error returns;
//   - the sequence completes: final output/usage attributes, status OK;
//   - the sequence fails mid-stream: the error reaches the consumer
//     unchanged and the span ends ERROR, carrying the partial content
//     accumulated so far;
//   - the consumer stops draining early: the span ends OK at that point with
//     the partial content and a tsuiseki.stream.abandoned marker.
func WrapStream[Req, C any](t *Tracer, name string, kind SpanKind, ex StreamExtractor[Req, C], fn func(context.Context, Req) (iter.Seq2[C, error], error)) func(context.Context, Req) (iter.Seq2[C, error], error) {
	return func(ctx context.Context, req Req) (iter.Seq2[C, error], error) {
		if t == nil || TracingSuppressed(ctx) {
			return fn(ctx, req)
		}

		in := safeExtract(t, "request", func() Request { return ex.Request(req) })
		in.Stream = true
		ctx, span := t.startSpan(ctx, name, kind, t.inputAttributes(ex.System(), in))

		seq, err := func() (iter.Seq2[C, error], error) {
			defer func() {
				if r := recover(); r != nil {
					t.finishError(span, fmt.Errorf("panic: %v", r))
					panic(r)
				}
			}()
			return fn(ctx, req)
		}()
		if err != nil {
			t.finishError(span, err)
			return nil, err
		}

		extract := func(item C) Chunk {
			return safeExtract(t, "chunk", func() Chunk { return ex.Chunk(item) })
		}
		return accumulate(t, ctx, span, in.Model, extract, seq), nil
	}
}

// CallStream applies WrapStream and invokes the decorated function at once.
func CallStream[Req, C any](ctx context.Context, t *Tracer, name string, kind SpanKind, ex StreamExtractor[Req, C], req Req, fn func(context.Context, Req) (iter.Seq2[C, error], error)) (iter.Seq2[C, error], error) {
	return WrapStream(t, name, kind, ex, fn)(ctx, req)
}

// accumulate wraps seq so items pass through unchanged while streamState
// builds up the span's final attributes. The span belongs to this one
// sequence; every exit path below ends it exactly once.
func accumulate[C any](t *Tracer, ctx context.Context, span trace.Span, model string, extract func(C) Chunk, seq iter.Seq2[C, error]) iter.Seq2[C, error] {
	return func(yield func(C, error) bool) {
		st := &streamState{}
		defer func() {
			// A panic in the consumer's loop body (or upstream) unwinds
			// through here; the span must not be left open.
			if r := recover(); r != nil {
				st.applyTo(t, span)
				t.finishError(span, fmt.Errorf("panic: %v", r))
				panic(r)
			}
		}()

		for item, err := range seq {
			if err != nil {
				st.applyTo(t, span)
				t.finishError(span, err)
				yield(item, err)
				return
			}
			st.observe(extract(item))
			if !yield(item, nil) {
				span.SetAttributes(attribute.Bool(semconv.StreamAbandoned, true))
				st.finish(t, ctx, span, model)
				return
			}
		}
		st.finish(t, ctx, span, model)
	}
}

// streamState accumulates incremental stream content. One instance per
// wrapped sequence; only that sequence's goroutine touches it.
type streamState struct {
	text          strings.Builder
	tools         []toolCallBuilder
	usage         Usage
	hasUsage      bool
	finishReasons []string
	chunks        int
}

// toolCallBuilder merges the fragments of one logical tool call, identified
// by its stream position.
type toolCallBuilder struct {
	id   string
	name string
	args strings.Builder
}

func (s *streamState) observe(c Chunk) {
	s.chunks++
	if c.TextDelta != "" {
		s.text.WriteString(c.TextDelta)
	}
	for i := range c.ToolCalls {
		s.mergeToolCall(&c.ToolCalls[i])
	}
	if c.Usage != nil {
		s.mergeUsage(*c.Usage)
	}
	if c.FinishReason != "" {
		s.addFinishReason(c.FinishReason)
	}
}

func (s *streamState) mergeToolCall(delta *ToolCallDelta) {
	if delta.Index < 0 {
		return
	}
	for len(s.tools) <= delta.Index {
		s.tools = append(s.tools, toolCallBuilder{})
	}
	b := &s.tools[delta.Index]
	if delta.ID != "" {
		b.id = delta.ID
	}
	if delta.Name != "" {
		b.name = delta.Name
	}
	if delta.Arguments != "" {
		b.args.WriteString(delta.Arguments)
	}
}

// mergeUsage overwrites counters with the latest-seen nonzero values.
// Providers emit running or final-only totals, sometimes split across chunks
// (input tokens at stream start, output tokens on the terminal chunk); last
// value wins per counter.
func (s *streamState) mergeUsage(u Usage) {
	s.hasUsage = true
	if u.InputTokens > 0 {
		s.usage.InputTokens = u.InputTokens
	}
	if u.OutputTokens > 0 {
		s.usage.OutputTokens = u.OutputTokens
	}
	if u.TotalTokens > 0 {
		s.usage.TotalTokens = u.TotalTokens
	}
}

func (s *streamState) addFinishReason(reason string) {
	for _, r := range s.finishReasons {
		if r == reason {
			return
		}
	}
	s.finishReasons = append(s.finishReasons, reason)
}

// response assembles the accumulated state into a neutral Response.
// Tool-call arguments arrive as JSON fragments; by this point they should
// concatenate to a complete document, but an interrupted stream leaves them
// truncated. Repair makes them queryable; the raw form is kept when repair
// fails.
func (s *streamState) response() Response {
	resp := Response{
		Text:          s.text.String(),
		FinishReasons: s.finishReasons,
	}
	msg := Message{Role: "assistant", Content: resp.Text}
	for _, b := range s.tools {
		args := b.args.String()
		if args != "" {
			if repaired, err := jsonrepair.JSONRepair(args); err == nil {
				args = repaired
			}
		}
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{ID: b.id, Name: b.name, Arguments: args})
	}
	if resp.Text != "" || len(msg.ToolCalls) > 0 {
		resp.Messages = []Message{msg}
	}
	if s.hasUsage {
		u := s.usage
		if u.TotalTokens == 0 {
			u.TotalTokens = u.InputTokens + u.OutputTokens
		}
		resp.Usage = &u
	}
	return resp
}

// applyTo writes the accumulated content onto the span without ending it.
// Used on both the success and the partial-content error paths.
func (s *streamState) applyTo(t *Tracer, span trace.Span) {
	span.SetAttributes(attribute.Int(semconv.StreamChunkCount, s.chunks))
	span.SetAttributes(t.outputAttributes(s.response())...)
}

// finish writes the final attributes, records token metrics, and ends the
// span with OK status.
func (s *streamState) finish(t *Tracer, ctx context.Context, span trace.Span, model string) {
	s.applyTo(t, span)
	if resp := s.response(); resp.Usage != nil {
		t.metrics.record(ctx, modelOr(resp.Model, model), *resp.Usage)
	}
	span.SetStatus(codes.Ok, "")
	span.End()
}

// Package anthropic instruments the official Anthropic Go SDK. The wrapper
// client delegates every call to the underlying SDK client and records one
// span per call via the engine's interceptors.
package anthropic

import (
	"context"
	"iter"

	ant "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/ashita-ai/tsuiseki"
)

const moduleName = "github.com/anthropics/anthropic-sdk-go"

// Client wraps an anthropic-sdk-go client with tracing. Construct with
// NewClient.
type Client struct {
	sdk     ant.Client
	message func(context.Context, ant.MessageNewParams) (*ant.Message, error)
	stream  func(context.Context, ant.MessageNewParams) (iter.Seq2[ant.MessageStreamEventUnion, error], error)
}

// NewClient builds a traced wrapper around sdk. A nil tracer yields a working
// pass-through client that records nothing.
func NewClient(tracer *tsuiseki.Tracer, sdk ant.Client) *Client {
	if tracer != nil {
		tracer.Registry().Apply(moduleName, func() {
			tracer.Logger().Debug("tsuiseki: instrumented module", "module", moduleName)
		})
	}

	c := &Client{sdk: sdk}
	c.message = tsuiseki.Wrap(tracer, "anthropic.messages", tsuiseki.SpanKindLLM, extractor{},
		func(ctx context.Context, params ant.MessageNewParams) (*ant.Message, error) {
			return sdk.Messages.New(ctx, params)
		})
	c.stream = tsuiseki.WrapStream(tracer, "anthropic.messages", tsuiseki.SpanKindLLM, extractor{},
		func(ctx context.Context, params ant.MessageNewParams) (iter.Seq2[ant.MessageStreamEventUnion, error], error) {
			return Events(sdk.Messages.NewStreaming(ctx, params)), nil
		})
	return c
}

// SDK returns the wrapped client, for calls that should bypass tracing.
func (c *Client) SDK() ant.Client { return c.sdk }

// Message performs a traced messages call.
func (c *Client) Message(ctx context.Context, params ant.MessageNewParams) (*ant.Message, error) {
	return c.message(ctx, params)
}

// MessageStream opens a traced streaming messages call. The returned sequence
// yields the SDK's events unchanged; the span stays open until the stream
// completes, fails, or is abandoned.
func (c *Client) MessageStream(ctx context.Context, params ant.MessageNewParams) (iter.Seq2[ant.MessageStreamEventUnion, error], error) {
	return c.stream(ctx, params)
}

// Events adapts an SSE stream into a sequence. The stream is closed when the
// sequence finishes, whether it is drained, fails, or is abandoned early.
func Events(s *ssestream.Stream[ant.MessageStreamEventUnion]) iter.Seq2[ant.MessageStreamEventUnion, error] {
	return func(yield func(ant.MessageStreamEventUnion, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Current(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(ant.MessageStreamEventUnion{}, err)
		}
	}
}

// Package openai instruments the official OpenAI Go SDK. The wrapper client
// delegates every call to the underlying SDK client and records one span per
// call via the engine's interceptors.
package openai

import (
	"context"
	"iter"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/ashita-ai/tsuiseki"
)

const moduleName = "github.com/openai/openai-go"

// Client wraps an openai-go client with tracing. Construct with NewClient.
type Client struct {
	sdk        oai.Client
	complete   func(context.Context, oai.ChatCompletionNewParams) (*oai.ChatCompletion, error)
	stream     func(context.Context, oai.ChatCompletionNewParams) (iter.Seq2[oai.ChatCompletionChunk, error], error)
	embeddings func(context.Context, oai.EmbeddingNewParams) (*oai.CreateEmbeddingResponse, error)
}

// NewClient builds a traced wrapper around sdk. A nil tracer yields a working
// pass-through client that records nothing.
func NewClient(tracer *tsuiseki.Tracer, sdk oai.Client) *Client {
	if tracer != nil {
		tracer.Registry().Apply(moduleName, func() {
			tracer.Logger().Debug("tsuiseki: instrumented module", "module", moduleName)
		})
	}

	c := &Client{sdk: sdk}
	c.complete = tsuiseki.Wrap(tracer, "openai.chat.completion", tsuiseki.SpanKindLLM, chatExtractor{},
		func(ctx context.Context, params oai.ChatCompletionNewParams) (*oai.ChatCompletion, error) {
			return sdk.Chat.Completions.New(ctx, params)
		})
	c.stream = tsuiseki.WrapStream(tracer, "openai.chat.completion", tsuiseki.SpanKindLLM, chatExtractor{},
		func(ctx context.Context, params oai.ChatCompletionNewParams) (iter.Seq2[oai.ChatCompletionChunk, error], error) {
			return Chunks(sdk.Chat.Completions.NewStreaming(ctx, params)), nil
		})
	c.embeddings = tsuiseki.Wrap(tracer, "openai.embeddings", tsuiseki.SpanKindEmbedding, embeddingExtractor{},
		func(ctx context.Context, params oai.EmbeddingNewParams) (*oai.CreateEmbeddingResponse, error) {
			return sdk.Embeddings.New(ctx, params)
		})
	return c
}

// SDK returns the wrapped client, for calls that should bypass tracing.
func (c *Client) SDK() oai.Client { return c.sdk }

// ChatCompletion performs a traced chat completion call.
func (c *Client) ChatCompletion(ctx context.Context, params oai.ChatCompletionNewParams) (*oai.ChatCompletion, error) {
	return c.complete(ctx, params)
}

// ChatCompletionStream opens a traced streaming chat completion. The returned
// sequence yields the SDK's chunks unchanged; the span stays open until the
// stream completes, fails, or is abandoned.
func (c *Client) ChatCompletionStream(ctx context.Context, params oai.ChatCompletionNewParams) (iter.Seq2[oai.ChatCompletionChunk, error], error) {
	return c.stream(ctx, params)
}

// Embeddings performs a traced embeddings call.
func (c *Client) Embeddings(ctx context.Context, params oai.EmbeddingNewParams) (*oai.CreateEmbeddingResponse, error) {
	return c.embeddings(ctx, params)
}

// Chunks adapts an SSE stream into a sequence. The stream is closed when the
// sequence finishes, whether it is drained, fails, or is abandoned early.
func Chunks(s *ssestream.Stream[oai.ChatCompletionChunk]) iter.Seq2[oai.ChatCompletionChunk, error] {
	return func(yield func(oai.ChatCompletionChunk, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Current(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(oai.ChatCompletionChunk{}, err)
		}
	}
}

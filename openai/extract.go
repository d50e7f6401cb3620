package openai

import (
	oai "github.com/openai/openai-go"

	"github.com/ashita-ai/tsuiseki"
)

// chatExtractor maps chat completion shapes onto the neutral model.
type chatExtractor struct{}

func (chatExtractor) System() string { return "openai" }

func (chatExtractor) Request(params oai.ChatCompletionNewParams) tsuiseki.Request {
	req := tsuiseki.Request{
		Model: string(params.Model),
		Raw:   params,
	}
	if params.Temperature.Valid() {
		v := params.Temperature.Value
		req.Temperature = &v
	}
	if params.TopP.Valid() {
		v := params.TopP.Value
		req.TopP = &v
	}
	req.MaxTokens = params.MaxCompletionTokens.Or(params.MaxTokens.Or(0))
	for _, m := range params.Messages {
		req.Messages = append(req.Messages, neutralMessage(m))
	}
	return req
}

// neutralMessage flattens one request message union. Only string content is
// extracted; multi-part content stays available through the raw payload.
func neutralMessage(m oai.ChatCompletionMessageParamUnion) tsuiseki.Message {
	switch {
	case m.OfSystem != nil:
		return tsuiseki.Message{Role: "system", Content: m.OfSystem.Content.OfString.Or("")}
	case m.OfDeveloper != nil:
		return tsuiseki.Message{Role: "developer", Content: m.OfDeveloper.Content.OfString.Or("")}
	case m.OfUser != nil:
		return tsuiseki.Message{Role: "user", Content: m.OfUser.Content.OfString.Or("")}
	case m.OfAssistant != nil:
		return tsuiseki.Message{Role: "assistant", Content: m.OfAssistant.Content.OfString.Or("")}
	case m.OfTool != nil:
		return tsuiseki.Message{Role: "tool", Content: m.OfTool.Content.OfString.Or("")}
	default:
		return tsuiseki.Message{}
	}
}

func (chatExtractor) Response(resp *oai.ChatCompletion) tsuiseki.Response {
	if resp == nil {
		return tsuiseki.Response{}
	}
	out := tsuiseki.Response{
		ID:    resp.ID,
		Model: resp.Model,
		Raw:   resp,
	}
	for _, choice := range resp.Choices {
		if choice.FinishReason != "" {
			out.FinishReasons = append(out.FinishReasons, choice.FinishReason)
		}
		msg := tsuiseki.Message{Role: "assistant", Content: choice.Message.Content}
		for _, tc := range choice.Message.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, tsuiseki.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
		out.Messages = append(out.Messages, msg)
	}
	if len(resp.Choices) > 0 {
		out.Text = resp.Choices[0].Message.Content
	}
	if resp.Usage.TotalTokens > 0 {
		out.Usage = &tsuiseki.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	return out
}

// Chunk maps one SSE chunk. Only the first choice is accumulated; parallel
// choices in streaming mode are not produced by current models. A single
// chunk may still carry fragments for several tool calls, and every one is
// surfaced.
func (chatExtractor) Chunk(c oai.ChatCompletionChunk) tsuiseki.Chunk {
	out := tsuiseki.Chunk{Raw: c}
	if len(c.Choices) > 0 {
		delta := c.Choices[0].Delta
		out.TextDelta = delta.Content
		for _, tc := range delta.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, tsuiseki.ToolCallDelta{
				Index:     int(tc.Index),
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
		out.FinishReason = c.Choices[0].FinishReason
	}
	if c.Usage.TotalTokens > 0 {
		out.Usage = &tsuiseki.Usage{
			InputTokens:  c.Usage.PromptTokens,
			OutputTokens: c.Usage.CompletionTokens,
			TotalTokens:  c.Usage.TotalTokens,
		}
	}
	return out
}

// embeddingExtractor maps embedding call shapes onto the neutral model.
type embeddingExtractor struct{}

func (embeddingExtractor) System() string { return "openai" }

func (embeddingExtractor) Request(params oai.EmbeddingNewParams) tsuiseki.Request {
	return tsuiseki.Request{
		Model: string(params.Model),
		Raw:   params,
	}
}

func (embeddingExtractor) Response(resp *oai.CreateEmbeddingResponse) tsuiseki.Response {
	if resp == nil {
		return tsuiseki.Response{}
	}
	out := tsuiseki.Response{
		Model:      resp.Model,
		Embeddings: len(resp.Data),
	}
	if resp.Usage.TotalTokens > 0 {
		out.Usage = &tsuiseki.Usage{
			InputTokens: resp.Usage.PromptTokens,
			TotalTokens: resp.Usage.TotalTokens,
		}
	}
	return out
}

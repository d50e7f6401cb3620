package anthropic

import (
	"strings"

	ant "github.com/anthropics/anthropic-sdk-go"

	"github.com/ashita-ai/tsuiseki"
)

// extractor maps Messages API shapes onto the neutral model.
type extractor struct{}

func (extractor) System() string { return "anthropic" }

func (extractor) Request(params ant.MessageNewParams) tsuiseki.Request {
	req := tsuiseki.Request{
		Model:     string(params.Model),
		MaxTokens: params.MaxTokens,
		Raw:       params,
	}
	if params.Temperature.Valid() {
		v := params.Temperature.Value
		req.Temperature = &v
	}
	if params.TopP.Valid() {
		v := params.TopP.Value
		req.TopP = &v
	}
	// The Messages API carries the system prompt out of band; fold it back in
	// as a leading message so the recorded conversation is complete.
	if len(params.System) > 0 {
		var sb strings.Builder
		for _, block := range params.System {
			sb.WriteString(block.Text)
		}
		req.Messages = append(req.Messages, tsuiseki.Message{Role: "system", Content: sb.String()})
	}
	for _, m := range params.Messages {
		req.Messages = append(req.Messages, tsuiseki.Message{
			Role:    string(m.Role),
			Content: paramText(m.Content),
		})
	}
	return req
}

// paramText concatenates the text blocks of a request message. Non-text
// blocks (tool results, images, documents) stay available through the raw
// payload.
func paramText(blocks []ant.ContentBlockParamUnion) string {
	var sb strings.Builder
	for _, block := range blocks {
		if block.OfText != nil {
			sb.WriteString(block.OfText.Text)
		}
	}
	return sb.String()
}

func (extractor) Response(msg *ant.Message) tsuiseki.Response {
	if msg == nil {
		return tsuiseki.Response{}
	}
	out := tsuiseki.Response{
		ID:    msg.ID,
		Model: string(msg.Model),
		Raw:   msg,
	}
	if msg.StopReason != "" {
		out.FinishReasons = []string{string(msg.StopReason)}
	}
	var sb strings.Builder
	reply := tsuiseki.Message{Role: "assistant"}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			sb.WriteString(block.Text)
		case "tool_use":
			reply.ToolCalls = append(reply.ToolCalls, tsuiseki.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
		}
	}
	out.Text = sb.String()
	reply.Content = out.Text
	if out.Text != "" || len(reply.ToolCalls) > 0 {
		out.Messages = []tsuiseki.Message{reply}
	}
	if msg.Usage.InputTokens > 0 || msg.Usage.OutputTokens > 0 {
		out.Usage = &tsuiseki.Usage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
			TotalTokens:  msg.Usage.InputTokens + msg.Usage.OutputTokens,
		}
	}
	return out
}

// Chunk maps one stream event. Input tokens arrive on message_start, output
// tokens and the stop reason on message_delta; tool-call fragments are keyed
// by the event's content block index.
func (extractor) Chunk(ev ant.MessageStreamEventUnion) tsuiseki.Chunk {
	out := tsuiseki.Chunk{Raw: ev}
	switch ev.Type {
	case "message_start":
		if ev.Message.Usage.InputTokens > 0 {
			out.Usage = &tsuiseki.Usage{InputTokens: ev.Message.Usage.InputTokens}
		}
	case "content_block_start":
		if ev.ContentBlock.Type == "tool_use" {
			out.ToolCalls = []tsuiseki.ToolCallDelta{{
				Index: int(ev.Index),
				ID:    ev.ContentBlock.ID,
				Name:  ev.ContentBlock.Name,
			}}
		}
	case "content_block_delta":
		switch ev.Delta.Type {
		case "text_delta":
			out.TextDelta = ev.Delta.Text
		case "input_json_delta":
			out.ToolCalls = []tsuiseki.ToolCallDelta{{
				Index:     int(ev.Index),
				Arguments: ev.Delta.PartialJSON,
			}}
		}
	case "message_delta":
		out.FinishReason = string(ev.Delta.StopReason)
		if ev.Usage.OutputTokens > 0 {
			out.Usage = &tsuiseki.Usage{OutputTokens: ev.Usage.OutputTokens}
		}
	}
	return out
}

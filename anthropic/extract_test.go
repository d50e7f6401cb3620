package anthropic

import (
	"testing"

	ant "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/tsuiseki"
)

func TestExtractorRequest(t *testing.T) {
	params := ant.MessageNewParams{
		Model:     "claude-sonnet-4-0",
		MaxTokens: 1024,
		System:    []ant.TextBlockParam{{Text: "be brief"}},
		Messages: []ant.MessageParam{{
			Role:    ant.MessageParamRoleUser,
			Content: []ant.ContentBlockParamUnion{ant.NewTextBlock("hi")},
		}},
		Temperature: ant.Float(0.1),
	}

	req := extractor{}.Request(params)

	assert.Equal(t, "claude-sonnet-4-0", req.Model)
	assert.Equal(t, int64(1024), req.MaxTokens)
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.1, *req.Temperature, 1e-9)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, tsuiseki.Message{Role: "system", Content: "be brief"}, req.Messages[0])
	assert.Equal(t, tsuiseki.Message{Role: "user", Content: "hi"}, req.Messages[1])
}

func TestExtractorResponse(t *testing.T) {
	msg := &ant.Message{ID: "msg_1", Model: "claude-sonnet-4-0", StopReason: "tool_use"}
	msg.Content = make([]ant.ContentBlockUnion, 2)
	msg.Content[0].Type = "text"
	msg.Content[0].Text = "checking"
	msg.Content[1].Type = "tool_use"
	msg.Content[1].ID = "toolu_1"
	msg.Content[1].Name = "get_weather"
	msg.Content[1].Input = []byte(`{"city":"paris"}`)
	msg.Usage.InputTokens = 7
	msg.Usage.OutputTokens = 3

	out := extractor{}.Response(msg)

	assert.Equal(t, "msg_1", out.ID)
	assert.Equal(t, []string{"tool_use"}, out.FinishReasons)
	assert.Equal(t, "checking", out.Text)
	require.Len(t, out.Messages, 1)
	require.Len(t, out.Messages[0].ToolCalls, 1)
	assert.Equal(t, tsuiseki.ToolCall{ID: "toolu_1", Name: "get_weather", Arguments: `{"city":"paris"}`}, out.Messages[0].ToolCalls[0])
	require.NotNil(t, out.Usage)
	assert.Equal(t, int64(7), out.Usage.InputTokens)
	assert.Equal(t, int64(10), out.Usage.TotalTokens)
}

func TestExtractorResponseNil(t *testing.T) {
	assert.Zero(t, extractor{}.Response(nil))
}

func TestExtractorChunk(t *testing.T) {
	var ev ant.MessageStreamEventUnion
	ev.Type = "message_start"
	ev.Message.Usage.InputTokens = 9
	out := extractor{}.Chunk(ev)
	require.NotNil(t, out.Usage)
	assert.Equal(t, int64(9), out.Usage.InputTokens)

	ev = ant.MessageStreamEventUnion{}
	ev.Type = "content_block_start"
	ev.Index = 1
	ev.ContentBlock.Type = "tool_use"
	ev.ContentBlock.ID = "toolu_1"
	ev.ContentBlock.Name = "get_weather"
	out = extractor{}.Chunk(ev)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, tsuiseki.ToolCallDelta{Index: 1, ID: "toolu_1", Name: "get_weather"}, out.ToolCalls[0])

	ev = ant.MessageStreamEventUnion{}
	ev.Type = "content_block_delta"
	ev.Delta.Type = "text_delta"
	ev.Delta.Text = "he"
	out = extractor{}.Chunk(ev)
	assert.Equal(t, "he", out.TextDelta)

	ev = ant.MessageStreamEventUnion{}
	ev.Type = "content_block_delta"
	ev.Index = 1
	ev.Delta.Type = "input_json_delta"
	ev.Delta.PartialJSON = `{"ci`
	out = extractor{}.Chunk(ev)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, `{"ci`, out.ToolCalls[0].Arguments)

	ev = ant.MessageStreamEventUnion{}
	ev.Type = "message_delta"
	ev.Delta.StopReason = "end_turn"
	ev.Usage.OutputTokens = 4
	out = extractor{}.Chunk(ev)
	assert.Equal(t, "end_turn", out.FinishReason)
	require.NotNil(t, out.Usage)
	assert.Equal(t, int64(4), out.Usage.OutputTokens)
}

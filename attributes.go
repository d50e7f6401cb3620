package tsuiseki

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/ashita-ai/tsuiseki/semconv"
)

// inputAttributes builds the span attributes for a neutral Request.
// Redaction happens here: hidden namespaces are omitted entirely. Omission
// and "present but blank" are different signals to downstream consumers.
func (t *Tracer) inputAttributes(system string, req Request) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(semconv.GenAISystem, system),
	}
	if req.Model != "" {
		attrs = append(attrs, attribute.String(semconv.GenAIRequestModel, req.Model))
	}
	if req.Temperature != nil {
		attrs = append(attrs, attribute.Float64(semconv.GenAIRequestTemperature, *req.Temperature))
	}
	if req.TopP != nil {
		attrs = append(attrs, attribute.Float64(semconv.GenAIRequestTopP, *req.TopP))
	}
	if req.MaxTokens > 0 {
		attrs = append(attrs, attribute.Int64(semconv.GenAIRequestMaxTokens, req.MaxTokens))
	}
	if req.Stream {
		attrs = append(attrs, attribute.Bool(semconv.GenAIRequestStream, true))
	}

	if t.cfg.HideInputs {
		return attrs
	}
	if raw := rawInput(req); raw != nil {
		attrs = append(attrs, attribute.String(semconv.InputValue, t.sanitize(raw)))
	}
	if !t.cfg.HideInputMessages {
		attrs = append(attrs, t.promptAttributes(req.Messages)...)
	}
	return attrs
}

// outputAttributes builds the span attributes for a neutral Response.
func (t *Tracer) outputAttributes(resp Response) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if resp.ID != "" {
		attrs = append(attrs, attribute.String(semconv.GenAIResponseID, resp.ID))
	}
	if resp.Model != "" {
		attrs = append(attrs, attribute.String(semconv.GenAIResponseModel, resp.Model))
	}
	if len(resp.FinishReasons) > 0 {
		attrs = append(attrs, attribute.StringSlice(semconv.GenAIResponseFinishReasons, resp.FinishReasons))
	}
	if resp.Embeddings > 0 {
		attrs = append(attrs, attribute.Int(semconv.GenAIEmbeddingsCount, resp.Embeddings))
	}
	attrs = append(attrs, usageAttributes(resp.Usage)...)

	if t.cfg.HideOutputs {
		return attrs
	}
	if raw := rawOutput(resp); raw != nil {
		attrs = append(attrs, attribute.String(semconv.OutputValue, t.sanitize(raw)))
	}
	if !t.cfg.HideOutputMessages {
		attrs = append(attrs, t.completionAttributes(resp.Messages)...)
	}
	return attrs
}

func usageAttributes(u *Usage) []attribute.KeyValue {
	if u == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.Int64(semconv.GenAIUsageInputTokens, u.InputTokens),
		attribute.Int64(semconv.GenAIUsageOutputTokens, u.OutputTokens),
		attribute.Int64(semconv.GenAIUsageTotalTokens, u.TotalTokens),
	}
}

// promptAttributes flattens input messages to indexed keys.
func (t *Tracer) promptAttributes(msgs []Message) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for i, m := range msgs {
		attrs = append(attrs,
			attribute.String(semconv.PromptRole(i), m.Role),
			attribute.String(semconv.PromptContent(i), t.sanitize(m.Content)),
		)
	}
	return attrs
}

// completionAttributes flattens output messages, including any tool calls.
func (t *Tracer) completionAttributes(msgs []Message) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for i, m := range msgs {
		attrs = append(attrs,
			attribute.String(semconv.CompletionRole(i), m.Role),
			attribute.String(semconv.CompletionContent(i), t.sanitize(m.Content)),
		)
		for j, tc := range m.ToolCalls {
			if tc.ID != "" {
				attrs = append(attrs, attribute.String(semconv.CompletionToolCallID(i, j), tc.ID))
			}
			if tc.Name != "" {
				attrs = append(attrs, attribute.String(semconv.CompletionToolCallName(i, j), tc.Name))
			}
			if tc.Arguments != "" {
				attrs = append(attrs, attribute.String(semconv.CompletionToolCallArguments(i, j), t.sanitize(tc.Arguments)))
			}
		}
	}
	return attrs
}

// rawInput picks the value serialized into input.value: the original request
// when the extractor kept it, otherwise the neutral form.
func rawInput(req Request) any {
	if req.Raw != nil {
		return req.Raw
	}
	if req.Model == "" && len(req.Messages) == 0 {
		return nil
	}
	return req
}

// rawOutput picks the value serialized into output.value. Text wins when set:
// it is what the caller actually received as the primary payload.
func rawOutput(resp Response) any {
	if resp.Text != "" {
		return resp.Text
	}
	if resp.Raw != nil {
		return resp.Raw
	}
	return nil
}

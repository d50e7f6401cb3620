// Package semconv defines the attribute vocabulary that tsuiseki spans carry.
//
// The key strings are a stable contract: exporters, dashboards, and alerting
// rules match on them verbatim. Keys in the gen_ai.* namespace follow the
// OpenTelemetry GenAI semantic conventions; keys in the tsuiseki.* namespace
// are engine bookkeeping. Do not rename keys; add new ones instead.
package semconv

import "fmt"

// Engine bookkeeping attributes.
const (
	SpanKind         = "tsuiseki.span.kind"
	CallID           = "tsuiseki.call.id"
	StreamChunkCount = "tsuiseki.stream.chunk_count"
	StreamAbandoned  = "tsuiseki.stream.abandoned"
)

// Raw payload attributes. These carry the full serialized request/response and
// are the keys redacted by the hide-inputs/hide-outputs configuration.
const (
	InputValue  = "input.value"
	OutputValue = "output.value"
)

// GenAI request attributes.
const (
	GenAISystem             = "gen_ai.system"
	GenAIRequestModel       = "gen_ai.request.model"
	GenAIRequestTemperature = "gen_ai.request.temperature"
	GenAIRequestTopP        = "gen_ai.request.top_p"
	GenAIRequestMaxTokens   = "gen_ai.request.max_tokens"
	GenAIRequestStream      = "gen_ai.request.stream"
)

// GenAI response attributes.
const (
	GenAIResponseID            = "gen_ai.response.id"
	GenAIResponseModel         = "gen_ai.response.model"
	GenAIResponseFinishReasons = "gen_ai.response.finish_reasons"
)

// GenAI usage attributes.
const (
	GenAIUsageInputTokens  = "gen_ai.usage.input_tokens"
	GenAIUsageOutputTokens = "gen_ai.usage.output_tokens"
	GenAIUsageTotalTokens  = "gen_ai.usage.total_tokens"
)

// GenAI embedding attributes.
const (
	GenAIEmbeddingsCount = "gen_ai.embeddings.count"
)

// Error attributes recorded when a wrapped call fails.
const (
	ErrorType    = "error.type"
	ErrorMessage = "error.message"
)

// Message list prefixes. Individual messages flatten to indexed keys, e.g.
// gen_ai.prompt.0.role / gen_ai.prompt.0.content.
const (
	PromptPrefix     = "gen_ai.prompt"
	CompletionPrefix = "gen_ai.completion"
)

// PromptRole returns the key for the role of input message i.
func PromptRole(i int) string { return fmt.Sprintf("%s.%d.role", PromptPrefix, i) }

// PromptContent returns the key for the content of input message i.
func PromptContent(i int) string { return fmt.Sprintf("%s.%d.content", PromptPrefix, i) }

// CompletionRole returns the key for the role of output message i.
func CompletionRole(i int) string { return fmt.Sprintf("%s.%d.role", CompletionPrefix, i) }

// CompletionContent returns the key for the content of output message i.
func CompletionContent(i int) string { return fmt.Sprintf("%s.%d.content", CompletionPrefix, i) }

// CompletionToolCallID returns the key for the ID of tool call j on output message i.
func CompletionToolCallID(i, j int) string {
	return fmt.Sprintf("%s.%d.tool_calls.%d.id", CompletionPrefix, i, j)
}

// CompletionToolCallName returns the key for the name of tool call j on output message i.
func CompletionToolCallName(i, j int) string {
	return fmt.Sprintf("%s.%d.tool_calls.%d.name", CompletionPrefix, i, j)
}

// CompletionToolCallArguments returns the key for the arguments of tool call j
// on output message i.
func CompletionToolCallArguments(i, j int) string {
	return fmt.Sprintf("%s.%d.tool_calls.%d.arguments", CompletionPrefix, i, j)
}

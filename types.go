package tsuiseki

// SpanKind categorizes a traced operation. Recorded on every span under the
// tsuiseki.span.kind attribute.
type SpanKind string

const (
	SpanKindLLM       SpanKind = "LLM"
	SpanKindChain     SpanKind = "CHAIN"
	SpanKindAgent     SpanKind = "AGENT"
	SpanKindTool      SpanKind = "TOOL"
	SpanKindEmbedding SpanKind = "EMBEDDING"
	SpanKindRetriever SpanKind = "RETRIEVER"
	SpanKindReranker  SpanKind = "RERANKER"
	SpanKindGuardrail SpanKind = "GUARDRAIL"
	SpanKindWorkflow  SpanKind = "WORKFLOW"
)

// Usage holds token counters for one model invocation.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ToolCall is a completed tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // JSON-encoded arguments
}

// Message is one conversation turn in provider-neutral form.
type Message struct {
	Role      string
	Content   string
	ToolCalls []ToolCall
}

// Request is the provider-neutral view of an outgoing call, produced by an
// Extractor. Only set the fields the provider request actually carries; zero
// fields are omitted from span attributes.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float64
	TopP        *float64
	MaxTokens   int64
	Stream      bool

	// Raw is the original request value; it is serialized (fallibly) into
	// the input.value attribute unless inputs are hidden.
	Raw any
}

// Response is the provider-neutral view of a completed call.
type Response struct {
	ID            string
	Model         string
	FinishReasons []string
	Messages      []Message
	// Text is the primary output text. When set it is used verbatim as the
	// output.value attribute; otherwise Raw is serialized.
	Text       string
	Usage      *Usage
	Embeddings int // number of embedding vectors returned, for EMBEDDING calls
	Raw        any
}

// ToolCallDelta is an incremental update to a streamed tool call. Index
// identifies which logical tool call the fragment belongs to; ID and Name are
// typically present only on the first fragment, later fragments carry only
// Arguments pieces.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// Chunk is the provider-neutral view of one streamed item, produced by a
// StreamExtractor. A chunk may carry any combination of payloads; unset
// fields leave the accumulator state untouched. One chunk may carry fragments
// for several tool calls at once (parallel tool calling), each keyed by its
// own Index.
type Chunk struct {
	TextDelta    string
	ToolCalls    []ToolCallDelta
	Usage        *Usage
	FinishReason string
	Raw          any
}

package tsuiseki

// Extractor converts a provider SDK's request and response shapes into the
// provider-neutral model the engine records. One implementation exists per
// known provider shape; there is no reflective probing of unknown responses.
//
// Extractor methods must not mutate their arguments. A panic inside an
// extractor is contained by the engine (the call proceeds with degraded
// attributes); it never fails the traced call.
type Extractor[Req, Resp any] interface {
	// System identifies the provider, e.g. "openai" or "anthropic".
	// Recorded as the gen_ai.system attribute.
	System() string
	Request(Req) Request
	Response(Resp) Response
}

// StreamExtractor converts a provider SDK's request and per-chunk stream
// shapes into the provider-neutral model. The same containment rules as
// Extractor apply.
type StreamExtractor[Req, C any] interface {
	System() string
	Request(Req) Request
	Chunk(C) Chunk
}

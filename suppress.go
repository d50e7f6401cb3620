package tsuiseki

import "context"

type suppressContextKey struct{}

// WithSuppressedTracing marks the context so that intercepted calls made under
// it are not traced. Provider wrappers use this around calls into other
// instrumented libraries to avoid duplicate spans for the inner call.
func WithSuppressedTracing(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressContextKey{}, true)
}

// TracingSuppressed reports whether the ambient suppression flag is set.
func TracingSuppressed(ctx context.Context) bool {
	v, _ := ctx.Value(suppressContextKey{}).(bool)
	return v
}

// restoreTracing clears the suppression flag for a child context. Called when
// a span is explicitly started, so the new span's own subtree starts with a
// clean slate.
func restoreTracing(ctx context.Context) context.Context {
	if TracingSuppressed(ctx) {
		return context.WithValue(ctx, suppressContextKey{}, false)
	}
	return ctx
}

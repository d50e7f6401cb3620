package tsuiseki

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ashita-ai/tsuiseki/semconv"
)

// errorAttributes produces the stable error classification attributes:
// the qualified Go type of the failure and its message.
func errorAttributes(err error) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(semconv.ErrorType, fmt.Sprintf("%T", err)),
		attribute.String(semconv.ErrorMessage, err.Error()),
	}
}

// finishError classifies err onto the span and ends it with ERROR status.
// It only observes; the caller re-raises the original failure unchanged.
func (t *Tracer) finishError(span trace.Span, err error) {
	span.RecordError(err, trace.WithStackTrace(true))
	span.SetAttributes(errorAttributes(err)...)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

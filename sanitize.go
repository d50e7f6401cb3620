package tsuiseki

import (
	"encoding/json"
	"fmt"
)

// truncationMarker is appended when a value is cut so the truncation is
// visible in the payload itself, not only in side metadata.
const truncationMarker = "..."

// serializeValue renders an attribute candidate as a string. Strings pass
// through unchanged. Other values go through JSON serialization; when that
// fails (cyclic values, channels, functions) the result degrades to the
// fmt representation instead of surfacing an error. Serialization problems
// must never fail the traced call.
func serializeValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// truncateString cuts s to at most max characters, marker included, so a
// truncated value has length exactly max. max <= 0 disables truncation.
// Operates on runes: a character count, not a byte count.
func truncateString(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= len(truncationMarker) {
		return string(r[:max])
	}
	return string(r[:max-len(truncationMarker)]) + truncationMarker
}

// sanitize serializes and truncates a candidate attribute value per the
// tracer's configuration.
func (t *Tracer) sanitize(v any) string {
	return truncateString(serializeValue(v), t.cfg.MaxAttributeLength)
}

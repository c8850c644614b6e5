package agentic

import (
	"encoding/json"
	"fmt"
)

// FormatResult renders a tool handler's result as text for the conversation
// log. Precedence: strings pass through unchanged; maps render as indented
// JSON; values implementing json.Marshaler use their own serialization;
// other structured values render as indented JSON; everything else falls
// back to its default string form.
func FormatResult(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	case map[string]any:
		return marshalIndent(r)
	case json.Marshaler:
		b, err := r.MarshalJSON()
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	case error:
		return r.Error()
	case fmt.Stringer:
		return r.String()
	}

	switch v.(type) {
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", v)
	}

	// Structs, slices and other composites.
	return marshalIndent(v)
}

func marshalIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

package formatter

import (
	"encoding/json"

	"github.com/irahardianto/mergescout/internal/engine/detect"
)

// JSONFormatter outputs a detection result as pretty-printed JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format returns the result as indented JSON. Map keys are emitted
// sorted, so identical inputs produce byte-identical documents.
func (f *JSONFormatter) Format(result *detect.Result) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		// Fallback: should never happen since Result is fully serializable.
		return `{"error": "failed to marshal result"}`
	}
	return string(data)
}

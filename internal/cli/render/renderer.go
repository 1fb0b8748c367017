package render

import (
	"encoding/json"
	"io"
)

// Renderer writes one use case result to its output
type Renderer[T any] interface {
	Render(result T) error
}

// writeJSON writes v as indented JSON followed by a newline
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/titanous/json5"
)

// Convert rewrites a relaxed dataset file (unquoted keys, single quotes,
// trailing commas, comments) read from r as indented strict JSON on w.
func Convert(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var v any
	if err := json5.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parsing relaxed JSON: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes any result value as indented JSON. Used for the
// structural report, extracted records, and the validation report alike.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

package present

import (
	"encoding/json"
	"fmt"
	"io"
)

// EncodeJSON writes v as pretty-printed JSON with four-space indentation,
// alphabetically sorted keys at every level, and HTML escaping off so
// non-ASCII text survives byte for byte. The document ends with a newline.
func EncodeJSON(w io.Writer, v any) error {
	// encoding/json sorts map keys, so round-tripping through the generic
	// form pins the key order regardless of struct layout.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

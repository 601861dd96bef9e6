package codec

import (
	"bytes"

	j "github.com/goccy/go-json"
)

// Marshal encodes v as compact JSON. Map keys are emitted in sorted order.
func Marshal(v any) ([]byte, error) { return j.Marshal(v) }

// MarshalIndent encodes v as indented JSON.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return j.MarshalIndent(v, prefix, indent)
}

// DecodeJSON decodes a single JSON document into plain Go values
// (map[string]any, []any, float64, string, bool, nil).
func DecodeJSON(b []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(b))
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Package codec round-trips option values through JSON for persistent host
// platforms. Decoding preserves numeric precision by producing json.Number
// instead of float64, so a stored integer survives a read-modify-write cycle
// unchanged.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode serialises value to JSON.
func Encode(value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("codec: encode: %w", err)
	}
	return payload, nil
}

// Decode parses payload into the generic value shape (map[string]any, []any,
// json.Number, string, bool, nil).
func Decode(payload []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("codec: decode: %w", err)
	}
	return value, nil
}

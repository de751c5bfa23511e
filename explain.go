package settings

import "encoding/json"

// ValueSource names where an effective option value comes from.
type ValueSource string

const (
	// SourceStaged marks a value sitting in the staged buffer.
	SourceStaged ValueSource = "staged"
	// SourceCommitted marks a value from the committed cache.
	SourceCommitted ValueSource = "committed"
	// SourceDefault marks a schema default substituted for an absent key.
	SourceDefault ValueSource = "default"
	// SourceNone marks a key the store knows nothing about.
	SourceNone ValueSource = "none"
)

// Provenance explains how the store would currently answer for one key.
type Provenance struct {
	Key    string      `json:"key"`
	Source ValueSource `json:"source"`
	Value  any         `json:"value,omitempty"`
}

// ToJSON serialises the provenance for logging or transport helpers.
func (p Provenance) ToJSON() ([]byte, error) {
	type alias Provenance
	return json.Marshal(alias(p))
}

// Explain reports the provenance of key: staged beats committed beats schema
// default. Staged values are reported even though reads ignore them, since
// they are what the next flush will persist.
func (s *Store) Explain(key string) Provenance {
	normalized := NormalizeKey(key)
	if value, ok := s.staged[normalized]; ok {
		return Provenance{Key: normalized, Source: SourceStaged, Value: value}
	}
	if value, ok := s.committed[normalized]; ok {
		return Provenance{Key: normalized, Source: SourceCommitted, Value: value}
	}
	if entry, ok := s.schema[normalized]; ok {
		return Provenance{Key: normalized, Source: SourceDefault, Value: entry.Default}
	}
	return Provenance{Key: normalized, Source: SourceNone}
}

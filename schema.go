package settings

import (
	"fmt"
	"strings"
)

// EmitFunc appends one diagnostic message for the field currently running
// through the sanitize/validate pipeline.
type EmitFunc func(message string)

// Sanitizer transforms a candidate value before validation. It may emit a
// notice without failing; sanitizers cannot reject a value.
type Sanitizer interface {
	Sanitize(value any, notice EmitFunc) any
}

// SanitizerFunc allows plain functions to satisfy Sanitizer.
type SanitizerFunc func(value any, notice EmitFunc) any

// Sanitize dispatches to the underlying function.
func (fn SanitizerFunc) Sanitize(value any, notice EmitFunc) any {
	if fn == nil {
		return value
	}
	return fn(value, notice)
}

// Validator accepts or rejects a sanitized value. A false result reverts the
// key to its previous committed value (or schema default) for this batch;
// warnings emitted along the way become the field's message set.
type Validator interface {
	Validate(value any, warn EmitFunc) bool
}

// ValidatorFunc allows plain functions to satisfy Validator.
type ValidatorFunc func(value any, warn EmitFunc) bool

// Validate dispatches to the underlying function.
func (fn ValidatorFunc) Validate(value any, warn EmitFunc) bool {
	if fn == nil {
		return true
	}
	return fn(value, warn)
}

// SchemaEntry describes one option key: its default plus the ordered
// sanitize and validate chains run whenever the key is staged or flushed.
type SchemaEntry struct {
	Default  any
	Sanitize []Sanitizer
	Validate []Validator
}

// Schema maps option keys to their entries. Keys are normalized (trimmed,
// lowercased) before lookup.
type Schema map[string]SchemaEntry

// NormalizeKey applies the key normalization rule used across schema
// registration, staging and lookup.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// validate checks the schema shape; malformed registrations fail fast rather
// than being silently defaulted.
func (s Schema) validate() error {
	for key, entry := range s {
		if NormalizeKey(key) == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidSchema)
		}
		for i, sanitizer := range entry.Sanitize {
			if sanitizer == nil {
				return fmt.Errorf("%w: %q sanitizer %d is nil", ErrInvalidSchema, key, i)
			}
		}
		for i, validator := range entry.Validate {
			if validator == nil {
				return fmt.Errorf("%w: %q validator %d is nil", ErrInvalidSchema, key, i)
			}
		}
	}
	return nil
}

// normalized returns a copy of the schema with normalized keys. Later keys
// that normalize to the same value win, matching registration merge rules.
func (s Schema) normalized() Schema {
	out := make(Schema, len(s))
	for key, entry := range s {
		out[NormalizeKey(key)] = entry
	}
	return out
}

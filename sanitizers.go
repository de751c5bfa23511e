package settings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TrimSanitizer strips surrounding whitespace from string values. Non-string
// values pass through untouched.
func TrimSanitizer() Sanitizer {
	return SanitizerFunc(func(value any, _ EmitFunc) any {
		if text, ok := value.(string); ok {
			return strings.TrimSpace(text)
		}
		return value
	})
}

// LowercaseSanitizer lowercases string values, emitting a notice when the
// input actually changed.
func LowercaseSanitizer() Sanitizer {
	return SanitizerFunc(func(value any, notice EmitFunc) any {
		text, ok := value.(string)
		if !ok {
			return value
		}
		lowered := strings.ToLower(text)
		if lowered != text && notice != nil {
			notice("value was lowercased")
		}
		return lowered
	})
}

// NonEmptyValidator rejects empty strings, nil values and empty collections.
func NonEmptyValidator() Validator {
	return ValidatorFunc(func(value any, warn EmitFunc) bool {
		empty := false
		switch typed := value.(type) {
		case nil:
			empty = true
		case string:
			empty = strings.TrimSpace(typed) == ""
		case []any:
			empty = len(typed) == 0
		case map[string]any:
			empty = len(typed) == 0
		}
		if empty {
			if warn != nil {
				warn("value must not be empty")
			}
			return false
		}
		return true
	})
}

// ChoiceValidator rejects string values outside the allowed set.
func ChoiceValidator(allowed ...string) Validator {
	choices := make(map[string]struct{}, len(allowed))
	for _, choice := range allowed {
		choices[choice] = struct{}{}
	}
	return ValidatorFunc(func(value any, warn EmitFunc) bool {
		text, ok := value.(string)
		if !ok {
			if warn != nil {
				warn(fmt.Sprintf("expected one of %v, got %T", allowed, value))
			}
			return false
		}
		if _, ok := choices[text]; !ok {
			if warn != nil {
				warn(fmt.Sprintf("%q is not one of %v", text, allowed))
			}
			return false
		}
		return true
	})
}

// IntRangeValidator rejects numeric values outside [min, max]. Accepts the
// integer and float spellings JSON decoding produces.
func IntRangeValidator(min, max int64) Validator {
	return ValidatorFunc(func(value any, warn EmitFunc) bool {
		number, ok := asInt64(value)
		if !ok {
			if warn != nil {
				warn(fmt.Sprintf("expected an integer, got %T", value))
			}
			return false
		}
		if number < min || number > max {
			if warn != nil {
				warn(fmt.Sprintf("%d is outside [%d, %d]", number, min, max))
			}
			return false
		}
		return true
	})
}

// asInt64 accepts the integer spellings values take on in memory and after a
// codec round-trip (json.Number from UseNumber decoding).
func asInt64(value any) (int64, bool) {
	switch typed := value.(type) {
	case int:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case int64:
		return typed, true
	case float64:
		if typed == float64(int64(typed)) {
			return int64(typed), true
		}
		return 0, false
	case float32:
		return asInt64(float64(typed))
	case json.Number:
		if parsed, err := typed.Int64(); err == nil {
			return parsed, true
		}
		if parsed, err := typed.Float64(); err == nil {
			return asInt64(parsed)
		}
		return 0, false
	default:
		return 0, false
	}
}

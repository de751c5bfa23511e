package settings

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Canonicalize returns a deterministic, order-insensitive normal form of
// value: maps become map[string]any, lists are sorted by their canonical
// encoding, numbers collapse to float64. It is idempotent and only defeats
// immaterial reordering; the value's semantics are preserved.
//
// The Store uses it as the no-op write guard: canonically equal old and new
// values skip the backend write.
func Canonicalize(value any) any {
	return canonicalValue(reflect.ValueOf(value))
}

// CanonicalEqual reports whether a and b share the same canonical form.
func CanonicalEqual(a, b any) bool {
	return reflect.DeepEqual(Canonicalize(a), Canonicalize(b))
}

func canonicalValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return canonicalValue(v.Elem())
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[canonicalKey(iter.Key())] = canonicalValue(iter.Value())
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		return canonicalList(v)
	case reflect.Array:
		return canonicalList(v)
	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			out[t.Field(i).Name] = canonicalValue(v.Field(i))
		}
		return out
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		if number, ok := v.Interface().(json.Number); ok {
			if parsed, err := number.Float64(); err == nil {
				return parsed
			}
		}
		return v.String()
	default:
		return v.Interface()
	}
}

// canonicalList treats lists as unordered collections: elements are sorted by
// their canonical encoding so two lists differing only in element order share
// one normal form.
func canonicalList(v reflect.Value) []any {
	out := make([]any, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		out = append(out, canonicalValue(v.Index(i)))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return canonicalEncoding(out[i]) < canonicalEncoding(out[j])
	})
	return out
}

func canonicalKey(v reflect.Value) string {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "<nil>"
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

// canonicalEncoding produces a stable ordering key. encoding/json sorts map
// keys, which keeps the encoding deterministic for canonical maps.
func canonicalEncoding(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%#v", value)
	}
	return string(encoded)
}

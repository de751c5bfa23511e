package settings

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCanonicalizeIdempotent(t *testing.T) {
	value := map[string]any{
		"list": []any{"b", "a", map[string]any{"z": 1, "a": 2}},
		"nested": map[string]any{
			"numbers": []any{3, 1, 2},
		},
		"flag": true,
	}

	once := Canonicalize(value)
	twice := Canonicalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("canonicalize is not idempotent:\nonce:  %#v\ntwice: %#v", once, twice)
	}
}

func TestCanonicalizeListOrderInsensitive(t *testing.T) {
	a := map[string]any{"tags": []any{"alpha", "beta", "gamma"}}
	b := map[string]any{"tags": []any{"gamma", "alpha", "beta"}}

	if !CanonicalEqual(a, b) {
		t.Fatalf("expected reordered lists to be canonically equal")
	}

	c := map[string]any{"tags": []any{"alpha", "beta"}}
	if CanonicalEqual(a, c) {
		t.Fatalf("expected different lists to stay unequal")
	}
}

func TestCanonicalizeNestedListsOfMaps(t *testing.T) {
	a := []any{
		map[string]any{"id": 1, "roles": []any{"editor", "admin"}},
		map[string]any{"id": 2, "roles": []any{"viewer"}},
	}
	b := []any{
		map[string]any{"roles": []any{"viewer"}, "id": 2},
		map[string]any{"roles": []any{"admin", "editor"}, "id": 1},
	}
	if !CanonicalEqual(a, b) {
		t.Fatalf("expected nested reordering to be canonically equal")
	}
}

func TestCanonicalizeNormalizesNumbers(t *testing.T) {
	if !CanonicalEqual(map[string]any{"limit": 10}, map[string]any{"limit": 10.0}) {
		t.Fatalf("expected int and float spellings to match")
	}
	if !CanonicalEqual(json.Number("42"), 42) {
		t.Fatalf("expected json.Number to normalize")
	}
	if CanonicalEqual(map[string]any{"limit": 10}, map[string]any{"limit": 11}) {
		t.Fatalf("expected different numbers to stay unequal")
	}
}

func TestCanonicalizeScalarsAndNil(t *testing.T) {
	if Canonicalize(nil) != nil {
		t.Fatalf("expected nil to canonicalize to nil")
	}
	if got := Canonicalize("text"); got != "text" {
		t.Fatalf("expected string passthrough, got %#v", got)
	}
	var absent map[string]any
	if Canonicalize(absent) != nil {
		t.Fatalf("expected nil map to canonicalize to nil")
	}
}

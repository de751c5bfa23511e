package bolt

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goliatone/go-settings/pkg/host"
)

func openTestPlatform(t *testing.T, currentBlogID int64) *Platform {
	t.Helper()
	platform, err := Open(filepath.Join(t.TempDir(), "settings.db"), currentBlogID)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	t.Cleanup(func() {
		if err := platform.Close(); err != nil {
			t.Fatalf("unexpected close error: %v", err)
		}
	})
	return platform
}

func TestPlatformImplementsContracts(t *testing.T) {
	platform := openTestPlatform(t, 0)
	var _ host.Platform = platform
	if platform.CurrentBlogID() != 1 {
		t.Fatalf("expected the current blog to default to 1, got %d", platform.CurrentBlogID())
	}
}

func TestSiteOptionRoundTrip(t *testing.T) {
	platform := openTestPlatform(t, 0)

	payload := map[string]any{"theme": "dusk", "limit": 10}
	if !platform.UpdateOption("app_settings", payload, true) {
		t.Fatalf("expected update to succeed")
	}

	raw, ok := platform.GetOption("app_settings")
	if !ok {
		t.Fatalf("expected the option to exist")
	}
	values, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("expected a map, got %T", raw)
	}
	if values["theme"] != "dusk" {
		t.Fatalf("expected dusk, got %v", values["theme"])
	}
	limit, ok := values["limit"].(json.Number)
	if !ok {
		t.Fatalf("expected numbers to decode as json.Number, got %T", values["limit"])
	}
	if limit.String() != "10" {
		t.Fatalf("expected 10, got %s", limit)
	}
}

func TestAddOptionOnlyWhenAbsent(t *testing.T) {
	platform := openTestPlatform(t, 0)

	if !platform.AddOption("theme", "dusk", nil) {
		t.Fatalf("expected add to succeed")
	}
	if platform.AddOption("theme", "dawn", nil) {
		t.Fatalf("expected add to fail on an existing key")
	}
	if value, _ := platform.GetOption("theme"); value != "dusk" {
		t.Fatalf("expected dusk, got %v", value)
	}
}

func TestLoadAllAutoloadedHonorsFlags(t *testing.T) {
	platform := openTestPlatform(t, 0)

	platform.UpdateOption("theme", "dusk", true)
	platform.UpdateOption("secret", "hunter2", false)
	off := false
	platform.AddOption("quiet", "yes", &off)

	loaded := platform.LoadAllAutoloaded()
	if !reflect.DeepEqual(loaded, map[string]any{"theme": "dusk"}) {
		t.Fatalf("expected only flagged options, got %v", loaded)
	}
}

func TestUpdateOptionKeepsFlagInStepWithValue(t *testing.T) {
	platform := openTestPlatform(t, 0)

	platform.UpdateOption("theme", "dusk", true)
	if loaded := platform.LoadAllAutoloaded(); len(loaded) != 1 {
		t.Fatalf("expected the flag to land with the value, got %v", loaded)
	}

	platform.UpdateOption("theme", "dawn", false)
	if loaded := platform.LoadAllAutoloaded(); len(loaded) != 0 {
		t.Fatalf("expected the flag to flip with the value, got %v", loaded)
	}
	if value, _ := platform.GetOption("theme"); value != "dawn" {
		t.Fatalf("expected dawn, got %v", value)
	}

	// A rejected add must leave both the value and its flag untouched.
	on := true
	if platform.AddOption("theme", "noon", &on) {
		t.Fatalf("expected add to fail on an existing key")
	}
	if value, _ := platform.GetOption("theme"); value != "dawn" {
		t.Fatalf("expected the existing value to survive, got %v", value)
	}
	if loaded := platform.LoadAllAutoloaded(); len(loaded) != 0 {
		t.Fatalf("expected the existing flag to survive, got %v", loaded)
	}
}

func TestDeleteOptionRemovesFlag(t *testing.T) {
	platform := openTestPlatform(t, 0)
	platform.UpdateOption("theme", "dusk", true)

	if !platform.DeleteOption("theme") {
		t.Fatalf("expected delete to succeed")
	}
	if platform.DeleteOption("theme") {
		t.Fatalf("expected the second delete to fail")
	}
	if loaded := platform.LoadAllAutoloaded(); len(loaded) != 0 {
		t.Fatalf("expected the flag to be gone, got %v", loaded)
	}
}

func TestScopesAreIsolated(t *testing.T) {
	platform := openTestPlatform(t, 0)

	platform.UpdateOption("shared", "site", true)
	platform.UpdateNetworkOption("shared", "network")
	platform.UpdateBlogOption(2, "shared", "blog")
	platform.UpdateUserMeta(7, "shared", "meta")
	platform.UpdateUserOption(7, "shared", "option", true)
	platform.UpdatePostMeta(11, "shared", "post")

	checks := []struct {
		name  string
		value any
	}{
		{"site", mustGet(platform.GetOption("shared"))},
		{"network", mustGet(platform.GetNetworkOption("shared"))},
		{"blog", mustGet(platform.GetBlogOption(2, "shared"))},
		{"meta", mustGet(platform.GetUserMeta(7, "shared"))},
		{"option", mustGet(platform.GetUserOption(7, "shared", true))},
		{"post", mustGet(platform.GetPostMeta(11, "shared"))},
	}
	for _, check := range checks {
		if check.value != check.name {
			t.Fatalf("expected %q in its own bucket, got %v", check.name, check.value)
		}
	}

	if _, ok := platform.GetBlogOption(3, "shared"); ok {
		t.Fatalf("blog values must not leak across blog ids")
	}
}

func mustGet(value any, _ bool) any { return value }

func TestUserOptionNamespacing(t *testing.T) {
	platform := openTestPlatform(t, 2)

	platform.UpdateUserOption(7, "color", "red", false)
	platform.UpdateUserOption(7, "color", "blue", true)

	if value, _ := platform.GetUserOption(7, "color", false); value != "red" {
		t.Fatalf("expected the blog-scoped value, got %v", value)
	}
	if value, _ := platform.GetUserOption(7, "color", true); value != "blue" {
		t.Fatalf("expected the global value, got %v", value)
	}
	if !platform.DeleteUserOption(7, "color", false) {
		t.Fatalf("expected delete to succeed")
	}
	if _, ok := platform.GetUserOption(7, "color", false); ok {
		t.Fatalf("expected the blog-scoped value to be gone")
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	platform, err := Open(path, 0)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	platform.UpdateOption("theme", "dusk", true)
	if err := platform.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	reopened, err := Open(path, 0)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	defer reopened.Close()

	if value, ok := reopened.GetOption("theme"); !ok || value != "dusk" {
		t.Fatalf("expected dusk after reopen, got %v (%v)", value, ok)
	}
}

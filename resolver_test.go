package settings

import (
	"errors"
	"testing"
)

func TestParseScopeStrings(t *testing.T) {
	cases := []struct {
		input string
		want  OptionScope
	}{
		{"site", ScopeSite},
		{"SITE", ScopeSite},
		{"Network", ScopeNetwork},
		{"blog", ScopeBlog},
		{"BLOG", ScopeBlog},
		{"user", ScopeUser},
		{"  USER  ", ScopeUser},
		{"", ScopeSite},
		{"bogus", ScopeSite},
		{"post", ScopeSite},
	}
	for _, tc := range cases {
		if got := ParseScope(tc.input); got != tc.want {
			t.Fatalf("ParseScope(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestResolveSiteAndNetworkIgnoreEntity(t *testing.T) {
	blog, err := NewBlogEntity(3)
	if err != nil {
		t.Fatalf("unexpected entity error: %v", err)
	}

	ctx, err := Resolve(ScopeSite, blog)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if ctx.Scope != ScopeSite || ctx.BlogID != 0 {
		t.Fatalf("expected bare site context, got %+v", ctx)
	}

	ctx, err = Resolve("NETWORK", blog)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if ctx.Scope != ScopeNetwork || ctx.BlogID != 0 || ctx.UserID != 0 {
		t.Fatalf("expected bare network context, got %+v", ctx)
	}
}

func TestResolveBlog(t *testing.T) {
	blog, err := NewBlogEntity(5)
	if err != nil {
		t.Fatalf("unexpected entity error: %v", err)
	}

	ctx, err := Resolve(ScopeBlog, blog)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if ctx.Scope != ScopeBlog || ctx.BlogID != 5 {
		t.Fatalf("expected blog_id=5, got %+v", ctx)
	}

	if _, err := Resolve(ScopeBlog, nil); !errors.Is(err, ErrEntityRequired) {
		t.Fatalf("expected ErrEntityRequired, got %v", err)
	}

	user, _ := NewUserEntity(5, false, "")
	if _, err := Resolve(ScopeBlog, user); !errors.Is(err, ErrEntityMismatch) {
		t.Fatalf("expected ErrEntityMismatch, got %v", err)
	}

	if _, err := Resolve(ScopeBlog, BlogEntity{}); !errors.Is(err, ErrInvalidEntityID) {
		t.Fatalf("expected ErrInvalidEntityID, got %v", err)
	}
}

func TestResolveUser(t *testing.T) {
	user, err := NewUserEntity(7, true, UserStorageOption)
	if err != nil {
		t.Fatalf("unexpected entity error: %v", err)
	}

	ctx, err := Resolve(ScopeUser, user)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if ctx.UserID != 7 || !ctx.UserGlobal || ctx.UserStorage != UserStorageOption {
		t.Fatalf("user fields did not pass through: %+v", ctx)
	}

	blog, _ := NewBlogEntity(7)
	if _, err := Resolve(ScopeUser, blog); !errors.Is(err, ErrEntityMismatch) {
		t.Fatalf("expected ErrEntityMismatch, got %v", err)
	}
	if _, err := Resolve(ScopeUser, nil); !errors.Is(err, ErrEntityRequired) {
		t.Fatalf("expected ErrEntityRequired, got %v", err)
	}
	if _, err := Resolve(ScopeUser, UserEntity{}); !errors.Is(err, ErrInvalidEntityID) {
		t.Fatalf("expected ErrInvalidEntityID, got %v", err)
	}
}

func TestResolveRejectsUnknownScopeType(t *testing.T) {
	if _, err := Resolve(42, nil); !errors.Is(err, ErrInvalidScope) {
		t.Fatalf("expected ErrInvalidScope, got %v", err)
	}
}

func TestEntityConstructorsValidate(t *testing.T) {
	if _, err := NewBlogEntity(0); !errors.Is(err, ErrInvalidEntityID) {
		t.Fatalf("expected ErrInvalidEntityID, got %v", err)
	}
	if _, err := NewUserEntity(-1, false, ""); !errors.Is(err, ErrInvalidEntityID) {
		t.Fatalf("expected ErrInvalidEntityID, got %v", err)
	}
	if _, err := NewUserEntity(3, false, "files"); !errors.Is(err, ErrInvalidStorageKind) {
		t.Fatalf("expected ErrInvalidStorageKind, got %v", err)
	}

	user, err := NewUserEntity(3, false, "")
	if err != nil {
		t.Fatalf("unexpected entity error: %v", err)
	}
	if user.Storage != UserStorageMeta {
		t.Fatalf("expected meta default, got %q", user.Storage)
	}
}

package settings

import "strings"

// OptionScope identifies the persistence domain an option value belongs to.
type OptionScope int

const (
	// ScopeSite addresses site-wide options on the active site.
	ScopeSite OptionScope = iota
	// ScopeNetwork addresses options shared across a whole network of sites.
	ScopeNetwork
	// ScopeBlog addresses options of one specific sub-site.
	ScopeBlog
	// ScopeUser addresses per-user settings.
	ScopeUser
	// ScopePost addresses per-post metadata.
	ScopePost
)

func (s OptionScope) String() string {
	switch s {
	case ScopeSite:
		return "site"
	case ScopeNetwork:
		return "network"
	case ScopeBlog:
		return "blog"
	case ScopeUser:
		return "user"
	case ScopePost:
		return "post"
	default:
		return "site"
	}
}

// ParseScope maps a string onto an OptionScope, case-insensitively. Anything
// unrecognised, including the empty string, falls back to ScopeSite. This is
// the single normalization authority: both Resolve and the storage factory
// route string scopes through here.
func ParseScope(value string) OptionScope {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "network":
		return ScopeNetwork
	case "blog":
		return ScopeBlog
	case "user":
		return ScopeUser
	default:
		return ScopeSite
	}
}

// normalizeScope accepts the two scope spellings callers may pass around.
func normalizeScope(scope any) (OptionScope, error) {
	switch typed := scope.(type) {
	case OptionScope:
		return typed, nil
	case string:
		return ParseScope(typed), nil
	default:
		return ScopeSite, ErrInvalidScope
	}
}

package settings

// OptionStorage is the uniform contract over every scope-specific backend.
// The orchestrating Store only ever talks to this interface, which is what
// keeps it scope-agnostic.
//
// Mutating calls report success as a bool, mirroring the host primitives: a
// false return means the write did not take effect.
type OptionStorage interface {
	Scope() OptionScope
	// BlogID returns the targeted sub-site id, 0 for backends that do not
	// address one.
	BlogID() int64
	// SupportsAutoload is true only for site-scope storage targeting the
	// currently active context. Per-entity and network backends return false.
	SupportsAutoload() bool
	Read(key string) (any, bool)
	// Update upserts key. The autoload flag is honored only by backends that
	// support it and silently ignored elsewhere; most backends never change
	// autoload on update.
	Update(key string, value any, autoload bool) bool
	// Add creates key only when absent. A nil autoload defers to host
	// heuristics where supported.
	Add(key string, value any, autoload *bool) bool
	Delete(key string) bool
	// LoadAllAutoloaded returns the bulk-preloaded option map, or nil when
	// the backend has no autoload concept or addresses a non-current blog.
	LoadAllAutoloaded() map[string]any
}

// Package host declares the persistence primitives a hosting platform must
// provide for each settings scope. The root package's storage adapters are
// thin wrappers over these contracts; the package also ships an in-memory
// reference platform for tests and examples.
//
// Mutating calls report success as a bool. A false return means the write did
// not take effect; durability and retries are the platform's responsibility.
package host

// SiteOptions covers site-wide option storage on the active site. It is the
// only contract with an autoload concept: autoloaded options are bulk-read by
// the platform at startup.
type SiteOptions interface {
	GetOption(key string) (any, bool)
	UpdateOption(key string, value any, autoload bool) bool
	// AddOption creates key only when absent. A nil autoload defers to the
	// platform's own heuristics.
	AddOption(key string, value any, autoload *bool) bool
	DeleteOption(key string) bool
	// LoadAllAutoloaded returns every option flagged for autoload.
	LoadAllAutoloaded() map[string]any
}

// NetworkOptions covers network-wide option storage shared by every site in
// a multi-site installation.
type NetworkOptions interface {
	GetNetworkOption(key string) (any, bool)
	UpdateNetworkOption(key string, value any) bool
	AddNetworkOption(key string, value any) bool
	DeleteNetworkOption(key string) bool
}

// BlogOptions covers option storage addressed to a specific sub-site.
type BlogOptions interface {
	// CurrentBlogID identifies the sub-site serving the present request.
	CurrentBlogID() int64
	GetBlogOption(blogID int64, key string) (any, bool)
	UpdateBlogOption(blogID int64, key string, value any) bool
	AddBlogOption(blogID int64, key string, value any) bool
	DeleteBlogOption(blogID int64, key string) bool
}

// UserMeta covers per-user metadata storage.
type UserMeta interface {
	GetUserMeta(userID int64, key string) (any, bool)
	UpdateUserMeta(userID int64, key string, value any) bool
	DeleteUserMeta(userID int64, key string) bool
}

// UserOptions covers per-user option storage. When global is false the value
// is namespaced to the current sub-site.
type UserOptions interface {
	GetUserOption(userID int64, key string, global bool) (any, bool)
	UpdateUserOption(userID int64, key string, value any, global bool) bool
	DeleteUserOption(userID int64, key string, global bool) bool
}

// PostMeta covers per-post metadata storage.
type PostMeta interface {
	GetPostMeta(postID int64, key string) (any, bool)
	UpdatePostMeta(postID int64, key string, value any) bool
	DeletePostMeta(postID int64, key string) bool
}

// Capabilities is the authorization primitive: can actor exercise the named
// capability, optionally against a target identifier (0 means no target)?
type Capabilities interface {
	Can(actorID int64, capability string, target int64) bool
}

// Platform aggregates every per-scope contract. Concrete platforms usually
// implement all of them; adapters only depend on the slice they need.
type Platform interface {
	SiteOptions
	NetworkOptions
	BlogOptions
	UserMeta
	UserOptions
	PostMeta
}

package settings

import (
	"fmt"

	"github.com/goliatone/go-settings/pkg/host"
)

// StorageArgs carries the scope-specific construction arguments consumed by
// NewStorage. Fields a scope does not use are ignored.
type StorageArgs struct {
	// BlogID targets a specific sub-site for blog scope. Zero defaults to
	// the current host blog.
	BlogID int64
	// UserID targets a user for user scope. Required, must be positive.
	UserID int64
	// PostID targets a post for post scope. Required, must be positive.
	PostID int64
	// UserGlobal marks option-backed user settings that apply network-wide.
	UserGlobal bool
	// UserStorage selects the meta- or option-backed user adapter. Empty
	// defaults to meta.
	UserStorage UserStorageKind
}

// NewStorage builds the concrete adapter for scope on top of platform. The
// scope may be an OptionScope or a string; strings are normalized through
// ParseScope, the same authority Resolve uses.
func NewStorage(scope any, platform host.Platform, args StorageArgs) (OptionStorage, error) {
	if platform == nil {
		return nil, ErrPlatformRequired
	}
	normalized, err := normalizeScope(scope)
	if err != nil {
		return nil, err
	}

	switch normalized {
	case ScopeNetwork:
		return NewNetworkStorage(platform)
	case ScopeBlog:
		return NewBlogStorage(platform, platform, args.BlogID)
	case ScopeUser:
		if args.UserID <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrUserIDRequired, args.UserID)
		}
		kind, err := normalizeStorageKind(args.UserStorage)
		if err != nil {
			return nil, err
		}
		if kind == UserStorageOption {
			return NewUserOptionStorage(platform, args.UserID, args.UserGlobal)
		}
		return NewUserMetaStorage(platform, args.UserID)
	case ScopePost:
		if args.PostID <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrPostIDRequired, args.PostID)
		}
		return NewPostMetaStorage(platform, args.PostID)
	default:
		return NewSiteStorage(platform)
	}
}

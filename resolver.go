package settings

import "fmt"

// StorageContext is the fully resolved description of where option values
// live. Fields that a scope does not use stay at their zero value.
type StorageContext struct {
	Scope       OptionScope
	BlogID      int64
	UserID      int64
	UserGlobal  bool
	UserStorage UserStorageKind
}

// Resolve turns a scope indicator plus an optional target entity into a
// validated StorageContext.
//
// The scope may be an OptionScope or a string; strings are normalized through
// ParseScope, so unrecognised values resolve to site scope rather than
// failing. Site, Network and Post carry no per-target identity and ignore any
// supplied entity. Blog requires a BlogEntity and User a UserEntity; a
// missing or mismatched entity is a programming error and raises.
func Resolve(scope any, entity Entity) (StorageContext, error) {
	normalized, err := normalizeScope(scope)
	if err != nil {
		return StorageContext{}, err
	}

	switch normalized {
	case ScopeBlog:
		blog, ok := entity.(BlogEntity)
		if !ok {
			if entity == nil {
				return StorageContext{}, fmt.Errorf("%w: blog scope needs a blog entity", ErrEntityRequired)
			}
			return StorageContext{}, fmt.Errorf("%w: blog scope got %T", ErrEntityMismatch, entity)
		}
		if blog.ID <= 0 {
			return StorageContext{}, fmt.Errorf("%w: blog id %d", ErrInvalidEntityID, blog.ID)
		}
		return StorageContext{Scope: ScopeBlog, BlogID: blog.ID}, nil
	case ScopeUser:
		user, ok := entity.(UserEntity)
		if !ok {
			if entity == nil {
				return StorageContext{}, fmt.Errorf("%w: user scope needs a user entity", ErrEntityRequired)
			}
			return StorageContext{}, fmt.Errorf("%w: user scope got %T", ErrEntityMismatch, entity)
		}
		if user.ID <= 0 {
			return StorageContext{}, fmt.Errorf("%w: user id %d", ErrInvalidEntityID, user.ID)
		}
		kind, err := normalizeStorageKind(user.Storage)
		if err != nil {
			return StorageContext{}, err
		}
		return StorageContext{
			Scope:       ScopeUser,
			UserID:      user.ID,
			UserGlobal:  user.Global,
			UserStorage: kind,
		}, nil
	default:
		return StorageContext{Scope: normalized}, nil
	}
}

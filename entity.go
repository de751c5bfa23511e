package settings

import "fmt"

// UserStorageKind selects which backend holds a user's settings.
type UserStorageKind string

const (
	// UserStorageMeta stores user settings as user metadata (the default).
	UserStorageMeta UserStorageKind = "meta"
	// UserStorageOption stores user settings through the user-option backend,
	// which namespaces non-global values to the current sub-site.
	UserStorageOption UserStorageKind = "option"
)

func normalizeStorageKind(kind UserStorageKind) (UserStorageKind, error) {
	switch kind {
	case "", UserStorageMeta:
		return UserStorageMeta, nil
	case UserStorageOption:
		return UserStorageOption, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStorageKind, kind)
	}
}

// Entity marks the value objects that can target a scope resolution. The
// interface is sealed: only BlogEntity and UserEntity satisfy it.
type Entity interface {
	entityScope() OptionScope
}

// BlogEntity targets one sub-site by id. Immutable once constructed.
type BlogEntity struct {
	ID int64
}

// NewBlogEntity validates the id up front so resolution never sees a
// non-positive blog target.
func NewBlogEntity(id int64) (BlogEntity, error) {
	if id <= 0 {
		return BlogEntity{}, fmt.Errorf("%w: blog id %d", ErrInvalidEntityID, id)
	}
	return BlogEntity{ID: id}, nil
}

func (BlogEntity) entityScope() OptionScope { return ScopeBlog }

// UserEntity targets one user. Global marks settings that apply across every
// sub-site; Storage picks the meta- or option-backed adapter.
type UserEntity struct {
	ID      int64
	Global  bool
	Storage UserStorageKind
}

// NewUserEntity validates the id and storage selector at construction.
func NewUserEntity(id int64, global bool, storage UserStorageKind) (UserEntity, error) {
	if id <= 0 {
		return UserEntity{}, fmt.Errorf("%w: user id %d", ErrInvalidEntityID, id)
	}
	kind, err := normalizeStorageKind(storage)
	if err != nil {
		return UserEntity{}, err
	}
	return UserEntity{ID: id, Global: global, Storage: kind}, nil
}

func (UserEntity) entityScope() OptionScope { return ScopeUser }

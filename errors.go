package settings

import "errors"

var (
	// ErrEntityRequired indicates a scope that carries per-target identity was
	// resolved without its entity.
	ErrEntityRequired = errors.New("settings: scope requires a target entity")
	// ErrEntityMismatch indicates the supplied entity does not belong to the
	// requested scope (e.g. a user entity for blog scope).
	ErrEntityMismatch = errors.New("settings: entity does not match scope")
	// ErrInvalidEntityID indicates an entity was built with a non-positive id.
	ErrInvalidEntityID = errors.New("settings: entity id must be positive")
	// ErrInvalidScope indicates a scope argument that is neither an
	// OptionScope nor a string.
	ErrInvalidScope = errors.New("settings: scope must be an OptionScope or string")
	// ErrInvalidStorageKind indicates an unrecognised user storage selector.
	ErrInvalidStorageKind = errors.New("settings: user storage must be meta or option")

	// ErrUserIDRequired indicates user-scope storage construction without a
	// positive user id.
	ErrUserIDRequired = errors.New("settings: user scope requires a positive user id")
	// ErrPostIDRequired indicates post-scope storage construction without a
	// positive post id.
	ErrPostIDRequired = errors.New("settings: post scope requires a positive post id")
	// ErrPlatformRequired indicates storage construction without a host
	// platform backend.
	ErrPlatformRequired = errors.New("settings: host platform is required")

	// ErrNameRequired indicates a store was built without a backing option name.
	ErrNameRequired = errors.New("settings: option name is required")
	// ErrStorageRequired indicates a store was built without storage.
	ErrStorageRequired = errors.New("settings: storage is required")
	// ErrInvalidSchema indicates a malformed schema registration.
	ErrInvalidSchema = errors.New("settings: invalid schema entry")

	// ErrWriteDenied is returned in strict mode when the write policy rejects
	// an operation. Outside strict mode denied writes are silent no-ops.
	ErrWriteDenied = errors.New("settings: write denied by policy")
	// ErrStorageFailed is returned in strict mode when the backend reports a
	// write did not take effect.
	ErrStorageFailed = errors.New("settings: storage backend rejected the write")
)

package settings

import "github.com/goliatone/go-settings/pkg/host"

// UserMetaStorage persists a user's settings as user metadata. This is the
// default user backend.
type UserMetaStorage struct {
	backend host.UserMeta
	userID  int64
}

// NewUserMetaStorage wraps the host's user-meta primitives for userID.
func NewUserMetaStorage(backend host.UserMeta, userID int64) (*UserMetaStorage, error) {
	if backend == nil {
		return nil, ErrPlatformRequired
	}
	if userID <= 0 {
		return nil, ErrUserIDRequired
	}
	return &UserMetaStorage{backend: backend, userID: userID}, nil
}

func (s *UserMetaStorage) Scope() OptionScope     { return ScopeUser }
func (s *UserMetaStorage) BlogID() int64          { return 0 }
func (s *UserMetaStorage) SupportsAutoload() bool { return false }

func (s *UserMetaStorage) Read(key string) (any, bool) {
	return s.backend.GetUserMeta(s.userID, key)
}

func (s *UserMetaStorage) Update(key string, value any, _ bool) bool {
	return s.backend.UpdateUserMeta(s.userID, key, value)
}

// Add synthesizes create-if-absent on top of the meta primitives, which only
// expose upsert.
func (s *UserMetaStorage) Add(key string, value any, _ *bool) bool {
	if _, exists := s.backend.GetUserMeta(s.userID, key); exists {
		return false
	}
	return s.backend.UpdateUserMeta(s.userID, key, value)
}

func (s *UserMetaStorage) Delete(key string) bool {
	return s.backend.DeleteUserMeta(s.userID, key)
}

func (s *UserMetaStorage) LoadAllAutoloaded() map[string]any { return nil }

// UserOptionStorage persists a user's settings through the option-backed
// user storage. Non-global values are namespaced to the current sub-site by
// the host.
type UserOptionStorage struct {
	backend host.UserOptions
	userID  int64
	global  bool
}

// NewUserOptionStorage wraps the host's user-option primitives for userID.
func NewUserOptionStorage(backend host.UserOptions, userID int64, global bool) (*UserOptionStorage, error) {
	if backend == nil {
		return nil, ErrPlatformRequired
	}
	if userID <= 0 {
		return nil, ErrUserIDRequired
	}
	return &UserOptionStorage{backend: backend, userID: userID, global: global}, nil
}

func (s *UserOptionStorage) Scope() OptionScope     { return ScopeUser }
func (s *UserOptionStorage) BlogID() int64          { return 0 }
func (s *UserOptionStorage) SupportsAutoload() bool { return false }

func (s *UserOptionStorage) Read(key string) (any, bool) {
	return s.backend.GetUserOption(s.userID, key, s.global)
}

func (s *UserOptionStorage) Update(key string, value any, _ bool) bool {
	return s.backend.UpdateUserOption(s.userID, key, value, s.global)
}

func (s *UserOptionStorage) Add(key string, value any, _ *bool) bool {
	if _, exists := s.backend.GetUserOption(s.userID, key, s.global); exists {
		return false
	}
	return s.backend.UpdateUserOption(s.userID, key, value, s.global)
}

func (s *UserOptionStorage) Delete(key string) bool {
	return s.backend.DeleteUserOption(s.userID, key, s.global)
}

func (s *UserOptionStorage) LoadAllAutoloaded() map[string]any { return nil }

package settings

import "github.com/goliatone/go-settings/pkg/host"

// PostMetaStorage persists option values as metadata on one post.
type PostMetaStorage struct {
	backend host.PostMeta
	postID  int64
}

// NewPostMetaStorage wraps the host's post-meta primitives for postID.
func NewPostMetaStorage(backend host.PostMeta, postID int64) (*PostMetaStorage, error) {
	if backend == nil {
		return nil, ErrPlatformRequired
	}
	if postID <= 0 {
		return nil, ErrPostIDRequired
	}
	return &PostMetaStorage{backend: backend, postID: postID}, nil
}

func (s *PostMetaStorage) Scope() OptionScope     { return ScopePost }
func (s *PostMetaStorage) BlogID() int64          { return 0 }
func (s *PostMetaStorage) SupportsAutoload() bool { return false }

func (s *PostMetaStorage) Read(key string) (any, bool) {
	return s.backend.GetPostMeta(s.postID, key)
}

func (s *PostMetaStorage) Update(key string, value any, _ bool) bool {
	return s.backend.UpdatePostMeta(s.postID, key, value)
}

func (s *PostMetaStorage) Add(key string, value any, _ *bool) bool {
	if _, exists := s.backend.GetPostMeta(s.postID, key); exists {
		return false
	}
	return s.backend.UpdatePostMeta(s.postID, key, value)
}

func (s *PostMetaStorage) Delete(key string) bool {
	return s.backend.DeletePostMeta(s.postID, key)
}

func (s *PostMetaStorage) LoadAllAutoloaded() map[string]any { return nil }

package settings

import "github.com/goliatone/go-settings/pkg/host"

// BlogStorage persists options addressed to one specific sub-site. When that
// sub-site happens to be the current one and a site backend is available, the
// bulk autoload read is served through it; otherwise bulk reads return nil.
type BlogStorage struct {
	backend host.BlogOptions
	site    host.SiteOptions
	blogID  int64
}

// NewBlogStorage wraps the host's blog-option primitives for blogID. The
// site backend is optional and only consulted for bulk autoload reads when
// blogID addresses the current sub-site.
func NewBlogStorage(backend host.BlogOptions, site host.SiteOptions, blogID int64) (*BlogStorage, error) {
	if backend == nil {
		return nil, ErrPlatformRequired
	}
	if blogID <= 0 {
		blogID = backend.CurrentBlogID()
	}
	return &BlogStorage{backend: backend, site: site, blogID: blogID}, nil
}

func (s *BlogStorage) Scope() OptionScope     { return ScopeBlog }
func (s *BlogStorage) BlogID() int64          { return s.blogID }
func (s *BlogStorage) SupportsAutoload() bool { return false }

func (s *BlogStorage) Read(key string) (any, bool) {
	return s.backend.GetBlogOption(s.blogID, key)
}

func (s *BlogStorage) Update(key string, value any, _ bool) bool {
	return s.backend.UpdateBlogOption(s.blogID, key, value)
}

func (s *BlogStorage) Add(key string, value any, _ *bool) bool {
	return s.backend.AddBlogOption(s.blogID, key, value)
}

func (s *BlogStorage) Delete(key string) bool {
	return s.backend.DeleteBlogOption(s.blogID, key)
}

func (s *BlogStorage) LoadAllAutoloaded() map[string]any {
	if s.site == nil || s.blogID != s.backend.CurrentBlogID() {
		return nil
	}
	return s.site.LoadAllAutoloaded()
}

package settings

import "github.com/goliatone/go-settings/pkg/host"

// SiteStorage persists options site-wide on the active site. It is the only
// adapter with a live autoload concept.
type SiteStorage struct {
	backend host.SiteOptions
}

// NewSiteStorage wraps the host's site-option primitives.
func NewSiteStorage(backend host.SiteOptions) (*SiteStorage, error) {
	if backend == nil {
		return nil, ErrPlatformRequired
	}
	return &SiteStorage{backend: backend}, nil
}

func (s *SiteStorage) Scope() OptionScope     { return ScopeSite }
func (s *SiteStorage) BlogID() int64          { return 0 }
func (s *SiteStorage) SupportsAutoload() bool { return true }

func (s *SiteStorage) Read(key string) (any, bool) {
	return s.backend.GetOption(key)
}

func (s *SiteStorage) Update(key string, value any, autoload bool) bool {
	return s.backend.UpdateOption(key, value, autoload)
}

func (s *SiteStorage) Add(key string, value any, autoload *bool) bool {
	return s.backend.AddOption(key, value, autoload)
}

func (s *SiteStorage) Delete(key string) bool {
	return s.backend.DeleteOption(key)
}

func (s *SiteStorage) LoadAllAutoloaded() map[string]any {
	return s.backend.LoadAllAutoloaded()
}

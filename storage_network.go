package settings

import "github.com/goliatone/go-settings/pkg/host"

// NetworkStorage persists options shared by every site in the network.
// Network options have no autoload concept.
type NetworkStorage struct {
	backend host.NetworkOptions
}

// NewNetworkStorage wraps the host's network-option primitives.
func NewNetworkStorage(backend host.NetworkOptions) (*NetworkStorage, error) {
	if backend == nil {
		return nil, ErrPlatformRequired
	}
	return &NetworkStorage{backend: backend}, nil
}

func (s *NetworkStorage) Scope() OptionScope     { return ScopeNetwork }
func (s *NetworkStorage) BlogID() int64          { return 0 }
func (s *NetworkStorage) SupportsAutoload() bool { return false }

func (s *NetworkStorage) Read(key string) (any, bool) {
	return s.backend.GetNetworkOption(key)
}

func (s *NetworkStorage) Update(key string, value any, _ bool) bool {
	return s.backend.UpdateNetworkOption(key, value)
}

func (s *NetworkStorage) Add(key string, value any, _ *bool) bool {
	return s.backend.AddNetworkOption(key, value)
}

func (s *NetworkStorage) Delete(key string) bool {
	return s.backend.DeleteNetworkOption(key)
}

func (s *NetworkStorage) LoadAllAutoloaded() map[string]any { return nil }

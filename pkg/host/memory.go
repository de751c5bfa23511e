package host

import (
	"fmt"
	"sync"
)

// MemoryPlatform is an in-memory Platform implementation intended for tests
// and examples. It keys every record deterministically and makes no
// persistence assumptions.
type MemoryPlatform struct {
	mu       sync.RWMutex
	site     map[string]any
	autoload map[string]bool
	network  map[string]any
	blogs    map[int64]map[string]any
	userMeta map[string]any
	userOpts map[string]any
	postMeta map[string]any

	currentBlog int64

	// Caps backs the Capabilities contract: actor id → granted capability
	// names. A grant of "*" allows everything.
	Caps map[int64]map[string]bool
}

// NewMemoryPlatform constructs an empty platform whose current blog id is 1.
func NewMemoryPlatform() *MemoryPlatform {
	return &MemoryPlatform{
		site:        map[string]any{},
		autoload:    map[string]bool{},
		network:     map[string]any{},
		blogs:       map[int64]map[string]any{},
		userMeta:    map[string]any{},
		userOpts:    map[string]any{},
		postMeta:    map[string]any{},
		currentBlog: 1,
		Caps:        map[int64]map[string]bool{},
	}
}

// SetCurrentBlogID changes which sub-site the platform reports as current.
func (p *MemoryPlatform) SetCurrentBlogID(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentBlog = id
}

// Grant records a capability for actor. Use "*" to allow everything.
func (p *MemoryPlatform) Grant(actorID int64, capability string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Caps[actorID] == nil {
		p.Caps[actorID] = map[string]bool{}
	}
	p.Caps[actorID][capability] = true
}

// Can implements Capabilities.
func (p *MemoryPlatform) Can(actorID int64, capability string, _ int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	grants := p.Caps[actorID]
	if grants == nil {
		return false
	}
	return grants[capability] || grants["*"]
}

func (p *MemoryPlatform) GetOption(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.site[key]
	return value, ok
}

func (p *MemoryPlatform) UpdateOption(key string, value any, autoload bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.site[key] = value
	p.autoload[key] = autoload
	return true
}

func (p *MemoryPlatform) AddOption(key string, value any, autoload *bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.site[key]; exists {
		return false
	}
	flag := true
	if autoload != nil {
		flag = *autoload
	}
	p.site[key] = value
	p.autoload[key] = flag
	return true
}

func (p *MemoryPlatform) DeleteOption(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.site[key]; !exists {
		return false
	}
	delete(p.site, key)
	delete(p.autoload, key)
	return true
}

func (p *MemoryPlatform) LoadAllAutoloaded() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]any)
	for key, value := range p.site {
		if p.autoload[key] {
			out[key] = value
		}
	}
	return out
}

func (p *MemoryPlatform) GetNetworkOption(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.network[key]
	return value, ok
}

func (p *MemoryPlatform) UpdateNetworkOption(key string, value any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.network[key] = value
	return true
}

func (p *MemoryPlatform) AddNetworkOption(key string, value any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.network[key]; exists {
		return false
	}
	p.network[key] = value
	return true
}

func (p *MemoryPlatform) DeleteNetworkOption(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.network[key]; !exists {
		return false
	}
	delete(p.network, key)
	return true
}

func (p *MemoryPlatform) CurrentBlogID() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentBlog
}

func (p *MemoryPlatform) GetBlogOption(blogID int64, key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.blogs[blogID][key]
	return value, ok
}

func (p *MemoryPlatform) UpdateBlogOption(blogID int64, key string, value any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.blogs[blogID] == nil {
		p.blogs[blogID] = map[string]any{}
	}
	p.blogs[blogID][key] = value
	return true
}

func (p *MemoryPlatform) AddBlogOption(blogID int64, key string, value any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.blogs[blogID][key]; exists {
		return false
	}
	if p.blogs[blogID] == nil {
		p.blogs[blogID] = map[string]any{}
	}
	p.blogs[blogID][key] = value
	return true
}

func (p *MemoryPlatform) DeleteBlogOption(blogID int64, key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.blogs[blogID][key]; !exists {
		return false
	}
	delete(p.blogs[blogID], key)
	return true
}

func (p *MemoryPlatform) GetUserMeta(userID int64, key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.userMeta[userKey(userID, key)]
	return value, ok
}

func (p *MemoryPlatform) UpdateUserMeta(userID int64, key string, value any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userMeta[userKey(userID, key)] = value
	return true
}

func (p *MemoryPlatform) DeleteUserMeta(userID int64, key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	composite := userKey(userID, key)
	if _, exists := p.userMeta[composite]; !exists {
		return false
	}
	delete(p.userMeta, composite)
	return true
}

func (p *MemoryPlatform) GetUserOption(userID int64, key string, global bool) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.userOpts[p.userOptionKey(userID, key, global)]
	return value, ok
}

func (p *MemoryPlatform) UpdateUserOption(userID int64, key string, value any, global bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userOpts[p.userOptionKey(userID, key, global)] = value
	return true
}

func (p *MemoryPlatform) DeleteUserOption(userID int64, key string, global bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	composite := p.userOptionKey(userID, key, global)
	if _, exists := p.userOpts[composite]; !exists {
		return false
	}
	delete(p.userOpts, composite)
	return true
}

func (p *MemoryPlatform) GetPostMeta(postID int64, key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.postMeta[postKey(postID, key)]
	return value, ok
}

func (p *MemoryPlatform) UpdatePostMeta(postID int64, key string, value any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.postMeta[postKey(postID, key)] = value
	return true
}

func (p *MemoryPlatform) DeletePostMeta(postID int64, key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	composite := postKey(postID, key)
	if _, exists := p.postMeta[composite]; !exists {
		return false
	}
	delete(p.postMeta, composite)
	return true
}

// userOptionKey namespaces non-global user options to the current blog, the
// way option-backed user settings behave on multi-site installs.
func (p *MemoryPlatform) userOptionKey(userID int64, key string, global bool) string {
	if global {
		return fmt.Sprintf("user/%d/%s", userID, key)
	}
	return fmt.Sprintf("user/%d/blog/%d/%s", userID, p.currentBlog, key)
}

func userKey(userID int64, key string) string {
	return fmt.Sprintf("user/%d/%s", userID, key)
}

func postKey(postID int64, key string) string {
	return fmt.Sprintf("post/%d/%s", postID, key)
}

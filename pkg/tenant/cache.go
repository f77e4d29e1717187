package tenant

import (
	"context"
	"sync"
	"time"

	"github.com/danrwr-web/signposting-sub009/pkg/config"
)

// cacheEntry holds a resolved config snapshot with its expiry.
type cacheEntry struct {
	cfg     *config.TenantConfig
	expires time.Time
}

// CachedProvider decorates a Provider with an in-memory TTL cache. Entries
// are whole-config snapshots: a refresh swaps the pointer, so concurrent
// evaluations never observe a torn config.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCachedProvider wraps a provider with a TTL cache.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached snapshot when fresh, otherwise refreshes from the
// inner provider. A failed refresh is returned as an error; stale entries
// are not served.
func (p *CachedProvider) Get(ctx context.Context, tenantID string) (*config.TenantConfig, error) {
	p.mu.RLock()
	entry, ok := p.entries[tenantID]
	p.mu.RUnlock()
	if ok && p.now().Before(entry.expires) {
		return entry.cfg, nil
	}

	cfg, err := p.inner.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.entries[tenantID] = cacheEntry{cfg: cfg, expires: p.now().Add(p.ttl)}
	p.mu.Unlock()
	return cfg, nil
}

// Invalidate drops a tenant's cached entry, forcing the next Get to refresh.
func (p *CachedProvider) Invalidate(tenantID string) {
	p.mu.Lock()
	delete(p.entries, tenantID)
	p.mu.Unlock()
}

package auth

import (
	"context"
	"sync"
	"time"
)

// PrincipalLookup loads the current principal of a user id, failing when the
// account no longer exists.
type PrincipalLookup interface {
	LookupPrincipal(ctx context.Context, userID uint) (Principal, error)
}

// LookupFunc adapts a function to PrincipalLookup.
type LookupFunc func(ctx context.Context, userID uint) (Principal, error)

func (f LookupFunc) LookupPrincipal(ctx context.Context, userID uint) (Principal, error) {
	return f(ctx, userID)
}

// PrincipalCache wraps a PrincipalLookup with TTL-based caching.
// This avoids hitting the database on every authenticated request.
type PrincipalCache struct {
	inner PrincipalLookup
	cache map[uint]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
}

type cacheEntry struct {
	principal Principal
	expiresAt time.Time
}

// NewPrincipalCache wraps a lookup with caching.
// ttl is how long principals are cached before re-fetching.
func NewPrincipalCache(inner PrincipalLookup, ttl time.Duration) *PrincipalCache {
	return &PrincipalCache{
		inner: inner,
		cache: make(map[uint]*cacheEntry),
		ttl:   ttl,
	}
}

// LookupPrincipal returns the principal for the given user, using cache if available.
func (c *PrincipalCache) LookupPrincipal(ctx context.Context, userID uint) (Principal, error) {
	c.mu.RLock()
	entry, ok := c.cache[userID]
	c.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return entry.principal, nil
	}

	p, err := c.inner.LookupPrincipal(ctx, userID)
	if err != nil {
		return Principal{}, err
	}

	c.mu.Lock()
	c.cache[userID] = &cacheEntry{
		principal: p,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()

	return p, nil
}

// Invalidate removes a user from the cache.
// Call this when a user's role changes or the account is deleted.
func (c *PrincipalCache) Invalidate(userID uint) {
	c.mu.Lock()
	delete(c.cache, userID)
	c.mu.Unlock()
}

package embedding

import (
	"context"
	"sync"
)

type cachedVector struct {
	token string
	vec   []float32
}

// Cache memoizes provider results per profile. Entries are keyed by profile
// id and invalidated when the freshness token changes. Redundant
// recomputation under races is tolerated; last write wins.
type Cache struct {
	provider Provider

	mu      sync.RWMutex
	entries map[string]cachedVector
}

// NewCache wraps a provider with per-profile memoization.
func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		entries:  make(map[string]cachedVector),
	}
}

// Embed returns the cached vector for (id, token) or calls the underlying
// provider and stores the result. Texts without a profile id bypass the
// cache entirely.
func (c *Cache) Embed(ctx context.Context, id, token, text string) ([]float32, error) {
	if id == "" {
		return c.provider.Embed(ctx, text)
	}

	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if ok && entry.token == token {
		return entry.vec, nil
	}

	vec, err := c.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[id] = cachedVector{token: token, vec: vec}
	c.mu.Unlock()

	return vec, nil
}

// Len reports how many profile vectors are currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache) Dim() int {
	return c.provider.Dim()
}

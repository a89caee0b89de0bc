package cache

import (
	"context"
	"sync"

	"challenge-service/internal/best"
)

// MemoryCache is the fallback local cache when redis is not configured, and
// the cache used in tests. Contents do not survive a restart.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]best.Map
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]best.Map)}
}

func (c *MemoryCache) Load(ctx context.Context, userID string) (best.Map, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[userID].Clone(), nil
}

func (c *MemoryCache) Save(ctx context.Context, userID string, m best.Map) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[userID] = m.Clone()
	return nil
}

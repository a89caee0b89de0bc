package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"challenge-service/internal/best"
)

const bestKeyPrefix = "challenge:bests:"

// RedisCache is the durable local cache of personal-best maps. It survives
// process restarts but is scoped to this node, not shared truth; the remote
// store stays authoritative.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Load(ctx context.Context, userID string) (best.Map, error) {
	raw, err := c.client.Get(ctx, bestKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return best.Map{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: load bests for %s: %w", userID, err)
	}
	var m best.Map
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("cache: decode bests for %s: %w", userID, err)
	}
	return m, nil
}

func (c *RedisCache) Save(ctx context.Context, userID string, m best.Map) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("cache: encode bests for %s: %w", userID, err)
	}
	if err := c.client.Set(ctx, bestKeyPrefix+userID, raw, 0).Err(); err != nil {
		return fmt.Errorf("cache: save bests for %s: %w", userID, err)
	}
	return nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultNameTTL = 10 * time.Minute

// NameCache keeps userID -> username lookups in Redis.
// Key format: user:name:<user_id>
type NameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNameCache wraps client. A non-positive ttl falls back to ten minutes.
func NewNameCache(client *redis.Client, ttl time.Duration) *NameCache {
	if ttl <= 0 {
		ttl = defaultNameTTL
	}
	return &NameCache{client: client, ttl: ttl}
}

// Get returns the cached name. ok is false on a miss.
func (c *NameCache) Get(ctx context.Context, userID string) (string, bool, error) {
	name, err := c.client.Get(ctx, nameKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("name cache get: %w", err)
	}
	return name, true, nil
}

func (c *NameCache) Set(ctx context.Context, userID, name string) error {
	if err := c.client.Set(ctx, nameKey(userID), name, c.ttl).Err(); err != nil {
		return fmt.Errorf("name cache set: %w", err)
	}
	return nil
}

func nameKey(userID string) string {
	return "user:name:" + userID
}

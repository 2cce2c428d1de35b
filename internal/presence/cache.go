// internal/presence/cache.go

package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// OnlineCache is a write-through cache over the presence rows. All methods
// are safe on a nil cache or nil client, so the service runs without Redis.
// Entries expire quickly; the sweeper's demotions become visible once the
// cached entry ages out.
type OnlineCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOnlineCache(client *redis.Client, ttl time.Duration) *OnlineCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &OnlineCache{client: client, ttl: ttl}
}

func cacheKey(userID string) string {
	return fmt.Sprintf("presence:%s", userID)
}

func (c *OnlineCache) Set(ctx context.Context, p *Presence) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(p.UserID), payload, c.ttl).Err()
}

// Get returns the cached presence and whether the entry was found
func (c *OnlineCache) Get(ctx context.Context, userID string) (*Presence, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}

	var p Presence
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *OnlineCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey(userID)).Err()
}

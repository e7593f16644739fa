package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"classdesk/internal/dashboard"
	"classdesk/pkg/domain"
)

const dashboardKeyPrefix = "dashboard:"

// Redis implements Cache on a shared Redis instance so multiple server
// processes reuse each other's compositions. The data version is part of the
// key, so stale-version entries simply stop being addressed; the TTL bounds
// how long they linger.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed dashboard cache.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func redisKey(tenantID domain.TenantID, key Key) string {
	return fmt.Sprintf("%s%s:%s", dashboardKeyPrefix, tenantID, key)
}

func (c *Redis) Get(ctx context.Context, tenantID domain.TenantID, key Key) (dashboard.Payload, bool, error) {
	raw, err := c.client.Get(ctx, redisKey(tenantID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return dashboard.Payload{}, false, nil
	}
	if err != nil {
		return dashboard.Payload{}, false, fmt.Errorf("get cached dashboard: %w", err)
	}
	var p dashboard.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt entry is a miss; recomposition overwrites it.
		return dashboard.Payload{}, false, nil
	}
	return p, true, nil
}

func (c *Redis) Put(ctx context.Context, tenantID domain.TenantID, key Key, payload dashboard.Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal dashboard payload: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(tenantID, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put cached dashboard: %w", err)
	}
	return nil
}

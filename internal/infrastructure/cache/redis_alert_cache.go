package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisAlertCache implements AlertCache on Redis. Keys follow the
// pattern <prefix><store_id>:<product_id> and rely on Redis expiry for
// cleanup.
type RedisAlertCache struct {
	client *redis.Client
	prefix string
}

// NewRedisAlertCache creates a Redis-backed alert cache
func NewRedisAlertCache(client *redis.Client, prefix string) *RedisAlertCache {
	return &RedisAlertCache{
		client: client,
		prefix: prefix,
	}
}

func (c *RedisAlertCache) key(storeID, productID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", c.prefix, storeID, productID)
}

// Upsert stores or refreshes an alert
func (c *RedisAlertCache) Upsert(ctx context.Context, alert LowStockAlert, ttl time.Duration) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	if err := c.client.Set(ctx, c.key(alert.StoreID, alert.ProductID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store alert: %w", err)
	}
	return nil
}

// Get returns the active alert for a store/product pair
func (c *RedisAlertCache) Get(ctx context.Context, storeID, productID uuid.UUID) (*LowStockAlert, error) {
	data, err := c.client.Get(ctx, c.key(storeID, productID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read alert: %w", err)
	}
	var alert LowStockAlert
	if err := json.Unmarshal(data, &alert); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert: %w", err)
	}
	return &alert, nil
}

// ListByStore scans for all active alerts of one store
func (c *RedisAlertCache) ListByStore(ctx context.Context, storeID uuid.UUID) ([]LowStockAlert, error) {
	pattern := fmt.Sprintf("%s%s:*", c.prefix, storeID)
	var alerts []LowStockAlert

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		data, err := c.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read alert: %w", err)
		}
		var alert LowStockAlert
		if err := json.Unmarshal(data, &alert); err != nil {
			continue
		}
		alerts = append(alerts, alert)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan alerts: %w", err)
	}
	return alerts, nil
}

var _ AlertCache = (*RedisAlertCache)(nil)

package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisInvalidator deletes cached read models by key prefix
type RedisInvalidator struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisInvalidator creates a Redis-backed invalidator
func NewRedisInvalidator(client *redis.Client, logger *zap.Logger) *RedisInvalidator {
	return &RedisInvalidator{
		client: client,
		logger: logger,
	}
}

// InvalidatePrefix scans for keys under the prefix and deletes them in
// batches
func (i *RedisInvalidator) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := i.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var batch []string
	deleted := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := i.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
		deleted += len(batch)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	if deleted > 0 {
		i.logger.Debug("invalidated cache keys",
			zap.String("prefix", prefix),
			zap.Int("count", deleted))
	}
	return nil
}

var _ Invalidator = (*RedisInvalidator)(nil)

// NoOpInvalidator satisfies Invalidator when no cache backend is
// configured
type NoOpInvalidator struct{}

// InvalidatePrefix does nothing
func (NoOpInvalidator) InvalidatePrefix(context.Context, string) error {
	return nil
}

var _ Invalidator = (*NoOpInvalidator)(nil)

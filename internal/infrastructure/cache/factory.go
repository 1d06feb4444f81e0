package cache

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/infrastructure/config"
)

// NewAlertCache selects the alert cache backend from configuration
func NewAlertCache(cfg config.RedisConfig, alertCfg config.AlertConfig, client *redis.Client, logger *zap.Logger) AlertCache {
	if cfg.Enabled && client != nil {
		logger.Info("using redis alert cache", zap.String("prefix", alertCfg.Prefix))
		return NewRedisAlertCache(client, alertCfg.Prefix)
	}
	logger.Warn("using in-memory alert cache")
	return NewMemoryAlertCache()
}

// NewInvalidator selects the read-cache invalidator from configuration
func NewInvalidator(cfg config.RedisConfig, client *redis.Client, logger *zap.Logger) Invalidator {
	if cfg.Enabled && client != nil {
		return NewRedisInvalidator(client, logger)
	}
	return NoOpInvalidator{}
}

package lock

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/infrastructure/config"
)

// NewLocker selects the lock backend from configuration. Redis is the
// production choice; the in-memory locker only guards a single process.
func NewLocker(cfg config.RedisConfig, lockCfg config.LockConfig, client *redis.Client, logger *zap.Logger) Locker {
	if cfg.Enabled && client != nil {
		logger.Info("using redis locker", zap.String("prefix", lockCfg.Prefix))
		return NewRedisLocker(client, lockCfg.Prefix)
	}
	logger.Warn("using in-memory locker, unsafe with multiple instances")
	return NewMemoryLocker()
}

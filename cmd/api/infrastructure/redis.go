package infrastructure

import (
	"fmt"

	"go.uber.org/zap"

	"orb-service/internal/config"
	redisclient "orb-service/pkg/redis"
)

// NewRedisClient connects to Redis when REDIS_URL names a real backend.
// With "memory://" (the default) it returns nil and the application falls
// back to in-process session storage with the rate limiter disabled.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.RedisEnabled() {
		l.Info("redis disabled, using in-process fallbacks")
		return nil, nil
	}

	rdb, err := redisclient.NewClient(cfg.Redis.URL, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

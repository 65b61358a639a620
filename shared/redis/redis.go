package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/config"
)

// NewRedisCache подключается к redis по конфигу и возвращает адаптер общего кэша
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig, logger *slog.Logger) (*CacheRedisAdapter, error) {
	// проверяем, что конфиг редиса не nil
	if cfg == nil {
		return nil, fmt.Errorf("redis config is nil")
	}

	// создаёем экземпляр опций, на базе которых построим клиента
	redisOptions := cfg.ToRedisOptions()
	client := redis.NewClient(redisOptions)

	// Проверяем подключение
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("connected to redis",
		slog.String("addr", redisOptions.Addr),
		slog.Int("db", redisOptions.DB),
		slog.String("key_prefix", cfg.KeyPrefix),
	)

	return NewCacheAdapter(client, cfg.KeyPrefix), nil
}

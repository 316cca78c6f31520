package bootstrap

import (
	"context"

	"tour-booking/internal/pkg/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var QueueModule = fx.Module("queue",
	fx.Provide(
		NewAsynqClient,
		NewRedisClient,
	),
)

func RedisClientOpt(cfg config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func NewAsynqClient(lc fx.Lifecycle, cfg config.Config) *asynq.Client {
	client := asynq.NewClient(RedisClientOpt(cfg.Queue))
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return client
}

// NewRedisClient is used for readiness probing only; asynq keeps its own
// connections.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.RedisAddr,
		Password: cfg.Queue.RedisPassword,
		DB:       cfg.Queue.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return rdb
}

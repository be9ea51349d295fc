package bootstrap

import (
	"context"
	"log/slog"

	"lounge-booking/internal/infra/cache"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/config"
	"lounge-booking/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewCheckoutCache,
	),
)

// NewCheckoutCache uses Redis when REDIS_ADDR is set and an in-process map otherwise.
func NewCheckoutCache(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) commands.CheckoutCache {
	if cfg.Redis.Addr == "" {
		logger.Warn("checkout cache is in-memory (no REDIS_ADDR); payloads do not survive restarts")
		return cache.NewMemoryCheckoutCache(cfg.Redis.CheckoutCacheTTL, clk)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				// the cache is a fallback path; the booking flow survives without it
				logger.Warn("redis ping failed", slog.String("addr", cfg.Redis.Addr), slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	logger.Info("checkout cache enabled (redis)", slog.String("addr", cfg.Redis.Addr))
	return cache.NewRedisCheckoutCache(rdb, cfg.Redis.CheckoutCacheTTL, "checkout")
}

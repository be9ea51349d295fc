package bootstrap

import (
	"context"
	"log/slog"

	"lounge-booking/internal/infra/outbox"
	"lounge-booking/internal/infra/uow"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var OutboxModule = fx.Module("outbox",
	fx.Provide(
		NewOutboxRelay,
	),
	fx.Invoke(startOutboxRelay),
)

func NewOutboxRelay(u *uow.PostgresUoW, clk clock.Clock, logger *slog.Logger, cfg config.Config) *outbox.Relay {
	return outbox.NewRelay(u, outbox.NewKafkaWriter(cfg.Kafka), clk, logger, cfg.Kafka)
}

func startOutboxRelay(lc fx.Lifecycle, relay *outbox.Relay) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				relay.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

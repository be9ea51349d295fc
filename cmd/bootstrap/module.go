package bootstrap

import (
	"lounge-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	components.PersistenceModule,
	CacheModule,
	PaymentModule,
	OutboxModule,
	components.UseCaseModule,
	components.HandlerModule,
)

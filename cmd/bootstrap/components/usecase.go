package components

import (
	"time"

	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/config"
	"lounge-booking/internal/usecase/commands"
	"lounge-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.BookingConfig { return cfg.Booking },
	func(cfg config.Config) config.PaymentConfig { return cfg.Payment },
	func(cfg config.Config) *time.Location { return cfg.Booking.Location() },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSlotBlockUseCase,
		commands.NewBookingCommitUseCase,
		commands.NewPaymentTriggers,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
	),
)

package components

import (
	"lounge-booking/internal/infra/db"
	"lounge-booking/internal/infra/repository"
	"lounge-booking/internal/infra/uow"
	"lounge-booking/internal/usecase/commands"
	"lounge-booking/internal/usecase/queries"
	"lounge-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			repository.NewAvailabilityReadStore,
			fx.As(new(queries.AvailabilityReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork; the concrete type also serves the outbox relay
		uow.NewPostgresUoW,
		func(u *uow.PostgresUoW) shared.UnitOfWork { return u },
		// Customer
		fx.Annotate(
			repository.NewCustomerRepository,
			fx.As(new(shared.CustomerRepository)),
		),
		// SlotBlock
		fx.Annotate(
			repository.NewSlotBlockRepository,
			fx.As(new(commands.SlotBlockRepository)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

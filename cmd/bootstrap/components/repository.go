package components

import (
	"expo-ledger/internal/infra/db"
	"expo-ledger/internal/infra/readstore"
	"expo-ledger/internal/infra/uow"
	"expo-ledger/internal/usecase/queries"
	"expo-ledger/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewAttendeeReadStore,
			fx.As(new(queries.AttendeeQueries)),
		),
		fx.Annotate(
			readstore.NewProductReadStore,
			fx.As(new(queries.ProductQueries)),
		),
		fx.Annotate(
			readstore.NewActivityReadStore,
			fx.As(new(queries.ActivityQueries)),
		),
		fx.Annotate(
			readstore.NewCheckInReadStore,
			fx.As(new(queries.CheckInQueries)),
		),
		fx.Annotate(
			readstore.NewRaffleReadStore,
			fx.As(new(queries.RaffleQueries)),
		),
		fx.Annotate(
			readstore.NewRedemptionReadStore,
			fx.As(new(queries.RedemptionQueries)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

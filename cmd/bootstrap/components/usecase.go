package components

import (
	"expo-ledger/internal/domain/raffle"
	"expo-ledger/internal/pkg/clock"
	"expo-ledger/internal/pkg/config"
	"expo-ledger/internal/usecase/commands"
	"expo-ledger/internal/usecase/identity"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	raffle.NewUniformPicker,
	func(cfg config.Config) identity.Resolver {
		return identity.NewBadgeResolver(cfg.Badge)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCheckInCommands,
		commands.NewRedemptionCommands,
		commands.NewActivityCommands,
		commands.NewRaffleCommands,
		commands.NewScanCommands,
	),
)

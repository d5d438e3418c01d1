package components

import (
	"expo-ledger/internal/handler"
	"expo-ledger/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewScanHandler,
		api.NewCheckInHandler,
		api.NewRedemptionHandler,
		api.NewActivityHandler,
		api.NewRaffleHandler,
		api.NewAttendeeHandler,
		api.NewProductHandler,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	scan *api.ScanHandler,
	checkIn *api.CheckInHandler,
	redemption *api.RedemptionHandler,
	activity *api.ActivityHandler,
	raffle *api.RaffleHandler,
	attendee *api.AttendeeHandler,
	product *api.ProductHandler,
) handler.Handlers {
	return handler.Handlers{
		Scan:       scan,
		CheckIn:    checkIn,
		Redemption: redemption,
		Activity:   activity,
		Raffle:     raffle,
		Attendee:   attendee,
		Product:    product,
	}
}

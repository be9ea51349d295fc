package components

import (
	"lounge-booking/internal/handler"
	"lounge-booking/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewSlotBlockHandler,
		api.NewPaymentHandler,
		func(a *api.AvailabilityHandler, s *api.SlotBlockHandler, p *api.PaymentHandler) handler.Handlers {
			return handler.Handlers{Availability: a, SlotBlocks: s, Payments: p}
		},
	),
	fx.Invoke(handler.NewRouter),
)

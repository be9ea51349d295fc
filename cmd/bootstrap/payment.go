package bootstrap

import (
	"lounge-booking/internal/handler/middleware"
	"lounge-booking/internal/infra/payment"
	"lounge-booking/internal/pkg/config"
	"lounge-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		fx.Annotate(
			func(cfg config.Config) *payment.RazorpayVerifier {
				return payment.NewRazorpayVerifier(cfg.Payment)
			},
			fx.As(new(commands.PaymentVerifier)),
		),
		fx.Annotate(
			func(cfg config.Config) *payment.WebhookVerifier {
				return payment.NewWebhookVerifier(cfg.Payment)
			},
			fx.As(new(middleware.SignatureVerifier)),
		),
	),
)

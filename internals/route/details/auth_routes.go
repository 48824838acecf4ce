package details

import (
	"github.com/gofiber/fiber/v2"

	paymentRoute "madrasa_backend/internals/features/finance/payments/route"
	authRoute "madrasa_backend/internals/features/users/auth/route"
)

// Rute publik: pendaftaran + notifikasi payment gateway.
func PublicRoutes(app *fiber.App, ctl *Controllers) {
	authRoute.AuthRoutes(app, ctl.Register)
	paymentRoute.PaymentWebhookRoutes(app, ctl.Payments)
}

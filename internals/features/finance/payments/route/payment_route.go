package route

import (
	"github.com/gofiber/fiber/v2"

	paymentCtl "madrasa_backend/internals/features/finance/payments/controller"
)

// /api/a
func PaymentAdminRoutes(r fiber.Router, h *paymentCtl.PaymentController) {
	g := r.Group("/payments")
	g.Post("/", h.Create)
	g.Get("/", h.List)
}

// /api/p
func PaymentParentRoutes(r fiber.Router, h *paymentCtl.PaymentController) {
	g := r.Group("/payments")
	g.Get("/", h.MyPayments)
	g.Post("/:id/checkout", h.Checkout)
}

// publik: notifikasi gateway (diverifikasi lewat signature, bukan JWT)
func PaymentWebhookRoutes(app fiber.Router, h *paymentCtl.PaymentController) {
	app.Post("/api/payments/notification", h.Notification)
}

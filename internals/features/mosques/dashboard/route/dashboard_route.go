package route

import (
	"github.com/gofiber/fiber/v2"

	dashboardCtl "madrasa_backend/internals/features/mosques/dashboard/controller"
)

// /api/a
func DashboardAdminRoutes(r fiber.Router, h *dashboardCtl.DashboardController) {
	r.Get("/dashboard", h.Get)
}

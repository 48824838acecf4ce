package route

import (
	"github.com/gofiber/fiber/v2"

	scheduleCtl "madrasa_backend/internals/features/school/schedules/controller"
)

// /api/a
func ScheduleAdminRoutes(r fiber.Router, h *scheduleCtl.ScheduleController) {
	g := r.Group("/schedules")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Delete("/:id", h.Delete)
}

// /api/t, /api/p, /api/s (read-only)
func ScheduleReadRoutes(r fiber.Router, h *scheduleCtl.ScheduleController) {
	r.Get("/schedules", h.List)
}

package route

import (
	"github.com/gofiber/fiber/v2"

	annCtl "madrasa_backend/internals/features/school/announcements/controller"
)

// /api/a
func AnnouncementAdminRoutes(r fiber.Router, h *annCtl.AnnouncementController) {
	g := r.Group("/announcements")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Delete("/:id", h.Delete)
}

// /api/t, /api/p, /api/s
func AnnouncementReadRoutes(r fiber.Router, h *annCtl.AnnouncementController) {
	r.Get("/announcements", h.List)
}

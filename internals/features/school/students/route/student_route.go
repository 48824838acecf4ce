package route

import (
	"github.com/gofiber/fiber/v2"

	studentCtl "madrasa_backend/internals/features/school/students/controller"
)

// /api/a
func StudentAdminRoutes(r fiber.Router, h *studentCtl.StudentController) {
	g := r.Group("/students")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
	g.Put("/:id/parent", h.AssignParent)
	g.Get("/:id/enrollment-qr", h.EnrollmentQR)
}

// /api/p
func StudentParentRoutes(r fiber.Router, h *studentCtl.StudentController) {
	r.Get("/children", h.MyChildren)
}

// /api/s
func StudentSelfRoutes(r fiber.Router, h *studentCtl.StudentController) {
	r.Get("/me", h.Me)
}

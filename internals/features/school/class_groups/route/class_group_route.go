package route

import (
	"github.com/gofiber/fiber/v2"

	classCtl "madrasa_backend/internals/features/school/class_groups/controller"
)

// /api/a
func ClassGroupAdminRoutes(r fiber.Router, h *classCtl.ClassGroupController) {
	g := r.Group("/classes")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
	g.Put("/:id/teacher", h.AssignTeacher)
}

// /api/t
func ClassGroupTeacherRoutes(r fiber.Router, h *classCtl.ClassGroupController) {
	g := r.Group("/classes")
	g.Get("/", h.MyClasses)
	g.Get("/:id/students", h.MyClassStudents)
}

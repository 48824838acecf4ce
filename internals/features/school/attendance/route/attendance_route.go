package route

import (
	"github.com/gofiber/fiber/v2"

	attCtl "madrasa_backend/internals/features/school/attendance/controller"
)

// Rute TEACHER (mounted di /api/t, sudah lewat AuthJWT + RequireRoles(teacher))
func AttendanceTeacherRoutes(r fiber.Router, h *attCtl.AttendanceController) {
	g := r.Group("/attendance")
	g.Post("/", h.Record)
	g.Get("/", h.TeacherHistory)
}

// Rute PARENT (/api/p)
func AttendanceParentRoutes(r fiber.Router, h *attCtl.AttendanceController) {
	r.Get("/presences", h.ParentPresences)
}

// Rute STUDENT (/api/s)
func AttendanceStudentRoutes(r fiber.Router, h *attCtl.AttendanceController) {
	r.Get("/presences", h.StudentPresences)
}

package route

import (
	"github.com/gofiber/fiber/v2"

	gradeCtl "madrasa_backend/internals/features/school/grades/controller"
)

// /api/t
func GradeTeacherRoutes(r fiber.Router, h *gradeCtl.GradeController) {
	g := r.Group("/grades")
	g.Post("/", h.Record)
	g.Get("/", h.TeacherHistory)
}

// /api/p
func GradeParentRoutes(r fiber.Router, h *gradeCtl.GradeController) {
	r.Get("/grades", h.ParentGrades)
}

// /api/s
func GradeStudentRoutes(r fiber.Router, h *gradeCtl.GradeController) {
	r.Get("/grades", h.StudentGrades)
}

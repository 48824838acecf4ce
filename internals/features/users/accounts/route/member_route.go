package route

import (
	"github.com/gofiber/fiber/v2"

	memberCtl "madrasa_backend/internals/features/users/accounts/controller"
	"madrasa_backend/internals/features/users/accounts/model"
)

// /api/a
func MemberAdminRoutes(r fiber.Router, h *memberCtl.MemberController) {
	teachers := r.Group("/teachers")
	teachers.Post("/", h.Create(model.RoleTeacher))
	teachers.Get("/", h.List(model.RoleTeacher))
	teachers.Get("/:id", h.Get(model.RoleTeacher))
	teachers.Delete("/:id", h.Delete(model.RoleTeacher))
	teachers.Put("/:id/classes", h.AssignClasses)

	parents := r.Group("/parents")
	parents.Post("/", h.Create(model.RoleParent))
	parents.Get("/", h.List(model.RoleParent))
	parents.Get("/:id", h.Get(model.RoleParent))
	parents.Delete("/:id", h.Delete(model.RoleParent))
	parents.Put("/:id/children", h.AssignChildren)
}

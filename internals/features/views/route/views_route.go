package route

import (
	"github.com/gofiber/fiber/v2"

	"madrasa_backend/internals/features/views/controller"
	"madrasa_backend/internals/features/views/service"
)

// ViewsUserRoutes dipasang di group /api/u (semua role yang login).
func ViewsUserRoutes(r fiber.Router, board *service.Board) {
	ctl := controller.NewViewsController(board)
	r.Get("/views", ctl.GetVersions)
}

package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"madrasa_backend/internals/features/views/service"
	helper "madrasa_backend/internals/helpers"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

type ViewsController struct {
	Board *service.Board
}

func NewViewsController(b *service.Board) *ViewsController {
	return &ViewsController{Board: b}
}

// GET /api/u/views?keys=admin/dashboard,teacher/attendance
// Versi per view milik tenant pemanggil; client refetch kalau versi berubah.
func (h *ViewsController) GetVersions(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	views := make([]string, 0)
	for _, v := range strings.Split(c.Query("keys"), ",") {
		if v = strings.TrimSpace(v); v != "" {
			views = append(views, v)
		}
	}
	if len(views) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "keys is required")
	}

	versions := h.Board.Versions(service.TenantKeys(actor.MosqueID, views...)...)
	out := make(map[string]uint64, len(views))
	for _, v := range views {
		out[v] = versions[service.TenantKey(actor.MosqueID, v)]
	}
	return helper.JsonOK(c, "ok", out)
}

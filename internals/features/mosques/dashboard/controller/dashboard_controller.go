package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"madrasa_backend/internals/features/mosques/dashboard/service"
	mosqueService "madrasa_backend/internals/features/mosques/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	helper "madrasa_backend/internals/helpers"
	helperAuth "madrasa_backend/internals/helpers/auth"
	"madrasa_backend/internals/helpers/dbtime"
)

type DashboardController struct {
	DB              *gorm.DB
	DefaultTimezone string
}

func NewDashboardController(db *gorm.DB, defaultTZ string) *DashboardController {
	return &DashboardController{DB: db, DefaultTimezone: defaultTZ}
}

// GET /api/a/dashboard
func (h *DashboardController) Get(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return helper.FromError(c, err)
	}
	loc, err := mosqueService.TenantLocation(c.UserContext(), h.DB, actor.MosqueID, h.DefaultTimezone)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.Build(c.UserContext(), h.DB, actor.MosqueID, dbtime.DayKeyOf(time.Now(), loc))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

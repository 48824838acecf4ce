package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classService "madrasa_backend/internals/features/school/class_groups/service"
	"madrasa_backend/internals/features/school/schedules/dto"
	"madrasa_backend/internals/features/school/schedules/service"
	helper "madrasa_backend/internals/helpers"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

type ScheduleController struct {
	DB      *gorm.DB
	Planner *service.Planner
}

func NewScheduleController(db *gorm.DB, planner *service.Planner) *ScheduleController {
	return &ScheduleController{DB: db, Planner: planner}
}

// POST /api/a/schedules
func (h *ScheduleController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateSlotsRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	slots, err := h.Planner.CreateSlots(c.UserContext(), actor, req.ClassID, req.ToInputs())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "schedule created", dto.FromModels(slots, nil))
}

// DELETE /api/a/schedules/:id
func (h *ScheduleController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.Planner.DeleteSlot(c.UserContext(), actor, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "schedule slot deleted", fiber.Map{"id": id})
}

// GET /api/{a|t|p|s}/schedules?class_id=
// Satu handler untuk semua role; cakupan kelas ditentukan VisibleClassIDs.
func (h *ScheduleController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	only, err := helper.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	ctx := c.UserContext()
	classIDs, err := service.VisibleClassIDs(ctx, h.DB, actor, only)
	if err != nil {
		return helper.FromError(c, err)
	}

	tx := h.DB.WithContext(ctx)
	rows, err := service.ListSlots(tx, actor.MosqueID, classIDs)
	if err != nil {
		return helper.FromError(c, err)
	}
	names, err := classService.ClassNames(tx, actor.MosqueID, classIDs)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows, names), nil)
}

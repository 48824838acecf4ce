package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"madrasa_backend/internals/features/school/announcements/dto"
	"madrasa_backend/internals/features/school/announcements/service"
	accountService "madrasa_backend/internals/features/users/accounts/service"
	helper "madrasa_backend/internals/helpers"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

type AnnouncementController struct {
	Svc *service.Service
}

func NewAnnouncementController(svc *service.Service) *AnnouncementController {
	return &AnnouncementController{Svc: svc}
}

// POST /api/a/announcements
func (h *AnnouncementController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateAnnouncementRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := h.Svc.Create(c.UserContext(), actor, req.Title, req.Content)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "announcement created", dto.FromModel(*m))
}

// DELETE /api/a/announcements/:id
func (h *AnnouncementController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.Svc.Delete(c.UserContext(), actor, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "announcement deleted", fiber.Map{"id": id})
}

// GET /api/{a|t|p|s}/announcements
func (h *AnnouncementController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := h.Svc.List(c.UserContext(), actor, p.Limit, p.Offset)
	if err != nil {
		return helper.FromError(c, err)
	}

	authorIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		authorIDs = append(authorIDs, r.AnnouncementAuthorID)
	}
	names, err := accountService.UserNames(h.Svc.DB.WithContext(c.UserContext()), actor.MosqueID, authorIDs)
	if err != nil {
		return helper.FromError(c, err)
	}

	out := make([]dto.AnnouncementResponse, 0, len(rows))
	for _, r := range rows {
		v := dto.FromModel(r)
		v.AuthorName = names[r.AnnouncementAuthorID]
		out = append(out, v)
	}
	pg := helper.BuildPagination(total, p, len(out))
	return helper.JsonList(c, "ok", out, &pg)
}

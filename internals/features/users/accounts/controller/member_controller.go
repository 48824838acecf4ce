package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/users/accounts/dto"
	"madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/features/users/accounts/service"
	helper "madrasa_backend/internals/helpers"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

// MemberController: admin mengelola akun teacher & parent.
// Handler dibuat per role supaya /teachers dan /parents berbagi kode.
type MemberController struct {
	DB      *gorm.DB
	Members *service.Members
}

func NewMemberController(db *gorm.DB, members *service.Members) *MemberController {
	return &MemberController{DB: db, Members: members}
}

func createdMessage(role string) string {
	return role + " created"
}

// decorate: teacher → classes, parent → children
func (h *MemberController) decorate(tx *gorm.DB, mosqueID uuid.UUID, role string, rows []model.UserModel) ([]dto.MemberResponse, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, u := range rows {
		ids = append(ids, u.UserID)
	}
	var rel map[uuid.UUID][]service.Related
	var err error
	switch role {
	case model.RoleTeacher:
		rel, err = service.ClassesByTeacher(tx, mosqueID, ids)
	case model.RoleParent:
		rel, err = service.ChildrenByParent(tx, mosqueID, ids)
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.MemberResponse, 0, len(rows))
	for _, u := range rows {
		v := dto.FromModel(u)
		refs := make([]dto.Ref, 0, len(rel[u.UserID]))
		for _, r := range rel[u.UserID] {
			refs = append(refs, dto.Ref{ID: r.ID, Name: r.Name})
		}
		if role == model.RoleTeacher {
			v.Classes = refs
		} else {
			v.Children = refs
		}
		out = append(out, v)
	}
	return out, nil
}

// POST /api/a/{teachers|parents}
func (h *MemberController) Create(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := helperAuth.ActorFromCtx(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		var req dto.CreateMemberRequest
		if err := helper.BindAndValidate(c, &req); err != nil {
			return helper.FromError(c, err)
		}
		u, err := h.Members.Create(c.UserContext(), actor, role, req.ToInput())
		if err != nil {
			return helper.FromError(c, err)
		}
		return helper.JsonCreated(c, createdMessage(role), dto.FromModel(*u))
	}
}

// GET /api/a/{teachers|parents}?q=&page=&per_page=
func (h *MemberController) List(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := helperAuth.ActorFromCtx(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		p := helper.ResolvePaging(c, 20, 200)

		tx := h.DB.WithContext(c.UserContext())
		q := tx.Model(&model.UserModel{}).
			Where("user_mosque_id = ? AND user_role = ?", actor.MosqueID, role)
		if s := strings.ToLower(strings.TrimSpace(c.Query("q"))); s != "" {
			like := "%" + s + "%"
			q = q.Where("(LOWER(user_first_name) LIKE ? OR LOWER(user_last_name) LIKE ? OR user_email LIKE ?)", like, like, like)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return helper.FromError(c, database.MapDBError(err))
		}
		var rows []model.UserModel
		if err := q.Order("user_last_name ASC, user_first_name ASC").
			Limit(p.Limit).Offset(p.Offset).
			Find(&rows).Error; err != nil {
			return helper.FromError(c, database.MapDBError(err))
		}
		out, err := h.decorate(tx, actor.MosqueID, role, rows)
		if err != nil {
			return helper.FromError(c, err)
		}
		pg := helper.BuildPagination(total, p, len(out))
		return helper.JsonList(c, "ok", out, &pg)
	}
}

// GET /api/a/{teachers|parents}/:id
func (h *MemberController) Get(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := helperAuth.ActorFromCtx(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		id, err := helper.ParseUUIDParam(c, "id")
		if err != nil {
			return helper.FromError(c, err)
		}
		tx := h.DB.WithContext(c.UserContext())
		u, err := service.FindTenantUser(tx, actor.MosqueID, id, role)
		if err != nil {
			return helper.FromError(c, err)
		}
		out, err := h.decorate(tx, actor.MosqueID, role, []model.UserModel{*u})
		if err != nil {
			return helper.FromError(c, err)
		}
		return helper.JsonOK(c, "ok", out[0])
	}
}

// DELETE /api/a/{teachers|parents}/:id
func (h *MemberController) Delete(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := helperAuth.ActorFromCtx(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		id, err := helper.ParseUUIDParam(c, "id")
		if err != nil {
			return helper.FromError(c, err)
		}
		if err := h.Members.Delete(c.UserContext(), actor, role, id); err != nil {
			return helper.FromError(c, err)
		}
		return helper.JsonDeleted(c, role+" deleted", fiber.Map{"id": id})
	}
}

// PUT /api/a/teachers/:id/classes
func (h *MemberController) AssignClasses(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignClassesRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	ids := uniqueIDs(req.ClassIDs)
	if err := h.Members.AssignClasses(c.UserContext(), actor, id, ids); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "classes assigned", fiber.Map{"teacher_id": id, "class_ids": ids})
}

// PUT /api/a/parents/:id/children
func (h *MemberController) AssignChildren(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignChildrenRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	n, err := h.Members.AssignChildren(c.UserContext(), actor, id, uniqueIDs(req.StudentIDs))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "children linked", fiber.Map{"parent_id": id, "count": n})
}

func uniqueIDs(in []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]uuid.UUID, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

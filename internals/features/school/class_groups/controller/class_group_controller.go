package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/school/class_groups/dto"
	"madrasa_backend/internals/features/school/class_groups/model"
	classService "madrasa_backend/internals/features/school/class_groups/service"
	studentModel "madrasa_backend/internals/features/school/students/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	accountService "madrasa_backend/internals/features/users/accounts/service"
	viewsService "madrasa_backend/internals/features/views/service"
	helper "madrasa_backend/internals/helpers"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

type ClassGroupController struct {
	DB    *gorm.DB
	Views viewsService.Invalidator
}

func NewClassGroupController(db *gorm.DB, views viewsService.Invalidator) *ClassGroupController {
	return &ClassGroupController{DB: db, Views: views}
}

func (h *ClassGroupController) invalidate(mosqueID uuid.UUID) {
	viewsService.NotifyAsync(h.Views, viewsService.TenantKeys(mosqueID,
		viewsService.ViewAdminClasses, viewsService.ViewAdminDashboard, viewsService.ViewTeacherAttendance)...)
}

// withCounts: isi student_count + teacher_name untuk list kelas.
func (h *ClassGroupController) withCounts(tx *gorm.DB, mosqueID uuid.UUID, rows []model.ClassGroupModel) ([]dto.ClassGroupResponse, error) {
	classIDs := make([]uuid.UUID, 0, len(rows))
	var teacherIDs []uuid.UUID
	for _, r := range rows {
		classIDs = append(classIDs, r.ClassGroupID)
		if r.ClassGroupTeacherID != nil {
			teacherIDs = append(teacherIDs, *r.ClassGroupTeacherID)
		}
	}
	counts, err := classService.StudentCounts(tx, mosqueID, classIDs)
	if err != nil {
		return nil, err
	}
	names, err := accountService.UserNames(tx, mosqueID, teacherIDs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClassGroupResponse, 0, len(rows))
	for _, r := range rows {
		v := dto.FromModel(r)
		v.StudentCount = counts[r.ClassGroupID]
		if r.ClassGroupTeacherID != nil {
			v.TeacherName = names[*r.ClassGroupTeacherID]
		}
		out = append(out, v)
	}
	return out, nil
}

func classStudents(tx *gorm.DB, mosqueID, classID uuid.UUID) ([]dto.ClassStudent, error) {
	var rows []studentModel.StudentModel
	if err := tx.Where("student_mosque_id = ? AND student_class_group_id = ?", mosqueID, classID).
		Order("student_last_name ASC, student_first_name ASC").
		Find(&rows).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	out := make([]dto.ClassStudent, 0, len(rows))
	for _, s := range rows {
		out = append(out, dto.ClassStudent{
			ID:        s.StudentID,
			FirstName: s.StudentFirstName,
			LastName:  s.StudentLastName,
			HasParent: s.StudentParentID != nil,
			HasUser:   s.StudentUserID != nil,
		})
	}
	return out, nil
}

// ===================== ADMIN =====================

// POST /api/a/classes
func (h *ClassGroupController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateClassGroupRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	tx := h.DB.WithContext(c.UserContext())
	if req.TeacherID != nil {
		if _, err := accountService.FindTenantUser(tx, actor.MosqueID, *req.TeacherID, userModel.RoleTeacher); err != nil {
			return helper.FromError(c, err)
		}
	}
	m := req.ToModel(actor.MosqueID)
	if err := tx.Create(m).Error; err != nil {
		return helper.FromError(c, database.MapDBError(err))
	}
	h.invalidate(actor.MosqueID)
	return helper.JsonCreated(c, "class created", dto.FromModel(*m))
}

// GET /api/a/classes
func (h *ClassGroupController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext())
	var rows []model.ClassGroupModel
	if err := tx.Where("class_group_mosque_id = ?", actor.MosqueID).
		Order("class_group_name ASC").Find(&rows).Error; err != nil {
		return helper.FromError(c, database.MapDBError(err))
	}
	out, err := h.withCounts(tx, actor.MosqueID, rows)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", out, nil)
}

// GET /api/a/classes/:id
func (h *ClassGroupController) Get(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext())
	cls, err := classService.FindTenantClass(tx, actor.MosqueID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	list, err := h.withCounts(tx, actor.MosqueID, []model.ClassGroupModel{*cls})
	if err != nil {
		return helper.FromError(c, err)
	}
	students, err := classStudents(tx, actor.MosqueID, cls.ClassGroupID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ClassGroupDetailResponse{ClassGroupResponse: list[0], Students: students})
}

// PATCH /api/a/classes/:id
func (h *ClassGroupController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateClassGroupRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	tx := h.DB.WithContext(c.UserContext())
	cls, err := classService.FindTenantClass(tx, actor.MosqueID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if ch := req.Changes(); len(ch) > 0 {
		if err := tx.Model(cls).Updates(ch).Error; err != nil {
			return helper.FromError(c, database.MapDBError(err))
		}
		if err := tx.Take(cls, "class_group_id = ?", cls.ClassGroupID).Error; err != nil {
			return helper.FromError(c, database.MapDBError(err))
		}
	}
	h.invalidate(actor.MosqueID)
	return helper.JsonUpdated(c, "class updated", dto.FromModel(*cls))
}

// DELETE /api/a/classes/:id — hanya kalau kelas kosong
func (h *ClassGroupController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	if err := classService.DeleteEmptyClass(c.UserContext(), h.DB, actor, id); err != nil {
		return helper.FromError(c, err)
	}
	h.invalidate(actor.MosqueID)
	return helper.JsonDeleted(c, "class deleted", fiber.Map{"id": id})
}

// PUT /api/a/classes/:id/teacher
func (h *ClassGroupController) AssignTeacher(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.FromError(c, apperr.Validation("invalid request body"))
	}

	cls, err := classService.AssignTeacher(c.UserContext(), h.DB, actor, id, req.TeacherID)
	if err != nil {
		return helper.FromError(c, err)
	}
	h.invalidate(actor.MosqueID)
	return helper.JsonUpdated(c, "teacher assigned", dto.FromModel(*cls))
}

// ===================== TEACHER =====================

// GET /api/t/classes
func (h *ClassGroupController) MyClasses(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := actor.Require(userModel.RoleTeacher); err != nil {
		return helper.FromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext())
	var rows []model.ClassGroupModel
	if err := tx.Where("class_group_mosque_id = ? AND class_group_teacher_id = ?", actor.MosqueID, actor.UserID).
		Order("class_group_name ASC").Find(&rows).Error; err != nil {
		return helper.FromError(c, database.MapDBError(err))
	}
	out, err := h.withCounts(tx, actor.MosqueID, rows)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", out, nil)
}

// GET /api/t/classes/:id/students
func (h *ClassGroupController) MyClassStudents(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext())
	cls, err := classService.ResolveTeacherClass(tx, actor, id, false)
	if err != nil {
		return helper.FromError(c, err)
	}
	students, err := classStudents(tx, actor.MosqueID, cls.ClassGroupID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", students, nil)
}

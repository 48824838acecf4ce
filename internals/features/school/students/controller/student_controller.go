package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	classService "madrasa_backend/internals/features/school/class_groups/service"
	"madrasa_backend/internals/features/school/students/dto"
	"madrasa_backend/internals/features/school/students/model"
	studentService "madrasa_backend/internals/features/school/students/service"
	accountService "madrasa_backend/internals/features/users/accounts/service"
	viewsService "madrasa_backend/internals/features/views/service"
	helper "madrasa_backend/internals/helpers"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

type StudentController struct {
	DB        *gorm.DB
	Views     viewsService.Invalidator
	PublicURL string
}

func NewStudentController(db *gorm.DB, views viewsService.Invalidator, publicURL string) *StudentController {
	return &StudentController{DB: db, Views: views, PublicURL: strings.TrimRight(publicURL, "/")}
}

func (h *StudentController) invalidate(mosqueID uuid.UUID) {
	viewsService.NotifyAsync(h.Views, viewsService.TenantKeys(mosqueID,
		viewsService.ViewAdminStudents, viewsService.ViewAdminClasses, viewsService.ViewAdminDashboard)...)
}

// decorate: isi nama kelas + nama parent. withCode → sertakan kode pendaftaran.
func (h *StudentController) decorate(tx *gorm.DB, mosqueID uuid.UUID, rows []model.StudentModel, withCode bool) ([]dto.StudentResponse, error) {
	classIDs := make([]uuid.UUID, 0, len(rows))
	var parentIDs []uuid.UUID
	for _, s := range rows {
		classIDs = append(classIDs, s.StudentClassGroupID)
		if s.StudentParentID != nil {
			parentIDs = append(parentIDs, *s.StudentParentID)
		}
	}
	classNames, err := classService.ClassNames(tx, mosqueID, classIDs)
	if err != nil {
		return nil, err
	}
	parentNames, err := accountService.UserNames(tx, mosqueID, parentIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StudentResponse, 0, len(rows))
	for _, s := range rows {
		v := dto.FromModel(s)
		v.ClassName = classNames[s.StudentClassGroupID]
		if s.StudentParentID != nil {
			v.ParentName = parentNames[*s.StudentParentID]
		}
		if withCode && s.StudentUserID == nil {
			v.EnrollmentCode = s.EnrollmentCode()
		}
		out = append(out, v)
	}
	return out, nil
}

// ===================== ADMIN =====================

// POST /api/a/students
func (h *StudentController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateStudentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	m := req.ToModel(actor.MosqueID)
	if err := studentService.CreateStudent(c.UserContext(), h.DB, actor, m); err != nil {
		return helper.FromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext())
	out, err := h.decorate(tx, actor.MosqueID, []model.StudentModel{*m}, true)
	if err != nil {
		return helper.FromError(c, err)
	}
	h.invalidate(actor.MosqueID)
	return helper.JsonCreated(c, "student created", out[0])
}

// GET /api/a/students?class_id=&q=&page=&per_page=
func (h *StudentController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	classID, err := helper.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	tx := h.DB.WithContext(c.UserContext())
	q := tx.Model(&model.StudentModel{}).Where("student_mosque_id = ?", actor.MosqueID)
	if classID != nil {
		q = q.Where("student_class_group_id = ?", *classID)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(student_first_name) LIKE ? OR LOWER(student_last_name) LIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, database.MapDBError(err))
	}
	p := helper.ResolvePaging(c, 20, 200)
	var rows []model.StudentModel
	if err := q.Order("student_last_name ASC, student_first_name ASC").
		Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.FromError(c, database.MapDBError(err))
	}
	out, err := h.decorate(tx, actor.MosqueID, rows, true)
	if err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(out))
	return helper.JsonList(c, "ok", out, &pg)
}

// GET /api/a/students/:id
func (h *StudentController) Get(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext())
	st, err := studentService.FindTenantStudent(tx, actor.MosqueID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := h.decorate(tx, actor.MosqueID, []model.StudentModel{*st}, true)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out[0])
}

// PATCH /api/a/students/:id
func (h *StudentController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateStudentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	tx := h.DB.WithContext(c.UserContext())
	st, err := studentService.FindTenantStudent(tx, actor.MosqueID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if req.ClassGroupID != nil {
		if _, err := classService.FindTenantClass(tx, actor.MosqueID, *req.ClassGroupID); err != nil {
			return helper.FromError(c, err)
		}
	}
	if ch := req.Changes(); len(ch) > 0 {
		if err := tx.Model(st).Updates(ch).Error; err != nil {
			return helper.FromError(c, database.MapDBError(err))
		}
		if st, err = studentService.FindTenantStudent(tx, actor.MosqueID, id); err != nil {
			return helper.FromError(c, err)
		}
	}
	out, err := h.decorate(tx, actor.MosqueID, []model.StudentModel{*st}, true)
	if err != nil {
		return helper.FromError(c, err)
	}
	h.invalidate(actor.MosqueID)
	return helper.JsonUpdated(c, "student updated", out[0])
}

// DELETE /api/a/students/:id (soft delete, riwayat presensi/nilai tetap)
func (h *StudentController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext())
	st, err := studentService.FindTenantStudent(tx, actor.MosqueID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tx.Delete(st).Error; err != nil {
		return helper.FromError(c, database.MapDBError(err))
	}
	h.invalidate(actor.MosqueID)
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"id": id})
}

// PUT /api/a/students/:id/parent
func (h *StudentController) AssignParent(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignParentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.FromError(c, apperr.Validation("invalid request body"))
	}

	st, err := studentService.AssignParent(c.UserContext(), h.DB, actor, id, req.ParentID)
	if err != nil {
		return helper.FromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext())
	out, err := h.decorate(tx, actor.MosqueID, []model.StudentModel{*st}, true)
	if err != nil {
		return helper.FromError(c, err)
	}
	h.invalidate(actor.MosqueID)
	viewsService.NotifyAsync(h.Views, viewsService.TenantKeys(actor.MosqueID, viewsService.ViewParentPayments)...)
	return helper.JsonUpdated(c, "parent assigned", out[0])
}

// GET /api/a/students/:id/enrollment-qr → PNG berisi link pendaftaran akun murid
func (h *StudentController) EnrollmentQR(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := studentService.FindTenantStudent(h.DB.WithContext(c.UserContext()), actor.MosqueID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if st.StudentUserID != nil {
		return helper.FromError(c, apperr.Conflict("this student already has an account"))
	}

	url := h.PublicURL + "/register/student?code=" + st.EnrollmentCode()
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return helper.FromError(c, apperr.Fatal(err))
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).Send(png)
}

// ===================== PARENT =====================

// GET /api/p/children
func (h *StudentController) MyChildren(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	kids, err := studentService.ChildrenOf(c.UserContext(), h.DB, actor)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := h.decorate(h.DB.WithContext(c.UserContext()), actor.MosqueID, kids, false)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", out, nil)
}

// ===================== STUDENT =====================

// GET /api/s/me
func (h *StudentController) Me(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := studentService.LinkedStudent(c.UserContext(), h.DB, actor)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := h.decorate(h.DB.WithContext(c.UserContext()), actor.MosqueID, []model.StudentModel{*st}, false)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out[0])
}

package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	classService "madrasa_backend/internals/features/school/class_groups/service"
	"madrasa_backend/internals/features/school/grades/dto"
	"madrasa_backend/internals/features/school/grades/service"
	studentService "madrasa_backend/internals/features/school/students/service"
	helper "madrasa_backend/internals/helpers"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

type GradeController struct {
	DB       *gorm.DB
	Recorder *service.Recorder
}

func NewGradeController(db *gorm.DB, rec *service.Recorder) *GradeController {
	return &GradeController{DB: db, Recorder: rec}
}

// POST /api/t/grades
func (h *GradeController) Record(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RecordGradesRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	res, err := h.Recorder.RecordGrades(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "grades recorded", dto.FromResult(res))
}

// GET /api/t/grades?class_id=&subject=
func (h *GradeController) TeacherHistory(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	classID, err := helper.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	tx := h.DB.WithContext(c.UserContext())
	var classIDs []uuid.UUID
	if classID != nil {
		cls, err := classService.ResolveTeacherClass(tx, actor, *classID, false)
		if err != nil {
			return helper.FromError(c, err)
		}
		classIDs = []uuid.UUID{cls.ClassGroupID}
	} else if classIDs, err = classService.TeacherClassIDs(tx, actor); err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ResolvePaging(c, 20, 100)
	if len(classIDs) == 0 {
		pg := helper.BuildPagination(0, p, 0)
		return helper.JsonList(c, "ok", []dto.GradeSessionResponse{}, &pg)
	}
	rows, total, err := service.ListSessions(c.UserContext(), h.DB, service.HistoryFilter{
		MosqueID: actor.MosqueID,
		ClassIDs: classIDs,
		Subject:  strings.TrimSpace(c.Query("subject")),
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromSessionViews(rows), &pg)
}

// GET /api/p/grades?student_id=&subject=
func (h *GradeController) ParentGrades(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	only, err := helper.ParseUUIDQuery(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	ids, err := studentService.ChildIDs(c.UserContext(), h.DB, actor, only)
	if err != nil {
		return helper.FromError(c, err)
	}
	return h.records(c, actor, ids)
}

// GET /api/s/grades?subject=
func (h *GradeController) StudentGrades(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := studentService.LinkedStudent(c.UserContext(), h.DB, actor)
	if err != nil {
		return helper.FromError(c, err)
	}
	return h.records(c, actor, []uuid.UUID{st.StudentID})
}

func (h *GradeController) records(c *fiber.Ctx, actor helperAuth.Actor, ids []uuid.UUID) error {
	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := service.ListRecords(c.UserContext(), h.DB, service.HistoryFilter{
		MosqueID:   actor.MosqueID,
		StudentIDs: ids,
		Subject:    strings.TrimSpace(c.Query("subject")),
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromRecordViews(rows), &pg)
}

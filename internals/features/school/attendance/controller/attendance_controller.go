package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	mosqueService "madrasa_backend/internals/features/mosques/service"
	"madrasa_backend/internals/features/school/attendance/dto"
	"madrasa_backend/internals/features/school/attendance/service"
	classService "madrasa_backend/internals/features/school/class_groups/service"
	studentService "madrasa_backend/internals/features/school/students/service"
	helper "madrasa_backend/internals/helpers"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
	"madrasa_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	DB       *gorm.DB
	Recorder *service.Recorder
}

func NewAttendanceController(db *gorm.DB, rec *service.Recorder) *AttendanceController {
	return &AttendanceController{DB: db, Recorder: rec}
}

// ===================== TEACHER =====================

// POST /api/t/attendance
func (h *AttendanceController) Record(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.RecordAttendanceRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	res, err := h.Recorder.RecordAttendance(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "attendance recorded", dto.FromResult(res))
}

// GET /api/t/attendance?class_id=&from=&to=&page=&per_page=
func (h *AttendanceController) TeacherHistory(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	classID, err := helper.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	var classIDs []uuid.UUID
	if classID != nil {
		cls, err := classService.ResolveTeacherClass(h.DB.WithContext(c.UserContext()), actor, *classID, false)
		if err != nil {
			return helper.FromError(c, err)
		}
		classIDs = []uuid.UUID{cls.ClassGroupID}
	} else {
		classIDs, err = classService.TeacherClassIDs(h.DB.WithContext(c.UserContext()), actor)
		if err != nil {
			return helper.FromError(c, err)
		}
	}

	p := helper.ResolvePaging(c, 20, 100)
	if len(classIDs) == 0 {
		pg := helper.BuildPagination(0, p, 0)
		return helper.JsonList(c, "ok", []dto.AttendanceSessionResponse{}, &pg)
	}

	f, err := h.filter(c, actor)
	if err != nil {
		return helper.FromError(c, err)
	}
	f.ClassIDs = classIDs
	f.Limit, f.Offset = p.Limit, p.Offset

	rows, total, err := service.ListSessions(c.UserContext(), h.DB, f)
	if err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromSessionViews(rows), &pg)
}

// ===================== PARENT =====================

// GET /api/p/presences?student_id=&from=&to=
func (h *AttendanceController) ParentPresences(c *fiber.Ctx) error {
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
	return h.presences(c, actor, ids)
}

// ===================== STUDENT =====================

// GET /api/s/presences?from=&to=
func (h *AttendanceController) StudentPresences(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := studentService.LinkedStudent(c.UserContext(), h.DB, actor)
	if err != nil {
		return helper.FromError(c, err)
	}
	return h.presences(c, actor, []uuid.UUID{st.StudentID})
}

func (h *AttendanceController) presences(c *fiber.Ctx, actor helperAuth.Actor, studentIDs []uuid.UUID) error {
	f, err := h.filter(c, actor)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, 50, 200)
	f.StudentIDs = studentIDs
	f.Limit, f.Offset = p.Limit, p.Offset

	rows, total, err := service.ListRecords(c.UserContext(), h.DB, f)
	if err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromRecordViews(rows), &pg)
}

// filter: tenant + rentang tanggal (timezone mosque).
func (h *AttendanceController) filter(c *fiber.Ctx, actor helperAuth.Actor) (service.HistoryFilter, error) {
	f := service.HistoryFilter{MosqueID: actor.MosqueID}
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		return f, nil
	}
	loc, err := mosqueService.TenantLocation(c.UserContext(), h.DB, actor.MosqueID, h.Recorder.DefaultTimezone)
	if err != nil {
		return f, err
	}
	f.From, f.To, err = dbtime.DayRange(from, to, loc)
	if err != nil {
		return f, apperr.Validation(err.Error())
	}
	return f, nil
}

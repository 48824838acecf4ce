package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	mosqueService "madrasa_backend/internals/features/mosques/service"
	"madrasa_backend/internals/features/school/attendance/model"
	classService "madrasa_backend/internals/features/school/class_groups/service"
	studentService "madrasa_backend/internals/features/school/students/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
	"madrasa_backend/internals/helpers/dbtime"
)

type AttendanceMark struct {
	StudentID uuid.UUID
	Status    model.AttendanceStatus
	Comment   *string
}

type RecordAttendanceInput struct {
	ClassID        uuid.UUID
	Date           string
	SessionComment *string
	Records        []AttendanceMark
}

type AttendanceResult struct {
	Session model.AttendanceSessionModel  `json:"session"`
	Records []model.AttendanceRecordModel `json:"records"`
	Created bool                          `json:"created"`
}

// Recorder menulis roll-call: satu session per (kelas, hari), record lama diganti total.
type Recorder struct {
	DB              *gorm.DB
	Retry           database.RetryPolicy
	Views           viewsService.Invalidator
	DefaultTimezone string
}

func NewRecorder(db *gorm.DB, retry database.RetryPolicy, views viewsService.Invalidator, defaultTZ string) *Recorder {
	return &Recorder{DB: db, Retry: retry, Views: views, DefaultTimezone: defaultTZ}
}

func (r *Recorder) RecordAttendance(ctx context.Context, actor helperAuth.Actor, in RecordAttendanceInput) (*AttendanceResult, error) {
	if err := actor.Require(userModel.RoleTeacher); err != nil {
		return nil, err
	}
	if in.ClassID == uuid.Nil {
		return nil, apperr.Validation("class_id is required")
	}

	ids := make([]uuid.UUID, 0, len(in.Records))
	marks := make([]AttendanceMark, 0, len(in.Records))
	for _, m := range in.Records {
		st, ok := model.ParseAttendanceStatus(string(m.Status))
		if !ok {
			return nil, apperr.Validationf("invalid attendance status %q", m.Status)
		}
		if m.StudentID == uuid.Nil {
			return nil, apperr.Validation("student_id is required")
		}
		m.Status = st
		marks = append(marks, m)
		ids = append(ids, m.StudentID)
	}
	if err := studentService.DistinctIDs(ids); err != nil {
		return nil, err
	}

	loc, err := mosqueService.TenantLocation(ctx, r.DB, actor.MosqueID, r.DefaultTimezone)
	if err != nil {
		return nil, err
	}
	dayKey, err := dbtime.DayKey(in.Date, loc)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	var out *AttendanceResult
	err = r.Retry.Transaction(ctx, r.DB, "record attendance", func(tx *gorm.DB) error {
		out = nil

		// 1) kunci baris kelas + cek kepemilikan (sekaligus serialisasi per kelas)
		cls, err := classService.ResolveTeacherClass(tx, actor, in.ClassID, true)
		if err != nil {
			return err
		}
		if err := studentService.EnsureClassMembers(tx, actor.MosqueID, cls.ClassGroupID, ids); err != nil {
			return err
		}
		// 2) kunci (kelas, hari) di Postgres; sqlite sudah single-writer
		if database.IsPostgres(tx) {
			lockKey := cls.ClassGroupID.String() + "|" + dbtime.FormatDay(dayKey)
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lockKey).Error; err != nil {
				return database.MapDBError(err)
			}
		}

		// 3) find-or-create session
		var sess model.AttendanceSessionModel
		created := false
		err = tx.Where("attendance_session_mosque_id = ? AND attendance_session_class_group_id = ? AND attendance_session_date = ?",
			actor.MosqueID, cls.ClassGroupID, dayKey).
			Take(&sess).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sess = model.AttendanceSessionModel{
				AttendanceSessionMosqueID:     actor.MosqueID,
				AttendanceSessionClassGroupID: cls.ClassGroupID,
				AttendanceSessionTeacherID:    actor.UserID,
				AttendanceSessionDate:         dayKey,
				AttendanceSessionComment:      in.SessionComment,
			}
			if err := tx.Create(&sess).Error; err != nil {
				return database.MapDBError(pkgerrors.Wrap(err, "create attendance session"))
			}
			created = true
		case err != nil:
			return database.MapDBError(err)
		default:
			// teacher + tanggal immutable; hanya komentar yang ditimpa
			if err := tx.Model(&sess).Update("attendance_session_comment", in.SessionComment).Error; err != nil {
				return database.MapDBError(pkgerrors.Wrap(err, "update attendance session"))
			}
			sess.AttendanceSessionComment = in.SessionComment
		}

		// 4) hapus semua record lama session ini
		if err := tx.Where("attendance_record_mosque_id = ? AND attendance_record_class_group_id = ? AND attendance_record_session_id = ?",
			actor.MosqueID, cls.ClassGroupID, sess.AttendanceSessionID).
			Delete(&model.AttendanceRecordModel{}).Error; err != nil {
			return database.MapDBError(pkgerrors.Wrap(err, "delete attendance records"))
		}

		// 5) insert record baru
		records := make([]model.AttendanceRecordModel, 0, len(marks))
		for _, m := range marks {
			records = append(records, model.AttendanceRecordModel{
				AttendanceRecordMosqueID:     actor.MosqueID,
				AttendanceRecordSessionID:    sess.AttendanceSessionID,
				AttendanceRecordClassGroupID: cls.ClassGroupID,
				AttendanceRecordTeacherID:    actor.UserID,
				AttendanceRecordStudentID:    m.StudentID,
				AttendanceRecordDate:         dayKey,
				AttendanceRecordStatus:       m.Status,
				AttendanceRecordComment:      m.Comment,
			})
		}
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return database.MapDBError(pkgerrors.Wrap(err, "insert attendance records"))
			}
		}

		out = &AttendanceResult{Session: sess, Records: records, Created: created}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ATTENDANCE] session=%s class=%s date=%s records=%d created=%v",
		out.Session.AttendanceSessionID, in.ClassID, dbtime.FormatDay(dayKey), len(out.Records), out.Created)

	viewsService.NotifyAsync(r.Views, viewsService.TenantKeys(actor.MosqueID,
		viewsService.ViewTeacherAttendance,
		viewsService.ViewParentPresences,
		viewsService.ViewStudentPresences,
		viewsService.ViewAdminDashboard,
	)...)
	return out, nil
}

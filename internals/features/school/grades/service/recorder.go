package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	classService "madrasa_backend/internals/features/school/class_groups/service"
	"madrasa_backend/internals/features/school/grades/model"
	studentService "madrasa_backend/internals/features/school/students/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

const DefaultMaxValue = 20

type GradeEntry struct {
	StudentID uuid.UUID
	Value     float64
	Comment   *string
}

// Entry tanpa nilai sudah dibuang oleh caller (DTO), tidak pernah disimpan sebagai null.
type RecordGradesInput struct {
	ClassID        uuid.UUID
	Subject        string
	MaxValue       *float64
	SessionComment *string
	Entries        []GradeEntry
}

type GradesResult struct {
	Session model.GradeSessionModel  `json:"session"`
	Records []model.GradeRecordModel `json:"records"`
}

type Recorder struct {
	DB    *gorm.DB
	Retry database.RetryPolicy
	Views viewsService.Invalidator
}

func NewRecorder(db *gorm.DB, retry database.RetryPolicy, views viewsService.Invalidator) *Recorder {
	return &Recorder{DB: db, Retry: retry, Views: views}
}

// RecordGrades: selalu membuat GradeSession baru + satu record per entry, atomik.
func (r *Recorder) RecordGrades(ctx context.Context, actor helperAuth.Actor, in RecordGradesInput) (*GradesResult, error) {
	if err := actor.Require(userModel.RoleTeacher); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(in.Subject)
	switch {
	case in.ClassID == uuid.Nil:
		return nil, apperr.Validation("class_id is required")
	case subject == "":
		return nil, apperr.Validation("subject is required")
	case len(in.Entries) == 0:
		return nil, apperr.Validation("at least one grade is required")
	}
	maxValue := float64(DefaultMaxValue)
	if in.MaxValue != nil {
		maxValue = *in.MaxValue
	}
	if maxValue <= 0 {
		return nil, apperr.Validation("max_value must be greater than 0")
	}

	ids := make([]uuid.UUID, 0, len(in.Entries))
	for _, e := range in.Entries {
		if e.StudentID == uuid.Nil {
			return nil, apperr.Validation("student_id is required")
		}
		if e.Value < 0 || e.Value > maxValue {
			return nil, apperr.Validationf("grade for student %s must be between 0 and %g", e.StudentID, maxValue)
		}
		ids = append(ids, e.StudentID)
	}
	if err := studentService.DistinctIDs(ids); err != nil {
		return nil, err
	}

	var out *GradesResult
	err := r.Retry.Transaction(ctx, r.DB, "record grades", func(tx *gorm.DB) error {
		out = nil

		cls, err := classService.ResolveTeacherClass(tx, actor, in.ClassID, false)
		if err != nil {
			return err
		}
		// membership dicek sebelum write apa pun
		if err := studentService.EnsureClassMembers(tx, actor.MosqueID, cls.ClassGroupID, ids); err != nil {
			return err
		}

		sess := model.GradeSessionModel{
			GradeSessionMosqueID:     actor.MosqueID,
			GradeSessionClassGroupID: cls.ClassGroupID,
			GradeSessionTeacherID:    actor.UserID,
			GradeSessionSubject:      subject,
			GradeSessionMaxValue:     maxValue,
			GradeSessionComment:      in.SessionComment,
		}
		if err := tx.Create(&sess).Error; err != nil {
			return database.MapDBError(pkgerrors.Wrap(err, "create grade session"))
		}

		records := make([]model.GradeRecordModel, 0, len(in.Entries))
		for _, e := range in.Entries {
			records = append(records, model.GradeRecordModel{
				GradeRecordMosqueID:     actor.MosqueID,
				GradeRecordSessionID:    sess.GradeSessionID,
				GradeRecordClassGroupID: cls.ClassGroupID,
				GradeRecordTeacherID:    actor.UserID,
				GradeRecordStudentID:    e.StudentID,
				GradeRecordSubject:      subject,
				GradeRecordValue:        e.Value,
				GradeRecordMaxValue:     maxValue,
				GradeRecordComment:      e.Comment,
			})
		}
		if err := tx.Create(&records).Error; err != nil {
			return database.MapDBError(pkgerrors.Wrap(err, "insert grade records"))
		}

		out = &GradesResult{Session: sess, Records: records}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GRADES] session=%s class=%s subject=%q records=%d",
		out.Session.GradeSessionID, in.ClassID, subject, len(out.Records))

	viewsService.NotifyAsync(r.Views, viewsService.TenantKeys(actor.MosqueID,
		viewsService.ViewTeacherGrades,
		viewsService.ViewParentGrades,
		viewsService.ViewStudentGrades,
		viewsService.ViewAdminDashboard,
	)...)
	return out, nil
}

package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/school/grades/model"
	studentService "madrasa_backend/internals/features/school/students/service"
)

type HistoryFilter struct {
	MosqueID   uuid.UUID
	ClassIDs   []uuid.UUID
	StudentIDs []uuid.UUID
	Subject    string
	Limit      int
	Offset     int
}

type RecordView struct {
	model.GradeRecordModel
	StudentName string `json:"student_name"`
}

type SessionView struct {
	model.GradeSessionModel
	Records []RecordView `json:"records"`
}

// ListSessions: riwayat sesi nilai (terbaru dulu) untuk kelas-kelas tertentu.
func ListSessions(ctx context.Context, db *gorm.DB, f HistoryFilter) ([]SessionView, int64, error) {
	q := db.WithContext(ctx).Model(&model.GradeSessionModel{}).
		Where("grade_session_mosque_id = ?", f.MosqueID)
	if len(f.ClassIDs) > 0 {
		q = q.Where("grade_session_class_group_id IN ?", f.ClassIDs)
	}
	if f.Subject != "" {
		q = q.Where("LOWER(grade_session_subject) = LOWER(?)", f.Subject)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}
	var sessions []model.GradeSessionModel
	q = q.Order("grade_session_created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Preload("Records", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("grade_record_mosque_id = ?", f.MosqueID)
	}).Find(&sessions).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}

	var ids []uuid.UUID
	for _, s := range sessions {
		for _, r := range s.Records {
			ids = append(ids, r.GradeRecordStudentID)
		}
	}
	names, err := studentService.StudentNames(ctx, db, f.MosqueID, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		v := SessionView{GradeSessionModel: s, Records: make([]RecordView, 0, len(s.Records))}
		for _, r := range s.Records {
			v.Records = append(v.Records, RecordView{GradeRecordModel: r, StudentName: names[r.GradeRecordStudentID]})
		}
		v.GradeSessionModel.Records = nil
		out = append(out, v)
	}
	return out, total, nil
}

// ListRecords: nilai per murid (portal parent / student).
func ListRecords(ctx context.Context, db *gorm.DB, f HistoryFilter) ([]RecordView, int64, error) {
	if len(f.StudentIDs) == 0 {
		return []RecordView{}, 0, nil
	}
	q := db.WithContext(ctx).Model(&model.GradeRecordModel{}).
		Where("grade_record_mosque_id = ? AND grade_record_student_id IN ?", f.MosqueID, f.StudentIDs)
	if f.Subject != "" {
		q = q.Where("LOWER(grade_record_subject) = LOWER(?)", f.Subject)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}
	var rows []model.GradeRecordModel
	q = q.Order("grade_record_created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}
	names, err := studentService.StudentNames(ctx, db, f.MosqueID, f.StudentIDs)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RecordView, 0, len(rows))
	for _, r := range rows {
		out = append(out, RecordView{GradeRecordModel: r, StudentName: names[r.GradeRecordStudentID]})
	}
	return out, total, nil
}

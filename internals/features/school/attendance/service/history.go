package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/school/attendance/model"
	studentService "madrasa_backend/internals/features/school/students/service"
)

// HistoryFilter: semua field opsional kecuali MosqueID. From/To berupa day key (inklusif).
type HistoryFilter struct {
	MosqueID   uuid.UUID
	TeacherID  *uuid.UUID
	ClassIDs   []uuid.UUID
	StudentIDs []uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type RecordView struct {
	model.AttendanceRecordModel
	StudentName string `json:"student_name"`
}

type SessionView struct {
	model.AttendanceSessionModel
	Records []RecordView `json:"records"`
}

func scopeDates(q *gorm.DB, col string, f HistoryFilter) *gorm.DB {
	if f.From != nil {
		q = q.Where(col+" >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where(col+" <= ?", *f.To)
	}
	return q
}

// ListSessions: riwayat roll-call (terbaru dulu) beserta record + nama murid.
func ListSessions(ctx context.Context, db *gorm.DB, f HistoryFilter) ([]SessionView, int64, error) {
	q := db.WithContext(ctx).Model(&model.AttendanceSessionModel{}).
		Where("attendance_session_mosque_id = ?", f.MosqueID)
	if f.TeacherID != nil {
		q = q.Where("attendance_session_teacher_id = ?", *f.TeacherID)
	}
	if len(f.ClassIDs) > 0 {
		q = q.Where("attendance_session_class_group_id IN ?", f.ClassIDs)
	}
	q = scopeDates(q, "attendance_session_date", f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}

	var sessions []model.AttendanceSessionModel
	q = q.Order("attendance_session_date DESC").Order("attendance_session_created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Preload("Records", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("attendance_record_mosque_id = ?", f.MosqueID)
	}).Find(&sessions).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}

	var ids []uuid.UUID
	for _, s := range sessions {
		for _, r := range s.Records {
			ids = append(ids, r.AttendanceRecordStudentID)
		}
	}
	names, err := studentService.StudentNames(ctx, db, f.MosqueID, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		v := SessionView{AttendanceSessionModel: s, Records: make([]RecordView, 0, len(s.Records))}
		for _, r := range s.Records {
			v.Records = append(v.Records, RecordView{AttendanceRecordModel: r, StudentName: names[r.AttendanceRecordStudentID]})
		}
		v.AttendanceSessionModel.Records = nil
		out = append(out, v)
	}
	return out, total, nil
}

// ListRecords: presensi per murid (portal parent / student), terbaru dulu.
func ListRecords(ctx context.Context, db *gorm.DB, f HistoryFilter) ([]RecordView, int64, error) {
	if len(f.StudentIDs) == 0 {
		return []RecordView{}, 0, nil
	}
	q := db.WithContext(ctx).Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_mosque_id = ? AND attendance_record_student_id IN ?", f.MosqueID, f.StudentIDs)
	if len(f.ClassIDs) > 0 {
		q = q.Where("attendance_record_class_group_id IN ?", f.ClassIDs)
	}
	q = scopeDates(q, "attendance_record_date", f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}
	var rows []model.AttendanceRecordModel
	q = q.Order("attendance_record_date DESC")
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
		out = append(out, RecordView{AttendanceRecordModel: r, StudentName: names[r.AttendanceRecordStudentID]})
	}
	return out, total, nil
}

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   ENUM: status kehadiran
========================================================= */

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch AttendanceStatus(strings.ToLower(strings.TrimSpace(s))) {
	case AttendancePresent:
		return AttendancePresent, true
	case AttendanceAbsent:
		return AttendanceAbsent, true
	case AttendanceLate:
		return AttendanceLate, true
	case AttendanceExcused:
		return AttendanceExcused, true
	}
	return "", false
}

/* =========================================================
   attendance_sessions: satu roll-call per (kelas, hari)
========================================================= */

type AttendanceSessionModel struct {
	AttendanceSessionID           uuid.UUID `gorm:"column:attendance_session_id;type:uuid;primaryKey" json:"attendance_session_id"`
	AttendanceSessionMosqueID     uuid.UUID `gorm:"column:attendance_session_mosque_id;type:uuid;not null;index" json:"attendance_session_mosque_id"`
	AttendanceSessionClassGroupID uuid.UUID `gorm:"column:attendance_session_class_group_id;type:uuid;not null;uniqueIndex:uq_attendance_session_class_date,priority:1" json:"attendance_session_class_group_id"`
	AttendanceSessionTeacherID    uuid.UUID `gorm:"column:attendance_session_teacher_id;type:uuid;not null" json:"attendance_session_teacher_id"`
	// disimpan sebagai tanggal kalender (tanpa jam), sudah dinormalisasi ke timezone mosque
	AttendanceSessionDate      time.Time `gorm:"column:attendance_session_date;type:date;not null;uniqueIndex:uq_attendance_session_class_date,priority:2" json:"attendance_session_date"`
	AttendanceSessionComment   *string   `gorm:"column:attendance_session_comment;type:text" json:"attendance_session_comment"`
	AttendanceSessionCreatedAt time.Time `gorm:"column:attendance_session_created_at;autoCreateTime" json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt time.Time `gorm:"column:attendance_session_updated_at;autoUpdateTime" json:"attendance_session_updated_at"`

	Records []AttendanceRecordModel `gorm:"foreignKey:AttendanceRecordSessionID;references:AttendanceSessionID" json:"records,omitempty"`
}

func (AttendanceSessionModel) TableName() string {
	return "attendance_sessions"
}

func (m *AttendanceSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceSessionID == uuid.Nil {
		m.AttendanceSessionID = uuid.New()
	}
	return nil
}

/* =========================================================
   attendance_records: satu baris per murid per session
========================================================= */

type AttendanceRecordModel struct {
	AttendanceRecordID           uuid.UUID        `gorm:"column:attendance_record_id;type:uuid;primaryKey" json:"attendance_record_id"`
	AttendanceRecordMosqueID     uuid.UUID        `gorm:"column:attendance_record_mosque_id;type:uuid;not null;index" json:"attendance_record_mosque_id"`
	AttendanceRecordSessionID    uuid.UUID        `gorm:"column:attendance_record_session_id;type:uuid;not null;uniqueIndex:uq_attendance_record_session_student,priority:1" json:"attendance_record_session_id"`
	AttendanceRecordClassGroupID uuid.UUID        `gorm:"column:attendance_record_class_group_id;type:uuid;not null;index" json:"attendance_record_class_group_id"`
	AttendanceRecordTeacherID    uuid.UUID        `gorm:"column:attendance_record_teacher_id;type:uuid;not null" json:"attendance_record_teacher_id"`
	AttendanceRecordStudentID    uuid.UUID        `gorm:"column:attendance_record_student_id;type:uuid;not null;index;uniqueIndex:uq_attendance_record_session_student,priority:2" json:"attendance_record_student_id"`
	AttendanceRecordDate         time.Time        `gorm:"column:attendance_record_date;type:date;not null" json:"attendance_record_date"`
	AttendanceRecordStatus       AttendanceStatus `gorm:"column:attendance_record_status;type:varchar(16);not null" json:"attendance_record_status"`
	AttendanceRecordComment      *string          `gorm:"column:attendance_record_comment;type:text" json:"attendance_record_comment"`
	AttendanceRecordCreatedAt    time.Time        `gorm:"column:attendance_record_created_at;autoCreateTime" json:"attendance_record_created_at"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}

func (m *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceRecordID == uuid.Nil {
		m.AttendanceRecordID = uuid.New()
	}
	return nil
}

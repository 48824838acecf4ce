package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GradeSessionModel: satu sesi penilaian. Tidak pernah di-dedup,
// tiap submit = sesi baru.
type GradeSessionModel struct {
	GradeSessionID           uuid.UUID `gorm:"column:grade_session_id;type:uuid;primaryKey" json:"grade_session_id"`
	GradeSessionMosqueID     uuid.UUID `gorm:"column:grade_session_mosque_id;type:uuid;not null;index" json:"grade_session_mosque_id"`
	GradeSessionClassGroupID uuid.UUID `gorm:"column:grade_session_class_group_id;type:uuid;not null;index" json:"grade_session_class_group_id"`
	GradeSessionTeacherID    uuid.UUID `gorm:"column:grade_session_teacher_id;type:uuid;not null" json:"grade_session_teacher_id"`
	GradeSessionSubject      string    `gorm:"column:grade_session_subject;type:varchar(120);not null" json:"grade_session_subject"`
	GradeSessionMaxValue     float64   `gorm:"column:grade_session_max_value;type:numeric(8,2);not null" json:"grade_session_max_value"`
	GradeSessionComment      *string   `gorm:"column:grade_session_comment;type:text" json:"grade_session_comment"`
	GradeSessionCreatedAt    time.Time `gorm:"column:grade_session_created_at;autoCreateTime;index" json:"grade_session_created_at"`

	Records []GradeRecordModel `gorm:"foreignKey:GradeRecordSessionID;references:GradeSessionID" json:"records,omitempty"`
}

func (GradeSessionModel) TableName() string {
	return "grade_sessions"
}

func (m *GradeSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.GradeSessionID == uuid.Nil {
		m.GradeSessionID = uuid.New()
	}
	return nil
}

// GradeRecordModel: immutable setelah dibuat. Subject + max value diwarisi dari session.
type GradeRecordModel struct {
	GradeRecordID           uuid.UUID `gorm:"column:grade_record_id;type:uuid;primaryKey" json:"grade_record_id"`
	GradeRecordMosqueID     uuid.UUID `gorm:"column:grade_record_mosque_id;type:uuid;not null;index" json:"grade_record_mosque_id"`
	GradeRecordSessionID    uuid.UUID `gorm:"column:grade_record_session_id;type:uuid;not null;index" json:"grade_record_session_id"`
	GradeRecordClassGroupID uuid.UUID `gorm:"column:grade_record_class_group_id;type:uuid;not null" json:"grade_record_class_group_id"`
	GradeRecordTeacherID    uuid.UUID `gorm:"column:grade_record_teacher_id;type:uuid;not null" json:"grade_record_teacher_id"`
	GradeRecordStudentID    uuid.UUID `gorm:"column:grade_record_student_id;type:uuid;not null;index" json:"grade_record_student_id"`
	GradeRecordSubject      string    `gorm:"column:grade_record_subject;type:varchar(120);not null" json:"grade_record_subject"`
	GradeRecordValue        float64   `gorm:"column:grade_record_value;type:numeric(8,2);not null" json:"grade_record_value"`
	GradeRecordMaxValue     float64   `gorm:"column:grade_record_max_value;type:numeric(8,2);not null" json:"grade_record_max_value"`
	GradeRecordComment      *string   `gorm:"column:grade_record_comment;type:text" json:"grade_record_comment"`
	GradeRecordCreatedAt    time.Time `gorm:"column:grade_record_created_at;autoCreateTime" json:"grade_record_created_at"`
}

func (GradeRecordModel) TableName() string {
	return "grade_records"
}

func (m *GradeRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.GradeRecordID == uuid.Nil {
		m.GradeRecordID = uuid.New()
	}
	return nil
}

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentModel: record administratif murid. Akun login (role student) opsional
// dan ditautkan sekali lewat kode pendaftaran (= student_id).
type StudentModel struct {
	StudentID           uuid.UUID      `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentMosqueID     uuid.UUID      `gorm:"column:student_mosque_id;type:uuid;not null;index" json:"student_mosque_id"`
	StudentClassGroupID uuid.UUID      `gorm:"column:student_class_group_id;type:uuid;not null;index" json:"student_class_group_id"`
	StudentParentID     *uuid.UUID     `gorm:"column:student_parent_id;type:uuid;index" json:"student_parent_id"`
	StudentUserID       *uuid.UUID     `gorm:"column:student_user_id;type:uuid;uniqueIndex:uq_students_user" json:"student_user_id"`
	StudentFirstName    string         `gorm:"column:student_first_name;type:varchar(100);not null" json:"student_first_name"`
	StudentLastName     string         `gorm:"column:student_last_name;type:varchar(100);not null" json:"student_last_name"`
	StudentBirthDate    *time.Time     `gorm:"column:student_birth_date;type:date" json:"student_birth_date,omitempty"`
	StudentPhone        *string        `gorm:"column:student_phone;type:varchar(30)" json:"student_phone,omitempty"`
	StudentEmail        *string        `gorm:"column:student_email;type:varchar(150)" json:"student_email,omitempty"`
	StudentCreatedAt    time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt    time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt    gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (StudentModel) TableName() string {
	return "students"
}

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}

func (m StudentModel) FullName() string {
	return strings.TrimSpace(m.StudentFirstName + " " + m.StudentLastName)
}

// EnrollmentCode: kode yang dibagikan ke keluarga untuk menautkan akun murid.
func (m StudentModel) EnrollmentCode() string {
	return m.StudentID.String()
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassGroupModel struct {
	ClassGroupID        uuid.UUID      `gorm:"column:class_group_id;type:uuid;primaryKey" json:"class_group_id"`
	ClassGroupMosqueID  uuid.UUID      `gorm:"column:class_group_mosque_id;type:uuid;not null;index" json:"class_group_mosque_id"`
	ClassGroupName      string         `gorm:"column:class_group_name;type:varchar(100);not null" json:"class_group_name"`
	ClassGroupLevel     string         `gorm:"column:class_group_level;type:varchar(50);not null" json:"class_group_level"`
	ClassGroupTeacherID *uuid.UUID     `gorm:"column:class_group_teacher_id;type:uuid;index" json:"class_group_teacher_id"`
	ClassGroupCreatedAt time.Time      `gorm:"column:class_group_created_at;autoCreateTime" json:"class_group_created_at"`
	ClassGroupUpdatedAt time.Time      `gorm:"column:class_group_updated_at;autoUpdateTime" json:"class_group_updated_at"`
	ClassGroupDeletedAt gorm.DeletedAt `gorm:"column:class_group_deleted_at;index" json:"-"`
}

func (ClassGroupModel) TableName() string {
	return "class_groups"
}

func (m *ClassGroupModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassGroupID == uuid.Nil {
		m.ClassGroupID = uuid.New()
	}
	return nil
}

// AssignedTo: kelas sudah di-assign ke teacher ini.
func (m ClassGroupModel) AssignedTo(teacherID uuid.UUID) bool {
	return m.ClassGroupTeacherID != nil && *m.ClassGroupTeacherID == teacherID
}

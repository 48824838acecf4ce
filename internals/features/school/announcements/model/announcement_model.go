package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementModel struct {
	AnnouncementID        uuid.UUID      `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	AnnouncementMosqueID  uuid.UUID      `gorm:"column:announcement_mosque_id;type:uuid;not null;index" json:"announcement_mosque_id"`
	AnnouncementAuthorID  uuid.UUID      `gorm:"column:announcement_author_id;type:uuid;not null" json:"announcement_author_id"`
	AnnouncementTitle     string         `gorm:"column:announcement_title;type:varchar(200);not null" json:"announcement_title"`
	AnnouncementContent   string         `gorm:"column:announcement_content;type:text;not null" json:"announcement_content"`
	AnnouncementCreatedAt time.Time      `gorm:"column:announcement_created_at;autoCreateTime;index" json:"announcement_created_at"`
	AnnouncementUpdatedAt time.Time      `gorm:"column:announcement_updated_at;autoUpdateTime" json:"announcement_updated_at"`
	AnnouncementDeletedAt gorm.DeletedAt `gorm:"column:announcement_deleted_at;index" json:"-"`
}

func (AnnouncementModel) TableName() string {
	return "announcements"
}

func (m *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	return nil
}

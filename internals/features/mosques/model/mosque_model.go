package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MosqueModel = tenant. Semua tabel lain membawa mosque_id.
type MosqueModel struct {
	MosqueID        uuid.UUID      `gorm:"column:mosque_id;type:uuid;primaryKey" json:"mosque_id"`
	MosqueName      string         `gorm:"column:mosque_name;type:varchar(150);not null" json:"mosque_name"`
	MosqueAddress   *string        `gorm:"column:mosque_address;type:text" json:"mosque_address,omitempty"`
	MosquePhone     *string        `gorm:"column:mosque_phone;type:varchar(30)" json:"mosque_phone,omitempty"`
	MosqueEmail     *string        `gorm:"column:mosque_email;type:varchar(150)" json:"mosque_email,omitempty"`
	MosqueTimezone  string         `gorm:"column:mosque_timezone;type:varchar(64);not null;default:'Europe/Paris'" json:"mosque_timezone"`
	MosqueCreatedAt time.Time      `gorm:"column:mosque_created_at;autoCreateTime" json:"mosque_created_at"`
	MosqueUpdatedAt time.Time      `gorm:"column:mosque_updated_at;autoUpdateTime" json:"mosque_updated_at"`
	MosqueDeletedAt gorm.DeletedAt `gorm:"column:mosque_deleted_at;index" json:"-"`
}

func (MosqueModel) TableName() string {
	return "mosques"
}

func (m *MosqueModel) BeforeCreate(tx *gorm.DB) error {
	if m.MosqueID == uuid.Nil {
		m.MosqueID = uuid.New()
	}
	return nil
}

// Location: timezone mosque, fallback ke def lalu UTC.
func (m MosqueModel) Location(def string) *time.Location {
	for _, name := range []string{m.MosqueTimezone, def} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleStudent = "student"
)

// UserModel: satu akun per orang, role tunggal, selalu terikat satu mosque.
// Email unik global (lintas mosque).
type UserModel struct {
	UserID           uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserMosqueID     uuid.UUID      `gorm:"column:user_mosque_id;type:uuid;not null;index" json:"user_mosque_id"`
	UserRole         string         `gorm:"column:user_role;type:varchar(20);not null;index" json:"user_role"`
	UserEmail        string         `gorm:"column:user_email;type:varchar(150);not null;uniqueIndex:uq_users_email" json:"user_email"`
	UserPasswordHash string         `gorm:"column:user_password_hash;type:text;not null" json:"-"`
	UserFirstName    string         `gorm:"column:user_first_name;type:varchar(100);not null" json:"user_first_name"`
	UserLastName     string         `gorm:"column:user_last_name;type:varchar(100);not null" json:"user_last_name"`
	UserPhone        *string        `gorm:"column:user_phone;type:varchar(30)" json:"user_phone,omitempty"`
	UserIsActive     bool           `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`
	UserCreatedAt    time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt    time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt    gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	u.UserEmail = NormalizeEmail(u.UserEmail)
	return nil
}

func (u UserModel) FullName() string {
	return strings.TrimSpace(u.UserFirstName + " " + u.UserLastName)
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func IsValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent, RoleStudent:
		return true
	}
	return false
}

package service

import (
	"errors"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/helpers/apperr"
)

var roleLabel = map[string]string{
	model.RoleAdmin:   "admin",
	model.RoleTeacher: "teacher",
	model.RoleParent:  "parent",
	model.RoleStudent: "student",
}

// FindTenantUser: akun dengan role tertentu di mosque ini. Selain itu → 404.
func FindTenantUser(tx *gorm.DB, mosqueID, userID uuid.UUID, role string) (*model.UserModel, error) {
	var u model.UserModel
	err := tx.Where("user_id = ? AND user_mosque_id = ? AND user_role = ?", userID, mosqueID, role).
		Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(roleLabel[role] + " not found")
	}
	if err != nil {
		return nil, database.MapDBError(err)
	}
	return &u, nil
}

// UserNames: id → nama lengkap (tenant-scoped).
func UserNames(tx *gorm.DB, mosqueID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.UserModel
	if err := tx.Select("user_id", "user_first_name", "user_last_name").
		Where("user_mosque_id = ? AND user_id IN ?", mosqueID, ids).
		Find(&rows).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	for _, u := range rows {
		out[u.UserID] = u.FullName()
	}
	return out, nil
}

const MsgEmailInUse = "email is already in use"

// EnsureEmailFree: email unik global, termasuk akun yang sudah soft-delete.
func EnsureEmailFree(tx *gorm.DB, email string) error {
	var n int64
	if err := tx.Unscoped().Model(&model.UserModel{}).
		Where("user_email = ?", model.NormalizeEmail(email)).
		Count(&n).Error; err != nil {
		return database.MapDBError(err)
	}
	if n > 0 {
		return apperr.Validation(MsgEmailInUse)
	}
	return nil
}

// CreateAccount: unique violation (kalah race dengan pendaftar lain) → pesan yang sama.
func CreateAccount(tx *gorm.DB, u *model.UserModel) error {
	if err := tx.Create(u).Error; err != nil {
		mapped := database.MapDBError(pkgerrors.Wrap(err, "create account"))
		if apperr.IsKind(mapped, apperr.KindConflict) {
			return apperr.Conflict(MsgEmailInUse)
		}
		return mapped
	}
	return nil
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/school/students/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

// ChildrenOf: murid yang parent-nya actor (role parent).
func ChildrenOf(ctx context.Context, db *gorm.DB, actor helperAuth.Actor) ([]model.StudentModel, error) {
	if err := actor.Require(userModel.RoleParent); err != nil {
		return nil, err
	}
	var rows []model.StudentModel
	if err := db.WithContext(ctx).
		Where("student_mosque_id = ? AND student_parent_id = ?", actor.MosqueID, actor.UserID).
		Order("student_last_name ASC, student_first_name ASC").
		Find(&rows).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	return rows, nil
}

// ChildIDs: id anak-anak parent; kalau only != nil, harus salah satu anaknya.
func ChildIDs(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, only *uuid.UUID) ([]uuid.UUID, error) {
	kids, err := ChildrenOf(ctx, db, actor)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(kids))
	for _, k := range kids {
		if only != nil && k.StudentID != *only {
			continue
		}
		ids = append(ids, k.StudentID)
	}
	if only != nil && len(ids) == 0 {
		return nil, apperr.Hidden("student not found")
	}
	return ids, nil
}

// LinkedStudent: baris student milik akun student yang login.
func LinkedStudent(ctx context.Context, db *gorm.DB, actor helperAuth.Actor) (*model.StudentModel, error) {
	if err := actor.Require(userModel.RoleStudent); err != nil {
		return nil, err
	}
	var st model.StudentModel
	err := db.WithContext(ctx).
		Where("student_mosque_id = ? AND student_user_id = ?", actor.MosqueID, actor.UserID).
		Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("no student record linked to this account")
	}
	if err != nil {
		return nil, database.MapDBError(err)
	}
	return &st, nil
}

// FindTenantStudent: lookup murid untuk admin.
func FindTenantStudent(tx *gorm.DB, mosqueID, studentID uuid.UUID) (*model.StudentModel, error) {
	var st model.StudentModel
	err := tx.Where("student_id = ? AND student_mosque_id = ?", studentID, mosqueID).Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("student not found")
	}
	if err != nil {
		return nil, database.MapDBError(err)
	}
	return &st, nil
}

// StudentNames: id → "First Last", dibatasi tenant.
func StudentNames(ctx context.Context, db *gorm.DB, mosqueID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.StudentModel
	if err := db.WithContext(ctx).
		Select("student_id", "student_first_name", "student_last_name").
		Where("student_mosque_id = ? AND student_id IN ?", mosqueID, ids).
		Find(&rows).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	for _, s := range rows {
		out[s.StudentID] = s.FullName()
	}
	return out, nil
}

package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	classService "madrasa_backend/internals/features/school/class_groups/service"
	"madrasa_backend/internals/features/school/students/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	accountService "madrasa_backend/internals/features/users/accounts/service"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

// ensureParent: parent opsional, tapi kalau diisi harus parent di mosque yang sama.
func ensureParent(tx *gorm.DB, mosqueID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	_, err := accountService.FindTenantUser(tx, mosqueID, *parentID, userModel.RoleParent)
	return err
}

// CreateStudent: kelas harus milik tenant; mosque id diambil dari actor.
func CreateStudent(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, m *model.StudentModel) error {
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return err
	}
	tx := db.WithContext(ctx)
	m.StudentMosqueID = actor.MosqueID
	if _, err := classService.FindTenantClass(tx, actor.MosqueID, m.StudentClassGroupID); err != nil {
		return err
	}
	if err := ensureParent(tx, actor.MosqueID, m.StudentParentID); err != nil {
		return err
	}
	return database.MapDBError(tx.Create(m).Error)
}

// AssignParent: parentID nil → lepas parent.
func AssignParent(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, studentID uuid.UUID, parentID *uuid.UUID) (*model.StudentModel, error) {
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return nil, err
	}
	tx := db.WithContext(ctx)
	st, err := FindTenantStudent(tx, actor.MosqueID, studentID)
	if err != nil {
		return nil, err
	}
	if err := ensureParent(tx, actor.MosqueID, parentID); err != nil {
		return nil, err
	}
	if err := tx.Model(st).Update("student_parent_id", parentID).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	st.StudentParentID = parentID
	return st, nil
}

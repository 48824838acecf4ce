package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/school/class_groups/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	accountService "madrasa_backend/internals/features/users/accounts/service"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

const MsgClassNotEmpty = "class still has students, move them first"

// DeleteEmptyClass: kelas hanya boleh dihapus kalau sudah tidak punya murid.
func DeleteEmptyClass(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, classID uuid.UUID) error {
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cls, err := FindTenantClass(tx, actor.MosqueID, classID)
		if err != nil {
			return err
		}
		counts, err := StudentCounts(tx, actor.MosqueID, []uuid.UUID{cls.ClassGroupID})
		if err != nil {
			return err
		}
		if counts[cls.ClassGroupID] > 0 {
			return apperr.Conflict(MsgClassNotEmpty)
		}
		return database.MapDBError(tx.Delete(cls).Error)
	})
}

// AssignTeacher: teacherID nil → lepas teacher. Teacher harus teacher di mosque yang sama.
func AssignTeacher(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, classID uuid.UUID, teacherID *uuid.UUID) (*model.ClassGroupModel, error) {
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return nil, err
	}
	tx := db.WithContext(ctx)
	cls, err := FindTenantClass(tx, actor.MosqueID, classID)
	if err != nil {
		return nil, err
	}
	if teacherID != nil {
		if _, err := accountService.FindTenantUser(tx, actor.MosqueID, *teacherID, userModel.RoleTeacher); err != nil {
			return nil, err
		}
	}
	if err := tx.Model(cls).Update("class_group_teacher_id", teacherID).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	cls.ClassGroupTeacherID = teacherID
	return cls, nil
}

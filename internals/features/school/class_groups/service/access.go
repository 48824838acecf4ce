package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/school/class_groups/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

const MsgClassNotAssigned = "class not found or not assigned to you"

// ResolveTeacherClass: gerbang otorisasi untuk semua aksi teacher pada kelas.
// Kelas tenant lain, kelas tidak ada, dan kelas milik teacher lain dibalas sama (404)
// supaya keberadaan kelas tidak bocor. lock=true → SELECT ... FOR UPDATE.
func ResolveTeacherClass(tx *gorm.DB, actor helperAuth.Actor, classID uuid.UUID, lock bool) (*model.ClassGroupModel, error) {
	if err := actor.Require(userModel.RoleTeacher); err != nil {
		return nil, err
	}

	q := tx.Model(&model.ClassGroupModel{})
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var cls model.ClassGroupModel
	err := q.Where("class_group_id = ? AND class_group_mosque_id = ? AND class_group_teacher_id = ?",
		classID, actor.MosqueID, actor.UserID).
		Take(&cls).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Hidden(MsgClassNotAssigned)
	}
	if err != nil {
		return nil, database.MapDBError(err)
	}
	return &cls, nil
}

// FindTenantClass: lookup kelas untuk admin (tenant saja, tanpa cek teacher).
func FindTenantClass(tx *gorm.DB, mosqueID, classID uuid.UUID) (*model.ClassGroupModel, error) {
	var cls model.ClassGroupModel
	err := tx.Where("class_group_id = ? AND class_group_mosque_id = ?", classID, mosqueID).Take(&cls).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("class not found")
	}
	if err != nil {
		return nil, database.MapDBError(err)
	}
	return &cls, nil
}

// TeacherClassIDs: semua kelas yang di-assign ke teacher (actor).
func TeacherClassIDs(tx *gorm.DB, actor helperAuth.Actor) ([]uuid.UUID, error) {
	if err := actor.Require(userModel.RoleTeacher); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := tx.Model(&model.ClassGroupModel{}).
		Where("class_group_mosque_id = ? AND class_group_teacher_id = ?", actor.MosqueID, actor.UserID).
		Pluck("class_group_id", &ids).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	return ids, nil
}

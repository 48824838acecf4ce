package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/school/students/model"
	"madrasa_backend/internals/helpers/apperr"
)

const MsgNotClassMembers = "one or more students are not members of this class"

// EnsureClassMembers: semua id harus murid aktif di (mosque, kelas).
// Satu saja yang gagal → seluruh batch ditolak (400).
func EnsureClassMembers(tx *gorm.DB, mosqueID, classID uuid.UUID, studentIDs []uuid.UUID) error {
	if len(studentIDs) == 0 {
		return nil
	}
	var n int64
	err := tx.Model(&model.StudentModel{}).
		Where("student_mosque_id = ? AND student_class_group_id = ? AND student_id IN ?", mosqueID, classID, studentIDs).
		Count(&n).Error
	if err != nil {
		return database.MapDBError(err)
	}
	if n != int64(len(studentIDs)) {
		return apperr.Validation(MsgNotClassMembers)
	}
	return nil
}

// DistinctIDs: error kalau ada id yang dobel dalam satu batch.
func DistinctIDs(ids []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return apperr.Validationf("student %s appears more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

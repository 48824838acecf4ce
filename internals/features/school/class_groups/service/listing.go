package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/school/class_groups/model"
	studentModel "madrasa_backend/internals/features/school/students/model"
)

// StudentCounts: jumlah murid aktif per kelas.
func StudentCounts(tx *gorm.DB, mosqueID uuid.UUID, classIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(classIDs))
	if len(classIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ClassGroupID uuid.UUID `gorm:"column:student_class_group_id"`
		N            int64     `gorm:"column:n"`
	}
	if err := tx.Model(&studentModel.StudentModel{}).
		Select("student_class_group_id, COUNT(*) AS n").
		Where("student_mosque_id = ? AND student_class_group_id IN ?", mosqueID, classIDs).
		Group("student_class_group_id").
		Scan(&rows).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	for _, r := range rows {
		out[r.ClassGroupID] = r.N
	}
	return out, nil
}

// ClassNames: id → nama kelas (tenant-scoped).
func ClassNames(tx *gorm.DB, mosqueID uuid.UUID, classIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(classIDs))
	if len(classIDs) == 0 {
		return out, nil
	}
	var rows []model.ClassGroupModel
	if err := tx.Select("class_group_id", "class_group_name").
		Where("class_group_mosque_id = ? AND class_group_id IN ?", mosqueID, classIDs).
		Find(&rows).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	for _, c := range rows {
		out[c.ClassGroupID] = c.ClassGroupName
	}
	return out, nil
}

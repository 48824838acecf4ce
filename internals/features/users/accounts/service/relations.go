package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	classModel "madrasa_backend/internals/features/school/class_groups/model"
	studentModel "madrasa_backend/internals/features/school/students/model"
)

type Related struct {
	ID   uuid.UUID
	Name string
}

// ClassesByTeacher: teacher id → kelas yang dipegang.
func ClassesByTeacher(tx *gorm.DB, mosqueID uuid.UUID, teacherIDs []uuid.UUID) (map[uuid.UUID][]Related, error) {
	out := make(map[uuid.UUID][]Related, len(teacherIDs))
	if len(teacherIDs) == 0 {
		return out, nil
	}
	var rows []classModel.ClassGroupModel
	if err := tx.Where("class_group_mosque_id = ? AND class_group_teacher_id IN ?", mosqueID, teacherIDs).
		Order("class_group_name ASC").
		Find(&rows).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	for _, r := range rows {
		out[*r.ClassGroupTeacherID] = append(out[*r.ClassGroupTeacherID], Related{ID: r.ClassGroupID, Name: r.ClassGroupName})
	}
	return out, nil
}

// ChildrenByParent: parent id → murid yang ditautkan.
func ChildrenByParent(tx *gorm.DB, mosqueID uuid.UUID, parentIDs []uuid.UUID) (map[uuid.UUID][]Related, error) {
	out := make(map[uuid.UUID][]Related, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	var rows []studentModel.StudentModel
	if err := tx.Where("student_mosque_id = ? AND student_parent_id IN ?", mosqueID, parentIDs).
		Order("student_last_name ASC, student_first_name ASC").
		Find(&rows).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	for _, r := range rows {
		out[*r.StudentParentID] = append(out[*r.StudentParentID], Related{ID: r.StudentID, Name: r.FullName()})
	}
	return out, nil
}

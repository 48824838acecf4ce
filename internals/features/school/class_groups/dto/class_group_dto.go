package dto

import (
	"strings"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/school/class_groups/model"
)

/* ===================== REQUESTS ===================== */

type CreateClassGroupRequest struct {
	Name      string     `json:"name" validate:"required,notblank,max=100"`
	Level     string     `json:"level" validate:"required,notblank,max=50"`
	TeacherID *uuid.UUID `json:"teacher_id" validate:"omitempty"`
}

func (r CreateClassGroupRequest) ToModel(mosqueID uuid.UUID) *model.ClassGroupModel {
	return &model.ClassGroupModel{
		ClassGroupMosqueID:  mosqueID,
		ClassGroupName:      strings.TrimSpace(r.Name),
		ClassGroupLevel:     strings.TrimSpace(r.Level),
		ClassGroupTeacherID: r.TeacherID,
	}
}

// Update (partial)
type UpdateClassGroupRequest struct {
	Name  *string `json:"name" validate:"omitempty,notblank,max=100"`
	Level *string `json:"level" validate:"omitempty,notblank,max=50"`
}

func (r UpdateClassGroupRequest) Changes() map[string]any {
	m := map[string]any{}
	if r.Name != nil {
		m["class_group_name"] = strings.TrimSpace(*r.Name)
	}
	if r.Level != nil {
		m["class_group_level"] = strings.TrimSpace(*r.Level)
	}
	return m
}

// teacher_id null → lepas teacher dari kelas
type AssignTeacherRequest struct {
	TeacherID *uuid.UUID `json:"teacher_id"`
}

/* ===================== RESPONSES ===================== */

type ClassGroupResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Level        string     `json:"level"`
	TeacherID    *uuid.UUID `json:"teacher_id"`
	TeacherName  string     `json:"teacher_name,omitempty"`
	StudentCount int64      `json:"student_count"`
}

func FromModel(m model.ClassGroupModel) ClassGroupResponse {
	return ClassGroupResponse{
		ID:        m.ClassGroupID,
		Name:      m.ClassGroupName,
		Level:     m.ClassGroupLevel,
		TeacherID: m.ClassGroupTeacherID,
	}
}

type ClassStudent struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	HasParent bool      `json:"has_parent"`
	HasUser   bool      `json:"has_account"`
}

type ClassGroupDetailResponse struct {
	ClassGroupResponse
	Students []ClassStudent `json:"students"`
}

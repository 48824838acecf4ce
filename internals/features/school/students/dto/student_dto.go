package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/school/students/model"
	helper "madrasa_backend/internals/helpers"
)

/* ===================== REQUESTS ===================== */

type CreateStudentRequest struct {
	FirstName    string     `json:"first_name" validate:"required,notblank,max=100"`
	LastName     string     `json:"last_name" validate:"required,notblank,max=100"`
	BirthDate    *string    `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Phone        *string    `json:"phone" validate:"omitempty,max=30"`
	Email        *string    `json:"email" validate:"omitempty,email,max=150"`
	ClassGroupID uuid.UUID  `json:"class_id" validate:"required"`
	ParentID     *uuid.UUID `json:"parent_id" validate:"omitempty"`
}

func parseBirth(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &t
}

func (r CreateStudentRequest) ToModel(mosqueID uuid.UUID) *model.StudentModel {
	return &model.StudentModel{
		StudentMosqueID:     mosqueID,
		StudentClassGroupID: r.ClassGroupID,
		StudentParentID:     r.ParentID,
		StudentFirstName:    strings.TrimSpace(r.FirstName),
		StudentLastName:     strings.TrimSpace(r.LastName),
		StudentBirthDate:    parseBirth(r.BirthDate),
		StudentPhone:        helper.TrimPtr(r.Phone),
		StudentEmail:        helper.TrimPtr(r.Email),
	}
}

// Update (partial). Pindah kelas lewat class_id.
type UpdateStudentRequest struct {
	FirstName    *string    `json:"first_name" validate:"omitempty,notblank,max=100"`
	LastName     *string    `json:"last_name" validate:"omitempty,notblank,max=100"`
	BirthDate    *string    `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Phone        *string    `json:"phone" validate:"omitempty,max=30"`
	Email        *string    `json:"email" validate:"omitempty,email,max=150"`
	ClassGroupID *uuid.UUID `json:"class_id" validate:"omitempty"`
}

func (r UpdateStudentRequest) Changes() map[string]any {
	m := map[string]any{}
	if r.FirstName != nil {
		m["student_first_name"] = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		m["student_last_name"] = strings.TrimSpace(*r.LastName)
	}
	if r.BirthDate != nil {
		m["student_birth_date"] = parseBirth(r.BirthDate)
	}
	if r.Phone != nil {
		m["student_phone"] = helper.TrimPtr(r.Phone)
	}
	if r.Email != nil {
		m["student_email"] = helper.TrimPtr(r.Email)
	}
	if r.ClassGroupID != nil {
		m["student_class_group_id"] = *r.ClassGroupID
	}
	return m
}

// parent_id null → lepas parent
type AssignParentRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

/* ===================== RESPONSES ===================== */

type StudentResponse struct {
	ID         uuid.UUID  `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	BirthDate  *string    `json:"birth_date,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Email      *string    `json:"email,omitempty"`
	ClassID    uuid.UUID  `json:"class_id"`
	ClassName  string     `json:"class_name,omitempty"`
	ParentID   *uuid.UUID `json:"parent_id"`
	ParentName string     `json:"parent_name,omitempty"`
	HasAccount bool       `json:"has_account"`
	// kode pendaftaran akun murid, hanya untuk admin
	EnrollmentCode string `json:"enrollment_code,omitempty"`
}

func FromModel(m model.StudentModel) StudentResponse {
	out := StudentResponse{
		ID:         m.StudentID,
		FirstName:  m.StudentFirstName,
		LastName:   m.StudentLastName,
		Phone:      m.StudentPhone,
		Email:      m.StudentEmail,
		ClassID:    m.StudentClassGroupID,
		ParentID:   m.StudentParentID,
		HasAccount: m.StudentUserID != nil,
	}
	if m.StudentBirthDate != nil {
		d := m.StudentBirthDate.Format("2006-01-02")
		out.BirthDate = &d
	}
	return out
}

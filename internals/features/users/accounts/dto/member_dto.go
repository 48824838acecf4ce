package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/features/users/accounts/service"
	helper "madrasa_backend/internals/helpers"
)

/* ===================== REQUESTS ===================== */

// POST /api/a/teachers, POST /api/a/parents
type CreateMemberRequest struct {
	FirstName string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName  string  `json:"last_name" validate:"required,notblank,max=100"`
	Email     string  `json:"email" validate:"required,email,max=150"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Password  string  `json:"password" validate:"required,min=6,max=72"`
}

func (r CreateMemberRequest) ToInput() service.AccountInput {
	return service.AccountInput{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     model.NormalizeEmail(r.Email),
		Phone:     helper.TrimPtr(r.Phone),
		Password:  r.Password,
	}
}

// PUT /api/a/teachers/:id/classes (list kosong → lepas semua kelas)
type AssignClassesRequest struct {
	ClassIDs []uuid.UUID `json:"class_ids" validate:"omitempty,dive,required"`
}

// PUT /api/a/parents/:id/children
type AssignChildrenRequest struct {
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required,min=1,dive,required"`
}

/* ===================== RESPONSES ===================== */

type Ref struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	// teacher
	Classes []Ref `json:"classes,omitempty"`
	// parent
	Children []Ref `json:"children,omitempty"`
}

func FromModel(u model.UserModel) MemberResponse {
	return MemberResponse{
		ID:        u.UserID,
		Role:      u.UserRole,
		FirstName: u.UserFirstName,
		LastName:  u.UserLastName,
		Email:     u.UserEmail,
		Phone:     u.UserPhone,
		IsActive:  u.UserIsActive,
		CreatedAt: u.UserCreatedAt,
	}
}

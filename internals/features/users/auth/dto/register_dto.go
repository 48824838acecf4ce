package dto

import (
	"strings"

	userModel "madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/features/users/auth/service"
	helper "madrasa_backend/internals/helpers"
)

/* ===================== REQUESTS ===================== */

type AccountRequest struct {
	FirstName string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName  string  `json:"last_name" validate:"required,notblank,max=100"`
	Email     string  `json:"email" validate:"required,email,max=150"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Password  string  `json:"password" validate:"required,min=6,max=72"`
}

func (r AccountRequest) ToInput() service.AccountInput {
	return service.AccountInput{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     userModel.NormalizeEmail(r.Email),
		Phone:     helper.TrimPtr(r.Phone),
		Password:  r.Password,
	}
}

// POST /api/auth/register
type RegisterMosqueRequest struct {
	MosqueName     string  `json:"mosque_name" validate:"required,notblank,max=150"`
	MosqueAddress  *string `json:"mosque_address" validate:"omitempty,max=500"`
	MosquePhone    *string `json:"mosque_phone" validate:"omitempty,max=30"`
	MosqueEmail    *string `json:"mosque_email" validate:"omitempty,email"`
	MosqueTimezone string  `json:"mosque_timezone" validate:"omitempty,max=64"`

	AccountRequest
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func (r RegisterMosqueRequest) ToInput() service.RegisterMosqueInput {
	email := helper.TrimPtr(r.MosqueEmail)
	if email != nil {
		e := userModel.NormalizeEmail(*email)
		email = &e
	}
	return service.RegisterMosqueInput{
		MosqueName:     strings.TrimSpace(r.MosqueName),
		MosqueAddress:  helper.TrimPtr(r.MosqueAddress),
		MosquePhone:    helper.TrimPtr(r.MosquePhone),
		MosqueEmail:    email,
		MosqueTimezone: strings.TrimSpace(r.MosqueTimezone),
		Admin:          r.AccountRequest.ToInput(),
	}
}

// POST /api/auth/register/teacher
type RegisterTeacherRequest struct {
	AccountRequest
	MosqueCode string `json:"mosque_code" validate:"required,notblank"`
}

// POST /api/auth/register/student
type RegisterStudentRequest struct {
	AccountRequest
	StudentCode string `json:"student_code" validate:"required,notblank"`
}

/* ===================== RESPONSES ===================== */

type AccountCreatedResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func FromAccount(u *userModel.UserModel) AccountCreatedResponse {
	return AccountCreatedResponse{UserID: u.UserID.String(), Role: u.UserRole}
}

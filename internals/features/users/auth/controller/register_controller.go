package controller

import (
	"github.com/gofiber/fiber/v2"

	"madrasa_backend/internals/features/users/auth/dto"
	"madrasa_backend/internals/features/users/auth/service"
	helper "madrasa_backend/internals/helpers"
)

type RegisterController struct {
	Registrar *service.Registrar
}

func NewRegisterController(r *service.Registrar) *RegisterController {
	return &RegisterController{Registrar: r}
}

// POST /api/auth/register
func (h *RegisterController) RegisterMosque(c *fiber.Ctx) error {
	var req dto.RegisterMosqueRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := h.Registrar.RegisterMosque(c.UserContext(), req.ToInput())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "mosque registered", res)
}

// POST /api/auth/register/teacher
func (h *RegisterController) RegisterTeacher(c *fiber.Ctx) error {
	var req dto.RegisterTeacherRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	u, err := h.Registrar.RegisterTeacher(c.UserContext(), req.MosqueCode, req.AccountRequest.ToInput())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "account created", dto.FromAccount(u))
}

// POST /api/auth/register/student
func (h *RegisterController) RegisterStudent(c *fiber.Ctx) error {
	var req dto.RegisterStudentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	u, err := h.Registrar.LinkStudentAccount(c.UserContext(), req.StudentCode, req.AccountRequest.ToInput())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "account created", dto.FromAccount(u))
}

package route

import (
	"github.com/gofiber/fiber/v2"

	authCtl "madrasa_backend/internals/features/users/auth/controller"
	rateLimiter "madrasa_backend/internals/middlewares"
)

// Base: /api/auth (publik)
func AuthRoutes(app fiber.Router, h *authCtl.RegisterController) {
	baseAuth := app.Group("/api/auth")

	// satu bucket limiter untuk semua jalur pendaftaran
	limit := rateLimiter.RegisterRateLimiter()
	baseAuth.Post("/register", limit, h.RegisterMosque)
	baseAuth.Post("/register/teacher", limit, h.RegisterTeacher)
	baseAuth.Post("/register/student", limit, h.RegisterStudent)
}

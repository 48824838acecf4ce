package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "madrasa_backend/internals/helpers"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

// RequireRoles: guard route group berdasarkan role di token.
// Role salah → 401 (lihat Actor.Require).
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := helperAuth.ActorFromCtx(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		if err := actor.Require(roles...); err != nil {
			log.Printf("[WARN] role %q rejected on %s %s", actor.Role, c.Method(), c.Path())
			return helper.FromError(c, err)
		}
		return c.Next()
	}
}

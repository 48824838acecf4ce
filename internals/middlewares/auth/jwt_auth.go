package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helperAuth "madrasa_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
}

// AuthJWT hanya memverifikasi token dari identity provider (HS256, shared secret)
// lalu mengisi locals: user_id, role, mosque_id, actor.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		// 3) user_id: id / sub / user_id dalam urutan preferensi
		userID := firstClaim(claims, "id", "sub", "user_id")
		mosqueID := firstClaim(claims, "mosque_id", "tenant_id")
		role := strings.ToLower(firstClaim(claims, "role"))

		uid, err1 := uuid.Parse(userID)
		mid, err2 := uuid.Parse(mosqueID)
		if err1 != nil || err2 != nil || role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		c.Locals("jwt_claims", claims)
		c.Locals(helperAuth.LocUserID, uid.String())
		c.Locals(helperAuth.LocMosqueID, mid.String())
		c.Locals(helperAuth.LocRole, role)
		c.Locals(helperAuth.LocActor, helperAuth.Actor{UserID: uid, MosqueID: mid, Role: role})

		return c.Next()
	}
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

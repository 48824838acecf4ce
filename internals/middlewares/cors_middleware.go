package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsConfig: credentials hanya untuk daftar origin eksplisit.
// Daftar kosong atau berisi "*" → semua origin, tanpa credentials.
func CorsConfig(origins []string) cors.Config {
	clean := make([]string, 0, len(origins))
	wildcard := false
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			wildcard = true
		}
		clean = append(clean, o)
	}
	cfg := cors.Config{
		AllowOrigins:     strings.Join(clean, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: len(clean) > 0 && !wildcard,
	}
	if !cfg.AllowCredentials {
		cfg.AllowOrigins = "*"
	}
	return cfg
}

// CorsMiddleware membuat middleware CORS dari daftar origin di config.
func CorsMiddleware(origins []string) fiber.Handler {
	return cors.New(CorsConfig(origins))
}

package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorsConfig(t *testing.T) {
	cfg := CorsConfig([]string{"http://localhost:5173", " https://app.example.com "})
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, "http://localhost:5173,https://app.example.com", cfg.AllowOrigins)

	for _, origins := range [][]string{nil, {}, {"*"}, {"http://a.test", "*"}, {" "}} {
		cfg := CorsConfig(origins)
		assert.False(t, cfg.AllowCredentials, "%v", origins)
		assert.Equal(t, "*", cfg.AllowOrigins, "%v", origins)
	}
}

func TestCorsMiddlewareDoesNotPanic(t *testing.T) {
	for _, origins := range [][]string{nil, {"*"}, {"http://localhost:5173"}} {
		assert.NotPanics(t, func() { CorsMiddleware(origins) }, "%v", origins)
	}
}

func TestCorsPreflight(t *testing.T) {
	app := fiber.New()
	app.Use(CorsMiddleware([]string{"http://localhost:5173"}))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodGet)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
}

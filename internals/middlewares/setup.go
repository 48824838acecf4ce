package middlewares

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"madrasa_backend/internals/middlewares/logger"
)

type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	AccessLog      io.Writer
	RateLimit      bool
}

func SetupMiddlewares(app *fiber.App, o Options) {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 5 * time.Second
	}
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(o.RequestTimeout))
	if o.AccessLog != nil {
		app.Use(logger.LoggerMiddleware(o.AccessLog))
	}
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(CorsMiddleware(o.CORSOrigins))
	if o.RateLimit {
		app.Use(GlobalRateLimiter())
	}
}

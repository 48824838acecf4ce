package logger

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware untuk mencatat semua request ke out (stdout + file rotasi).
func LoggerMiddleware(out io.Writer) fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency} - ${locals:reqid}\n",
		Output:     out,
	})
}

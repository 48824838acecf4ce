package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"madrasa_backend/internals/helpers/apperr"
)

// FromError merender error apa pun ke shape JsonError.
// *fiber.Error dan *apperr.Error dipetakan langsung; sisanya jadi 500 generik
// (detail hanya masuk log).
func FromError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	ae := apperr.Classify(err)
	if ae.Status >= 500 {
		log.Printf("[ERROR] reqid=%v %s %s: %v", c.Locals("reqid"), c.Method(), c.Path(), err)
	}
	return JsonError(c, ae.Status, ae.Message)
}

// ErrorHandler untuk fiber.Config.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}

package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"madrasa_backend/internals/helpers/apperr"
)

// ParseUUIDParam membaca path param UUID; invalid → 400.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validationf("%s is not a valid id", name)
	}
	return id, nil
}

// ParseUUIDQuery: query param opsional; kosong → nil.
func ParseUUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validationf("%s is not a valid id", name)
	}
	return &id, nil
}

func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

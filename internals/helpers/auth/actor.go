package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"madrasa_backend/internals/helpers/apperr"
)

// Nama locals yang diisi middleware AuthJWT
const (
	LocUserID   = "user_id"
	LocRole     = "role"
	LocMosqueID = "mosque_id"
	LocActor    = "actor"
)

// Actor: identitas terverifikasi pemanggil. Selalu diteruskan eksplisit ke service,
// tidak pernah dibaca dari state global.
type Actor struct {
	UserID   uuid.UUID
	MosqueID uuid.UUID
	Role     string
}

func (a Actor) HasRole(roles ...string) bool {
	for _, r := range roles {
		if strings.EqualFold(a.Role, r) {
			return true
		}
	}
	return false
}

// Require: role harus salah satu dari roles, kalau tidak → 401.
func (a Actor) Require(roles ...string) error {
	if a.UserID == uuid.Nil || a.MosqueID == uuid.Nil {
		return apperr.Unauthorized("unauthorized")
	}
	if !a.HasRole(roles...) {
		return apperr.Unauthorized("you are not allowed to perform this action")
	}
	return nil
}

// EnsureTenant: resource milik mosque lain dianggap tidak ada.
func (a Actor) EnsureTenant(mosqueID uuid.UUID, what string) error {
	if a.MosqueID != mosqueID {
		return apperr.Hidden(what + " not found")
	}
	return nil
}

// ActorFromCtx membaca Actor dari locals (diisi AuthJWT).
func ActorFromCtx(c *fiber.Ctx) (Actor, error) {
	if a, ok := c.Locals(LocActor).(Actor); ok {
		return a, nil
	}
	uid, err := uuidLocal(c, LocUserID)
	if err != nil {
		return Actor{}, err
	}
	mid, err := uuidLocal(c, LocMosqueID)
	if err != nil {
		return Actor{}, err
	}
	role, _ := c.Locals(LocRole).(string)
	if strings.TrimSpace(role) == "" {
		return Actor{}, apperr.Unauthorized("role missing from token")
	}
	a := Actor{UserID: uid, MosqueID: mid, Role: strings.ToLower(strings.TrimSpace(role))}
	c.Locals(LocActor, a)
	return a, nil
}

func uuidLocal(c *fiber.Ctx, key string) (uuid.UUID, error) {
	switch v := c.Locals(key).(type) {
	case uuid.UUID:
		if v != uuid.Nil {
			return v, nil
		}
	case string:
		if id, err := uuid.Parse(strings.TrimSpace(v)); err == nil && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, apperr.Unauthorized(key + " missing from token")
}

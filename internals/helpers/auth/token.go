package helper

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SignAccessToken menerbitkan HS256 token dengan klaim yang dibaca AuthJWT.
// Penerbitan token produksi ada di identity provider; ini dipakai seeder dev + test.
func SignAccessToken(secret string, a Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       a.UserID.String(),
		"role":      a.Role,
		"mosque_id": a.MosqueID.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

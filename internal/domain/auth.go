package entity

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleRequester = "requester"
	RoleProvider  = "provider"
	RoleAdmin     = "admin"
)

type JWTClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	RoleName string    `json:"role_name"`

	jwt.RegisteredClaims
}

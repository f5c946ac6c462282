package utils

import (
	"errors"
	"time"

	"relief-exchange/internal/config"
	entity "relief-exchange/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "relief-exchange"

var ErrMissingSecret = errors.New("JWT_SECRET is not configured")

// GenerateToken signs an access token for a user issued by the identity
// provider. The API itself only validates tokens; reliefctl uses this to mint
// development tokens.
func GenerateToken(userID uuid.UUID, roleName string) (string, error) {
	jwtCfg := config.LoadJWT()
	if len(jwtCfg.Secret) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := &entity.JWTClaims{
		UserID:   userID,
		RoleName: roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(jwtCfg.TTLHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtCfg.Secret)
}

func ValidateToken(tokenString string) (*entity.JWTClaims, error) {
	jwtCfg := config.LoadJWT()
	if len(jwtCfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &entity.JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtCfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*entity.JWTClaims); ok && token.Valid && claims.UserID != uuid.Nil {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

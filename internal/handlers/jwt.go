package handlers

import (
	"errors"
	"time"

	"converge-backend/internal/common"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const tokenLifetime = 72 * time.Hour

type JwtAuth struct {
	Secret string
}

func NewJwtAuth(secret string) *JwtAuth {
	return &JwtAuth{Secret: secret}
}

func (j *JwtAuth) GenerateToken(email string) (string, error) {
	now := time.Now()
	claims := &common.JwtCustomClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.Secret))
}

// Middleware accepts "Authorization: Bearer <token>" and stores the parsed
// token under the "user" context key
func (j *JwtAuth) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(j.Secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(common.JwtCustomClaims)
		},
	})
}

func (j *JwtAuth) GetUserEmail(c echo.Context) (string, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok || token == nil {
		return "", errors.New("no token in context")
	}

	claims, ok := token.Claims.(*common.JwtCustomClaims)
	if !ok || claims.Email == "" {
		return "", errors.New("token has no email claim")
	}
	return claims.Email, nil
}

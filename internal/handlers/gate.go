package handlers

import (
	"context"
	"errors"
	"net/http"

	"converge-backend/internal/common"
	"converge-backend/internal/models"
	"converge-backend/internal/store"

	"github.com/labstack/echo/v4"
)

type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Gate resolves the caller of a protected route from its JWT
type Gate struct {
	jwt   common.JWTIssuer
	users UserLookup
}

func NewGate(jwt common.JWTIssuer, users UserLookup) *Gate {
	return &Gate{jwt: jwt, users: users}
}

// Require returns the authenticated user, failing unless they hold role.
// An empty role only requires authentication.
func (g *Gate) Require(c echo.Context, role models.Role) (*models.User, error) {
	email, err := g.jwt.GetUserEmail(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errorBody{Message: "Unauthorized request"})
	}

	user, err := g.users.GetUserByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, errorBody{Message: "Unauthorized request"})
		}
		c.Logger().Errorf("Failed to load user %s: %v", email, err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, errorBody{Message: "Internal server error"})
	}

	if role != "" && !user.HasRole(role) {
		return nil, echo.NewHTTPError(http.StatusForbidden, errorBody{Message: "You are not authorized to perform this action"})
	}
	return user, nil
}

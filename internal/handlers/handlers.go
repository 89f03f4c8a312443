package handlers

import (
	"errors"
	"net/http"

	"converge-backend/internal/common"
	"converge-backend/internal/config"
	"converge-backend/internal/store"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	common.ServerState
	gate *Gate
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewAuthHandler(st *store.GormStore, cfg *config.Config, jwt common.JWTIssuer) *AuthHandler {
	return &AuthHandler{
		ServerState: common.ServerState{
			Store:     st,
			Config:    cfg,
			JwtIssuer: jwt,
		},
		gate: NewGate(jwt, st),
	}
}

func (h *AuthHandler) ManualSignIn(c echo.Context) error {
	c.Logger().Info("Received manual sign-in request")
	req := &SignInRequest{}

	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(req); err != nil {
		return toHTTPError(c, err)
	}

	u, err := h.Store.GetUserByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return toHTTPError(c, err)
	}

	if !u.CheckPassword(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.JwtIssuer.GenerateToken(u.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// User returns the caller's profile
func (h *AuthHandler) User(c echo.Context) error {
	user, err := h.gate.Require(c, "")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

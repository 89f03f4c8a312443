package handlers

import (
	"errors"
	"net/http"

	"converge-backend/internal/apperr"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindBusinessRule:
		return http.StatusUnprocessableEntity
	case apperr.KindNotification:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// toHTTPError maps service errors onto HTTP responses. Store and unexpected
// errors are logged and reported with a generic message.
func toHTTPError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, errorBody{Message: "Internal server error"})
	}

	status := statusOf(appErr.Kind)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		return echo.NewHTTPError(status, errorBody{Message: "Internal server error"})
	}
	return echo.NewHTTPError(status, errorBody{Message: appErr.Message, Errors: appErr.Fields})
}

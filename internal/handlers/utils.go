package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// parseID reads a positive numeric path parameter
func parseID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errorBody{Message: "Invalid " + name + ": " + raw})
	}
	return uint(id), nil
}

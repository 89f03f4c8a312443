package handlers

import (
	"net/http"

	"converge-backend/internal/apperr"
	"converge-backend/internal/locations"
	"converge-backend/internal/models"

	"github.com/labstack/echo/v4"
)

type LocationHandler struct {
	gate      *Gate
	locations *locations.Service
}

func NewLocationHandler(gate *Gate, svc *locations.Service) *LocationHandler {
	return &LocationHandler{gate: gate, locations: svc}
}

func (h *LocationHandler) CreateLocation(c echo.Context) error {
	user, err := h.gate.Require(c, models.RoleAdmin)
	if err != nil {
		return err
	}

	in := locations.CreateInput{}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loc, err := h.locations.Create(c.Request().Context(), user, in)
	if err != nil {
		// The location exists even though the admin was not told about it
		if loc != nil && apperr.KindOf(err) == apperr.KindNotification {
			return c.JSON(http.StatusCreated, map[string]interface{}{
				"location": loc,
				"errors":   []string{err.Error()},
			})
		}
		return toHTTPError(c, err)
	}

	c.Logger().Infof("Location %d created by %s", loc.ID, user.Email)
	return c.JSON(http.StatusCreated, map[string]interface{}{"location": loc})
}

func (h *LocationHandler) UpdateLocation(c echo.Context) error {
	user, err := h.gate.Require(c, models.RoleAdmin)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	in := locations.UpdateInput{}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loc, err := h.locations.Update(c.Request().Context(), user, id, in)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"location": loc})
}

func (h *LocationHandler) DeleteLocation(c echo.Context) error {
	user, err := h.gate.Require(c, models.RoleAdmin)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	loc, err := h.locations.Delete(c.Request().Context(), user, id)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"location": loc})
}

func (h *LocationHandler) GetLocation(c echo.Context) error {
	if _, err := h.gate.Require(c, models.RoleAdmin); err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	loc, err := h.locations.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"location": loc})
}

func (h *LocationHandler) ListLocations(c echo.Context) error {
	list, err := h.locations.List(c.Request().Context())
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"locations": list})
}

func (h *LocationHandler) ListRooms(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	rooms, err := h.locations.Rooms(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"rooms": rooms})
}

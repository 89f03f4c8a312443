package handlers

import (
	"net/http"
	"strconv"

	"converge-backend/internal/feedback"
	"converge-backend/internal/models"
	"converge-backend/internal/pagination"

	"github.com/labstack/echo/v4"
)

type FeedbackHandler struct {
	gate     *Gate
	feedback *feedback.Service
}

type CreateResponsesRequest struct {
	Responses []feedback.Item `json:"responses" validate:"dive"`
}

func NewFeedbackHandler(gate *Gate, svc *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{gate: gate, feedback: svc}
}

func (h *FeedbackHandler) CreateResponses(c echo.Context) error {
	user, err := h.gate.Require(c, "")
	if err != nil {
		return err
	}

	roomID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	req := &CreateResponsesRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return toHTTPError(c, err)
	}

	records, err := h.feedback.CreateResponses(c.Request().Context(), user, roomID, req.Responses)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"response": records})
}

func (h *FeedbackHandler) GetRoomResponses(c echo.Context) error {
	if _, err := h.gate.Require(c, models.RoleAdmin); err != nil {
		return err
	}

	roomID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	params, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.feedback.GetRoomResponses(c.Request().Context(), roomID, params)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// pageParams reads the optional page and per_page query arguments
func pageParams(c echo.Context) (pagination.Params, error) {
	params := pagination.Params{}
	args := []struct {
		name string
		dst  **int
	}{
		{"page", &params.Page},
		{"per_page", &params.PerPage},
	}
	for _, arg := range args {
		name := arg.name
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return params, echo.NewHTTPError(http.StatusBadRequest, errorBody{Message: name + " must be a number"})
		}
		*arg.dst = &v
	}
	return params, nil
}

func (h *FeedbackHandler) ResolveRoomResponse(c echo.Context) error {
	if _, err := h.gate.Require(c, models.RoleAdmin); err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	response, err := h.feedback.ResolveRoomResponse(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"room_response": response})
}

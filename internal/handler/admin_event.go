package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/poros-events/housing/internal/model"
	"github.com/poros-events/housing/internal/repository"
)

// CreateEvent handles POST /v1/events.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var body struct {
		Name     string    `json:"name"`
		StartsAt time.Time `json:"starts_at"`
		EndsAt   time.Time `json:"ends_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !body.EndsAt.After(body.StartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}
	ev := &model.Event{Name: name, StartsAt: body.StartsAt, EndsAt: body.EndsAt}
	if err := h.Events.Create(c.Request().Context(), ev); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "event name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create event"})
	}
	return c.JSON(http.StatusCreated, ev)
}

// ListEvents handles GET /v1/events.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	items, err := h.Events.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetEvent handles GET /v1/events/:event_id.
func (h *AdminHandler) GetEvent(c echo.Context) error {
	id, ok := pathID(c, "event_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ev, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, ev)
}

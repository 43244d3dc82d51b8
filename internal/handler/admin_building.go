package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/poros-events/housing/internal/model"
	"github.com/poros-events/housing/internal/repository"
)

// CreateBuilding handles POST /v1/buildings.
func (h *AdminHandler) CreateBuilding(c echo.Context) error {
	var body struct {
		EventID uint64  `json:"event_id"`
		Name    string  `json:"name"`
		Notes   *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if body.EventID == 0 || name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and name are required"})
	}
	if _, err := h.Events.GetByID(c.Request().Context(), body.EventID); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	b := &model.Building{EventID: body.EventID, Name: name, Notes: body.Notes}
	if err := h.Buildings.Create(c.Request().Context(), b); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "building name already exists for this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create building"})
	}
	return c.JSON(http.StatusCreated, b)
}

// ListBuildings handles GET /v1/events/:event_id/buildings.
func (h *AdminHandler) ListBuildings(c echo.Context) error {
	eventID, ok := pathID(c, "event_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Buildings.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateBuilding handles PUT/PATCH /v1/buildings/:id.
func (h *AdminHandler) UpdateBuilding(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name  string  `json:"name"`
		Notes *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	b, err := h.Buildings.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	b.Name = name
	if body.Notes != nil {
		b.Notes = body.Notes
	}
	if err := h.Buildings.Update(c.Request().Context(), b); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "building name already exists for this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// DeleteBuilding handles DELETE /v1/buildings/:id. Buildings with rooms still
// allocated to a group cannot be deleted.
func (h *AdminHandler) DeleteBuilding(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Buildings.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "building has rooms allocated to a group"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBuildingRooms handles GET /v1/buildings/:id/rooms. This is the raw
// inventory view: it includes rooms that do not classify into any demand
// category, unlike the per-group available-rooms endpoint.
func (h *AdminHandler) ListBuildingRooms(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Buildings.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Rooms.ListByBuilding(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

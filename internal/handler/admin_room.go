package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/poros-events/housing/internal/model"
	"github.com/poros-events/housing/internal/repository"
)

type roomReq struct {
	BuildingID  uint64 `json:"building_id"`
	RoomNumber  string `json:"room_number"`
	Gender      string `json:"gender"`
	HousingType string `json:"housing_type"`
	Capacity    uint32 `json:"capacity"`
}

func (rr *roomReq) normalize() (string, bool) {
	rr.RoomNumber = strings.TrimSpace(rr.RoomNumber)
	rr.Gender = strings.ToUpper(strings.TrimSpace(rr.Gender))
	rr.HousingType = strings.ToUpper(strings.TrimSpace(rr.HousingType))
	switch {
	case rr.RoomNumber == "":
		return "room_number is required", false
	case rr.Capacity == 0:
		return "capacity must be at least 1", false
	case !model.ValidGender(rr.Gender):
		return "gender must be MALE, FEMALE or empty", false
	case !model.ValidHousingType(rr.HousingType):
		return "unknown housing_type", false
	}
	return "", true
}

// CreateRoom handles POST /v1/rooms.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var body roomReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BuildingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "building_id is required"})
	}
	if msg, ok := body.normalize(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if _, err := h.Buildings.GetByID(c.Request().Context(), body.BuildingID); err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	rm := &model.Room{
		BuildingID:  body.BuildingID,
		RoomNumber:  body.RoomNumber,
		Gender:      body.Gender,
		HousingType: body.HousingType,
		Capacity:    body.Capacity,
		IsAvailable: true,
	}
	if err := h.Rooms.Create(c.Request().Context(), rm); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists in this building"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
	}
	created, err := h.Rooms.GetByID(c.Request().Context(), rm.ID)
	if err != nil {
		return c.JSON(http.StatusCreated, rm)
	}
	return c.JSON(http.StatusCreated, created)
}

// CreateRoomsBulk handles POST /v1/rooms/bulk. All rooms must belong to the
// same building; the whole batch is validated before any insert.
func (h *AdminHandler) CreateRoomsBulk(c echo.Context) error {
	var body struct {
		BuildingID uint64    `json:"building_id"`
		Rooms      []roomReq `json:"rooms"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BuildingID == 0 || len(body.Rooms) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "building_id and rooms are required"})
	}
	if _, err := h.Buildings.GetByID(c.Request().Context(), body.BuildingID); err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	rooms := make([]model.Room, 0, len(body.Rooms))
	for i := range body.Rooms {
		rr := &body.Rooms[i]
		if msg, ok := rr.normalize(); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("rooms[%d]: %s", i, msg)})
		}
		rooms = append(rooms, model.Room{
			BuildingID:  body.BuildingID,
			RoomNumber:  rr.RoomNumber,
			Gender:      rr.Gender,
			HousingType: rr.HousingType,
			Capacity:    rr.Capacity,
			IsAvailable: true,
		})
	}
	if err := h.Rooms.CreateBulk(c.Request().Context(), rooms); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate room number in this building"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create rooms"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(rooms)})
}

// UpdateRoom handles PUT/PATCH /v1/rooms/:id. Changing gender or housing
// type on an allocated room is allowed; the allocation stays with the group
// and is re-validated the next time the group's allocation is saved.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rm, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		roomReq
		CurrentOccupancy *uint32 `json:"current_occupancy"`
		IsAvailable      *bool   `json:"is_available"`
	}
	body.RoomNumber = rm.RoomNumber
	body.Gender = rm.Gender
	body.HousingType = rm.HousingType
	body.Capacity = rm.Capacity
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := body.normalize(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	rm.RoomNumber = body.RoomNumber
	rm.Gender = body.Gender
	rm.HousingType = body.HousingType
	rm.Capacity = body.Capacity
	if body.CurrentOccupancy != nil {
		rm.CurrentOccupancy = *body.CurrentOccupancy
	}
	if body.IsAvailable != nil {
		rm.IsAvailable = *body.IsAvailable
	}
	if rm.CurrentOccupancy > rm.Capacity {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_occupancy exceeds capacity"})
	}
	if err := h.Rooms.Update(c.Request().Context(), rm); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists in this building"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, rm)
}

// DeleteRoom handles DELETE /v1/rooms/:id. Allocated rooms cannot be deleted.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is allocated to a group"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

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

type rosterCounts struct {
	MaleU18Count         uint32 `json:"male_u18_count"`
	FemaleU18Count       uint32 `json:"female_u18_count"`
	MaleChaperoneCount   uint32 `json:"male_chaperone_count"`
	FemaleChaperoneCount uint32 `json:"female_chaperone_count"`
	MaleAdultCount       uint32 `json:"male_adult_count"`
	FemaleAdultCount     uint32 `json:"female_adult_count"`
	ClergyCount          uint32 `json:"clergy_count"`
}

func (rc rosterCounts) applyTo(g *model.Group) {
	g.MaleU18Count = rc.MaleU18Count
	g.FemaleU18Count = rc.FemaleU18Count
	g.MaleChaperoneCount = rc.MaleChaperoneCount
	g.FemaleChaperoneCount = rc.FemaleChaperoneCount
	g.MaleAdultCount = rc.MaleAdultCount
	g.FemaleAdultCount = rc.FemaleAdultCount
	g.ClergyCount = rc.ClergyCount
}

// CreateGroup handles POST /v1/groups.
func (h *AdminHandler) CreateGroup(c echo.Context) error {
	var body struct {
		EventID      uint64  `json:"event_id"`
		Name         string  `json:"name"`
		LeaderUserID *uint64 `json:"leader_user_id"`
		rosterCounts
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
	g := &model.Group{EventID: body.EventID, Name: name, LeaderUserID: body.LeaderUserID}
	body.applyTo(g)
	if err := h.Groups.Create(c.Request().Context(), g); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "group name already exists for this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create group"})
	}
	return c.JSON(http.StatusCreated, g)
}

// ListGroups handles GET /v1/events/:event_id/groups.
func (h *AdminHandler) ListGroups(c echo.Context) error {
	eventID, ok := pathID(c, "event_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Groups.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetGroup handles GET /v1/groups/:id.
func (h *AdminHandler) GetGroup(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	g, err := h.Groups.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, g)
}

// UpdateGroupRoster handles PUT/PATCH /v1/groups/:id. Roster counts can only
// change before the group's representative submits bed assignments; after
// that the counts are the basis of the submission and editing them here is
// refused.
func (h *AdminHandler) UpdateGroupRoster(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	g, err := h.Groups.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if g.Locked {
		return c.JSON(http.StatusConflict, echo.Map{"error": "group has submitted bed assignments; roster is locked"})
	}
	var body struct {
		Name         string  `json:"name"`
		LeaderUserID *uint64 `json:"leader_user_id"`
		rosterCounts
	}
	body.Name = g.Name
	body.LeaderUserID = g.LeaderUserID
	body.MaleU18Count = g.MaleU18Count
	body.FemaleU18Count = g.FemaleU18Count
	body.MaleChaperoneCount = g.MaleChaperoneCount
	body.FemaleChaperoneCount = g.FemaleChaperoneCount
	body.MaleAdultCount = g.MaleAdultCount
	body.FemaleAdultCount = g.FemaleAdultCount
	body.ClergyCount = g.ClergyCount
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	g.Name = name
	g.LeaderUserID = body.LeaderUserID
	body.applyTo(g)
	if err := h.Groups.UpdateRoster(c.Request().Context(), g); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "group name already exists for this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, g)
}

// LockGroup handles POST /v1/groups/:id/lock. Locking is idempotent; the
// original submission timestamp is preserved on repeat calls.
func (h *AdminHandler) LockGroup(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Groups.Lock(c.Request().Context(), id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lock failed"})
	}
	g, err := h.Groups.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, g)
}

// ListBedAssignments handles GET /v1/groups/:id/bed-assignments.
func (h *AdminHandler) ListBedAssignments(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Groups.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Beds.ListByGroup(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// PutBedAssignments handles PUT /v1/groups/:id/bed-assignments. The whole
// set is replaced; every assignment must land in a room the group currently
// holds, on a bed number within that room's capacity, with no bed used twice.
func (h *AdminHandler) PutBedAssignments(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	g, err := h.Groups.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Assignments []struct {
			RoomID          uint64 `json:"room_id"`
			ParticipantName string `json:"participant_name"`
			BedNumber       uint32 `json:"bed_number"`
		} `json:"assignments"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	roomCap := map[uint64]uint32{} // room id -> capacity, held rooms only
	usedBeds := map[[2]uint64]bool{}
	items := make([]model.BedAssignment, 0, len(body.Assignments))
	for i, a := range body.Assignments {
		name := strings.TrimSpace(a.ParticipantName)
		if name == "" || a.RoomID == 0 || a.BedNumber == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("assignments[%d]: room_id, participant_name and bed_number are required", i)})
		}
		capacity, seen := roomCap[a.RoomID]
		if !seen {
			rm, err := h.Rooms.GetByID(ctx, a.RoomID)
			if err != nil {
				if err == repository.ErrRoomNotFound {
					return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("assignments[%d]: room not found", i)})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
			if rm.AllocatedGroupID == nil || *rm.AllocatedGroupID != g.ID {
				return c.JSON(http.StatusConflict, echo.Map{"error": fmt.Sprintf("assignments[%d]: room %d is not allocated to this group", i, a.RoomID)})
			}
			capacity = rm.Capacity
			roomCap[a.RoomID] = capacity
		}
		if a.BedNumber > capacity {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("assignments[%d]: bed %d exceeds room capacity %d", i, a.BedNumber, capacity)})
		}
		bedKey := [2]uint64{a.RoomID, uint64(a.BedNumber)}
		if usedBeds[bedKey] {
			return c.JSON(http.StatusConflict, echo.Map{"error": fmt.Sprintf("assignments[%d]: bed %d in room %d assigned twice", i, a.BedNumber, a.RoomID)})
		}
		usedBeds[bedKey] = true
		items = append(items, model.BedAssignment{
			GroupID:         g.ID,
			RoomID:          a.RoomID,
			ParticipantName: name,
			BedNumber:       a.BedNumber,
		})
	}

	if err := h.Beds.ReplaceForGroup(ctx, g.ID, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": len(items)})
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/poros-events/housing/internal/housing"
	"github.com/poros-events/housing/internal/queue"
	"github.com/poros-events/housing/internal/repository"
	queue_publisher "github.com/poros-events/housing/internal/service"
)

// AllocationHandler serves the room allocation workflow for one group:
// viewing demand and status, browsing selectable rooms, committing a
// wholesale replacement and clearing. All writes go through the engine so
// the no-double-booking invariant is enforced in one place.
type AllocationHandler struct {
	Engine *housing.Engine
	Groups *repository.GroupRepo
}

func NewAllocationHandler(engine *housing.Engine, groups *repository.GroupRepo) *AllocationHandler {
	if engine == nil || groups == nil {
		panic("nil dependency passed to NewAllocationHandler")
	}
	return &AllocationHandler{Engine: engine, Groups: groups}
}

// allocationError maps engine errors onto HTTP responses. Conflicts carry
// the contested room so the client can refresh just that row.
func allocationError(c echo.Context, err error) error {
	var conflict *housing.ConflictError
	var notFound *housing.NotFoundError
	var invalid *housing.ValidationError
	switch {
	case errors.As(err, &conflict):
		body := echo.Map{"error": "conflict", "message": conflict.Error(), "room_id": conflict.RoomID}
		if conflict.HeldBy != 0 {
			body["held_by"] = conflict.HeldBy
		}
		return c.JSON(http.StatusConflict, body)
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": notFound.Error()})
	case errors.As(err, &invalid):
		body := echo.Map{"error": "validation", "message": invalid.Error()}
		if invalid.RoomID != 0 {
			body["room_id"] = invalid.RoomID
		}
		return c.JSON(http.StatusUnprocessableEntity, body)
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func allocationIDs(c echo.Context) (eventID, groupID uint64, ok bool) {
	eventID, ok = pathID(c, "event_id")
	if !ok {
		return 0, 0, false
	}
	groupID, ok = pathID(c, "group_id")
	if !ok {
		return 0, 0, false
	}
	return eventID, groupID, true
}

// GetAllocation handles GET /v1/events/:event_id/groups/:group_id/allocation.
func (h *AllocationHandler) GetAllocation(c echo.Context) error {
	eventID, groupID, ok := allocationIDs(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	view, err := h.Engine.View(c.Request().Context(), eventID, groupID)
	if err != nil {
		return allocationError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// AvailableRooms handles
// GET /v1/events/:event_id/groups/:group_id/available-rooms?category=...
// The listing applies the free-or-mine rule: rooms held by other groups are
// excluded, rooms this group already holds are included.
func (h *AllocationHandler) AvailableRooms(c echo.Context) error {
	eventID, groupID, ok := allocationIDs(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cat, err := housing.ParseCategory(c.QueryParam("category"))
	if err != nil {
		return allocationError(c, err)
	}
	rooms, err := h.Engine.AvailableRooms(c.Request().Context(), eventID, groupID, cat)
	if err != nil {
		return allocationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"category": cat, "items": rooms})
}

// SaveAllocation handles PUT /v1/events/:event_id/groups/:group_id/allocation.
// The body carries the complete desired room set per category; rooms held
// before but absent from the body are released.
func (h *AllocationHandler) SaveAllocation(c echo.Context) error {
	eventID, groupID, ok := allocationIDs(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Rooms map[string][]uint64 `json:"rooms"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	proposal := make(housing.Proposal, len(body.Rooms))
	for name, ids := range body.Rooms {
		cat, err := housing.ParseCategory(name)
		if err != nil {
			return allocationError(c, err)
		}
		proposal[cat] = ids
	}

	res, err := h.Engine.Allocate(c.Request().Context(), eventID, groupID, proposal)
	if err != nil {
		return allocationError(c, err)
	}

	h.publishSaved(c, eventID, groupID, res)
	return c.JSON(http.StatusOK, res)
}

// ClearAllocation handles
// DELETE /v1/events/:event_id/groups/:group_id/allocation?cascade=beds|keep.
// Clearing is idempotent; cascade defaults to keep.
func (h *AllocationHandler) ClearAllocation(c echo.Context) error {
	eventID, groupID, ok := allocationIDs(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cascade, err := housing.ParseCascadeMode(c.QueryParam("cascade"))
	if err != nil {
		return allocationError(c, err)
	}
	res, err := h.Engine.Clear(c.Request().Context(), eventID, groupID, cascade)
	if err != nil {
		return allocationError(c, err)
	}

	h.publishCleared(c, eventID, groupID, cascade, res)
	return c.JSON(http.StatusOK, res)
}

// MyAllocation handles GET /v1/my/allocation?event_id=... for group
// representatives: the read-only view of their own group.
func (h *AllocationHandler) MyAllocation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, ok := queryID(c, "event_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	g, err := h.Groups.GetByLeader(c.Request().Context(), eventID, uid)
	if err != nil {
		if err == repository.ErrGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no group for this leader"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	view, err := h.Engine.View(c.Request().Context(), eventID, g.ID)
	if err != nil {
		return allocationError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// publishSaved emits the saved event in the background; broker failures are
// logged by the publisher and never fail the request.
func (h *AllocationHandler) publishSaved(c echo.Context, eventID, groupID uint64, res *housing.AllocationResult) {
	uid, _ := getUserID(c)
	groupName := ""
	if g, err := h.Groups.GetByID(c.Request().Context(), groupID); err == nil {
		groupName = g.Name
	}
	ev := queue.AllocationSavedEvent{
		EventID:       eventID,
		GroupID:       groupID,
		GroupName:     groupName,
		ActorUserID:   uid,
		ClaimedRooms:  res.ClaimedRooms,
		ReleasedRooms: res.ReleasedRooms,
		LockedWarning: res.LockedWarning,
		SavedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAllocationSaved(ctx, ev)
	}()
}

func (h *AllocationHandler) publishCleared(c echo.Context, eventID, groupID uint64, cascade housing.CascadeMode, res *housing.ClearResult) {
	uid, _ := getUserID(c)
	groupName := ""
	if g, err := h.Groups.GetByID(c.Request().Context(), groupID); err == nil {
		groupName = g.Name
	}
	ev := queue.AllocationClearedEvent{
		EventID:       eventID,
		GroupID:       groupID,
		GroupName:     groupName,
		ActorUserID:   uid,
		ReleasedRooms: res.ReleasedRooms,
		Cascade:       string(cascade),
		BedsRemoved:   res.BedsCascaded,
		ClearedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAllocationCleared(ctx, ev)
	}()
}

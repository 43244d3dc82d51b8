package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/poros-events/housing/internal/repository"
)

// AdminHandler bundles the inventory and registration repositories used by
// platform staff endpoints.
type AdminHandler struct {
	Events    *repository.EventRepo
	Buildings *repository.BuildingRepo
	Rooms     *repository.RoomRepo
	Groups    *repository.GroupRepo
	Beds      *repository.BedAssignmentRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(events *repository.EventRepo, buildings *repository.BuildingRepo, rooms *repository.RoomRepo, groups *repository.GroupRepo, beds *repository.BedAssignmentRepo) *AdminHandler {
	if events == nil || buildings == nil || rooms == nil || groups == nil || beds == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		Events:    events,
		Buildings: buildings,
		Rooms:     rooms,
		Groups:    groups,
		Beds:      beds,
	}
}

// getUserID extracts the user_id stored by the JWT middleware and converts it
// to uint64. JWT numeric claims decode as float64, so several shapes are
// accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// queryID parses a numeric query parameter.
func queryID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/poros-events/housing/internal/handler"
	"github.com/poros-events/housing/internal/middleware"
)

// RegisterAllocation registers the allocation workflow endpoints. Admins get
// the full read/write surface; leaders get a read-only view of their own
// group. None of these routes are cached.
func RegisterAllocation(e *echo.Echo, h *handler.AllocationHandler, jwtSecret string) {
	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.GET("/events/:event_id/groups/:group_id/allocation", h.GetAllocation)
	admin.GET("/events/:event_id/groups/:group_id/available-rooms", h.AvailableRooms)
	admin.PUT("/events/:event_id/groups/:group_id/allocation", h.SaveAllocation)
	admin.DELETE("/events/:event_id/groups/:group_id/allocation", h.ClearAllocation)

	leader := e.Group(
		"/v1/my",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("LEADER"),
	)
	leader.GET("/allocation", h.MyAllocation)
}

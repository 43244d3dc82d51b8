package router

import (
	"github.com/labstack/echo/v4"

	"github.com/poros-events/housing/internal/handler"
	"github.com/poros-events/housing/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped inventory and registration endpoints
// under /v1. The optional browseCache middleware wraps the inventory browse
// GETs only; allocation state must never be served from cache.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, browseCache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Events ----
	g.POST("/events", a.CreateEvent)
	g.GET("/events", a.ListEvents)
	g.GET("/events/:event_id", a.GetEvent)

	// ---- Buildings ----
	g.POST("/buildings", a.CreateBuilding)
	g.PUT("/buildings/:id", a.UpdateBuilding)
	g.PATCH("/buildings/:id", a.UpdateBuilding)
	g.DELETE("/buildings/:id", a.DeleteBuilding)

	// ---- Rooms ----
	g.POST("/rooms", a.CreateRoom)
	g.POST("/rooms/bulk", a.CreateRoomsBulk)
	g.PUT("/rooms/:id", a.UpdateRoom)
	g.PATCH("/rooms/:id", a.UpdateRoom)
	g.DELETE("/rooms/:id", a.DeleteRoom)

	// ---- Groups ----
	g.POST("/groups", a.CreateGroup)
	g.GET("/events/:event_id/groups", a.ListGroups)
	g.GET("/groups/:id", a.GetGroup)
	g.PUT("/groups/:id", a.UpdateGroupRoster)
	g.PATCH("/groups/:id", a.UpdateGroupRoster)
	g.POST("/groups/:id/lock", a.LockGroup)

	// ---- Bed assignments ----
	g.GET("/groups/:id/bed-assignments", a.ListBedAssignments)
	g.PUT("/groups/:id/bed-assignments", a.PutBedAssignments)

	// ---- Inventory browse (cacheable: structure, not allocation state) ----
	if browseCache == nil {
		browseCache = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	g.GET("/events/:event_id/buildings", a.ListBuildings, browseCache)
	g.GET("/buildings/:id/rooms", a.ListBuildingRooms, browseCache)
}

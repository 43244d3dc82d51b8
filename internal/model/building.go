package model

import "time"

// Building groups rooms under a named structure at the event venue.  Rooms
// always belong to exactly one building; availability listings sort by the
// building name first so operators see a stable, walkable order.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event whose venue this building belongs to.
//  Name      – building name, unique per event.
//  Notes     – optional free-form notes for operators.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Building struct {
	ID        uint64    `json:"id"`
	EventID   uint64    `json:"event_id"`
	Name      string    `json:"name"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

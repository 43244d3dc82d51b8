package model

import "time"

// Event is a single registration event (a camp or conference session).
// Buildings, rooms and groups are all scoped to one event.
type Event struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

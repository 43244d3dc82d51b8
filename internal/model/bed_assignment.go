package model

import "time"

// BedAssignment places a named participant from a group into a specific bed
// of a room the group holds.  Assignments are made downstream of room
// allocation and are not automatically cleared when the allocation is -
// unless the caller asks for a cascade (see the allocation engine).
type BedAssignment struct {
	ID              uint64    `json:"id"`
	GroupID         uint64    `json:"group_id"`
	RoomID          uint64    `json:"room_id"`
	ParticipantName string    `json:"participant_name"`
	BedNumber       uint32    `json:"bed_number"`
	CreatedAt       time.Time `json:"created_at"`
}

package model

import "time"

// Gender values for rooms.  An empty string means the room is ungendered,
// which is only meaningful for clergy housing.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Housing types a room can be tagged with.  Together with the gender tag
// these determine which demand category a room serves.
const (
	HousingYouthU18        = "YOUTH_U18"
	HousingChaperone18Plus = "CHAPERONE_18PLUS"
	HousingClergy          = "CLERGY"
	HousingGeneral         = "GENERAL"
)

// Room is a physical room within a building.  Capacity is the fixed number
// of beds; CurrentOccupancy tracks actual check-ins and is deliberately
// separate from allocation - a room can be allocated to a group before any
// bed in it is occupied.  AllocatedGroupID is the single ownership record
// that prevents double booking: nil means the room is free.
//
// Fields:
//  ID               – primary key identifier.
//  BuildingID       – building this room belongs to.
//  BuildingName     – denormalized building name, populated by joins.
//  RoomNumber       – room label within the building (e.g. "104B").
//  Gender           – MALE, FEMALE or empty for ungendered rooms.
//  HousingType      – one of the Housing* constants.
//  Capacity         – fixed bed count (>= 1).
//  CurrentOccupancy – beds currently checked in (0..Capacity).
//  IsAvailable      – administrative enable flag.
//  AllocatedGroupID – group currently holding the room, nil when free.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Room struct {
	ID               uint64    `json:"id"`
	BuildingID       uint64    `json:"building_id"`
	BuildingName     string    `json:"building_name,omitempty"`
	RoomNumber       string    `json:"room_number"`
	Gender           string    `json:"gender,omitempty"`
	HousingType      string    `json:"housing_type"`
	Capacity         uint32    `json:"capacity"`
	CurrentOccupancy uint32    `json:"current_occupancy"`
	IsAvailable      bool      `json:"is_available"`
	AllocatedGroupID *uint64   `json:"allocated_group_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ValidHousingType reports whether s is one of the recognized housing types.
func ValidHousingType(s string) bool {
	switch s {
	case HousingYouthU18, HousingChaperone18Plus, HousingClergy, HousingGeneral:
		return true
	}
	return false
}

// ValidGender reports whether s is a recognized room gender tag.  The empty
// string is valid and marks an ungendered room.
func ValidGender(s string) bool {
	return s == "" || s == GenderMale || s == GenderFemale
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// AllocationSavedEvent is published after a group's room allocation is
// committed. It carries enough for downstream consumers to log or notify
// without querying the primary database.
type AllocationSavedEvent struct {
	EventID       uint64   `json:"event_id"`
	GroupID       uint64   `json:"group_id"`
	GroupName     string   `json:"group_name"`
	ActorUserID   uint64   `json:"actor_user_id"`
	ClaimedRooms  []uint64 `json:"claimed_rooms"`
	ReleasedRooms []uint64 `json:"released_rooms"`
	LockedWarning bool     `json:"locked_warning"`
	SavedAt       string   `json:"saved_at"`
}

// AllocationClearedEvent is published after a group's allocation is cleared.
type AllocationClearedEvent struct {
	EventID       uint64   `json:"event_id"`
	GroupID       uint64   `json:"group_id"`
	GroupName     string   `json:"group_name"`
	ActorUserID   uint64   `json:"actor_user_id"`
	ReleasedRooms []uint64 `json:"released_rooms"`
	Cascade       string   `json:"cascade"`
	BedsRemoved   int64    `json:"bed_assignments_removed"`
	ClearedAt     string   `json:"cleared_at"`
}

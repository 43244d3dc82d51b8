package housing

import "fmt"

// The engine reports three failure classes.  All of them are detected
// synchronously inside the allocate/clear transaction and surfaced to the
// caller; none are retried internally.  Handlers translate them into HTTP
// 409, 404 and 422 respectively.

// ConflictError means a proposed room cannot be claimed: it is held by
// another group or administratively unavailable at commit time.  HeldBy is
// zero when the conflict is not caused by another group's allocation.
type ConflictError struct {
	RoomID uint64
	HeldBy uint64
	Reason string
}

func (e *ConflictError) Error() string {
	if e.HeldBy != 0 {
		return fmt.Sprintf("room %d is allocated to group %d", e.RoomID, e.HeldBy)
	}
	if e.Reason != "" {
		return fmt.Sprintf("room %d: %s", e.RoomID, e.Reason)
	}
	return fmt.Sprintf("room %d is not claimable", e.RoomID)
}

// NotFoundError means a referenced group or room does not exist or is not
// part of the event being edited.
type NotFoundError struct {
	Kind string // "group" or "room"
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ValidationError covers malformed input: an unknown category name, or a
// room proposed under a category it does not classify into.  RoomID is zero
// when the error is not about a specific room.
type ValidationError struct {
	Msg    string
	RoomID uint64
}

func (e *ValidationError) Error() string { return e.Msg }

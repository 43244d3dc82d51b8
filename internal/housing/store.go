package housing

import (
	"context"

	"github.com/poros-events/housing/internal/model"
)

// StoreTx is the set of operations the engine performs inside one allocation
// transaction.  Implementations must guarantee that everything done through
// a single StoreTx either commits atomically or rolls back entirely, and
// that ClaimRooms re-checks room ownership at write time - the read the
// engine validated against may be stale by the time the write lands.
type StoreTx interface {
	// GroupByID loads a group scoped to an event.  Returns *NotFoundError
	// when no such group exists in the event.
	GroupByID(ctx context.Context, eventID, groupID uint64) (*model.Group, error)

	// RoomsByEvent loads the full room inventory of the event, building
	// names populated.
	RoomsByEvent(ctx context.Context, eventID uint64) ([]model.Room, error)

	// ClaimRooms stamps allocated_group_id = groupID on every listed room,
	// but only where the room is still available and either free or already
	// held by this group.  If any room cannot be claimed the implementation
	// returns *ConflictError naming it and the transaction must roll back.
	ClaimRooms(ctx context.Context, groupID uint64, roomIDs []uint64) error

	// ReleaseRooms clears allocated_group_id on the listed rooms where it is
	// currently set to groupID.  Releasing rooms the group does not hold is
	// a no-op, which keeps clear idempotent.
	ReleaseRooms(ctx context.Context, groupID uint64, roomIDs []uint64) error

	// DeleteBedAssignments removes the group's participant-level bed
	// assignments within the listed rooms and reports how many were removed.
	// Only invoked when the caller opted into the bed cascade on clear.
	DeleteBedAssignments(ctx context.Context, groupID uint64, roomIDs []uint64) (int64, error)
}

// AllocationStore is the persistence boundary the engine reads and writes
// through.  The engine never caches room state across calls; every operation
// re-reads from the store so concurrent edits by other administrators are
// always visible at the transaction boundary.
type AllocationStore interface {
	// InTx runs fn within a single transaction.  If fn returns an error the
	// transaction is rolled back and the error returned unchanged.
	InTx(ctx context.Context, fn func(tx StoreTx) error) error

	// GroupByID and RoomsByEvent serve the read-only view and availability
	// endpoints outside any transaction.
	GroupByID(ctx context.Context, eventID, groupID uint64) (*model.Group, error)
	RoomsByEvent(ctx context.Context, eventID uint64) ([]model.Room, error)
}

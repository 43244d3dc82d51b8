package housing

import (
	"context"
	"fmt"
	"sort"

	"github.com/poros-events/housing/internal/model"
)

// CascadeMode controls what happens to a group's participant-level bed
// assignments when its room allocation is cleared.  The historical behavior
// is CascadeKeep, which leaves assignments pointing at released rooms; the
// caller must pick explicitly rather than inherit that gap by accident.
type CascadeMode string

const (
	CascadeKeep CascadeMode = "keep"
	CascadeBeds CascadeMode = "beds"
)

// ParseCascadeMode validates the cascade query parameter.  An empty value
// defaults to CascadeKeep.
func ParseCascadeMode(s string) (CascadeMode, error) {
	switch CascadeMode(s) {
	case "", CascadeKeep:
		return CascadeKeep, nil
	case CascadeBeds:
		return CascadeBeds, nil
	}
	return "", &ValidationError{Msg: fmt.Sprintf("unknown cascade mode %q", s)}
}

// Proposal is the full desired room set per category for one group.  It is
// built entirely on the caller's side; nothing about an in-progress
// selection is ever persisted.
type Proposal map[Category][]uint64

// AllocationResult reports a committed allocation: the per-category bed
// accounting plus which rooms changed hands.  LockedWarning is set when the
// group's representative already submitted bed assignments, meaning those
// assignments may now be stale.
type AllocationResult struct {
	Categories    []CategorySummary `json:"categories"`
	ClaimedRooms  []uint64          `json:"claimed_rooms"`
	ReleasedRooms []uint64          `json:"released_rooms"`
	LockedWarning bool              `json:"locked_warning"`
}

// ClearResult reports a cleared allocation.
type ClearResult struct {
	ReleasedRooms []uint64 `json:"released_rooms"`
	BedsCascaded  int64    `json:"bed_assignments_removed"`
	LockedWarning bool     `json:"locked_warning"`
}

// GroupAllocationView is the read-only composition served to the allocation
// UI: the group's demand, its currently held rooms and the per-category
// status.
type GroupAllocationView struct {
	Group      *model.Group      `json:"group"`
	Rooms      []model.Room      `json:"rooms"`
	Categories []CategorySummary `json:"categories"`
}

// Engine orchestrates the allocate/clear/status workflow over an
// AllocationStore.  It is stateless; all shared mutable state lives behind
// the store, so concurrent engines over the same store are safe.
type Engine struct {
	store AllocationStore
}

// NewEngine returns an Engine bound to the given store.
func NewEngine(store AllocationStore) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store}
}

// Allocate validates and commits a wholesale replacement of the group's room
// set.  Rooms previously held but absent from the proposal are released;
// proposed rooms are claimed with a write-time ownership re-check.  The
// whole operation succeeds or fails as a unit: on any ConflictError,
// NotFoundError or ValidationError every touched room is left exactly as it
// was before the call.
func (e *Engine) Allocate(ctx context.Context, eventID, groupID uint64, p Proposal) (*AllocationResult, error) {
	var res *AllocationResult
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		g, err := tx.GroupByID(ctx, eventID, groupID)
		if err != nil {
			return err
		}
		rooms, err := tx.RoomsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		byID := make(map[uint64]*model.Room, len(rooms))
		for i := range rooms {
			byID[rooms[i].ID] = &rooms[i]
		}

		// Validate the proposal against the inventory read.  Room ids across
		// categories are necessarily disjoint (a room classifies into
		// exactly one category), so a room listed twice is caught here as a
		// category mismatch on one of its appearances.
		proposed := make(map[uint64]struct{})
		perCategory := make(map[Category][]uint64, len(p))
		for cat, ids := range p {
			clean := make([]uint64, 0, len(ids))
			seen := make(map[uint64]struct{}, len(ids))
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				r, ok := byID[id]
				if !ok {
					return &NotFoundError{Kind: "room", ID: id}
				}
				rc, classifiable := ClassifyRoom(r)
				if !classifiable || rc != cat {
					return &ValidationError{
						Msg:    fmt.Sprintf("room %d does not serve category %s", id, cat),
						RoomID: id,
					}
				}
				if !r.IsAvailable {
					return &ConflictError{RoomID: id, Reason: "room is not available"}
				}
				if r.AllocatedGroupID != nil && *r.AllocatedGroupID != groupID {
					return &ConflictError{RoomID: id, HeldBy: *r.AllocatedGroupID}
				}
				clean = append(clean, id)
				proposed[id] = struct{}{}
			}
			perCategory[cat] = clean
		}

		// Reconcile against the previous state: release what dropped out,
		// claim what is new.  Rooms already held by this group and still
		// proposed are left untouched.
		var toRelease, toClaim []uint64
		for i := range rooms {
			r := &rooms[i]
			if r.AllocatedGroupID == nil || *r.AllocatedGroupID != groupID {
				continue
			}
			if _, keep := proposed[r.ID]; !keep {
				toRelease = append(toRelease, r.ID)
			}
		}
		for id := range proposed {
			r := byID[id]
			if r.AllocatedGroupID == nil || *r.AllocatedGroupID != groupID {
				toClaim = append(toClaim, id)
			}
		}
		sort.Slice(toRelease, func(i, j int) bool { return toRelease[i] < toRelease[j] })
		sort.Slice(toClaim, func(i, j int) bool { return toClaim[i] < toClaim[j] })

		if err := tx.ReleaseRooms(ctx, groupID, toRelease); err != nil {
			return err
		}
		// ClaimRooms re-checks ownership inside the write; a concurrent
		// allocate that grabbed one of these rooms after our read surfaces
		// here as a ConflictError and rolls the whole transaction back.
		if err := tx.ClaimRooms(ctx, groupID, toClaim); err != nil {
			return err
		}

		res = &AllocationResult{
			Categories:    statuses(g, rooms, perCategory),
			ClaimedRooms:  toClaim,
			ReleasedRooms: toRelease,
			LockedWarning: g.Locked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Clear releases every room currently held by the group.  Clearing a group
// with no allocation succeeds as a no-op, so the operation is idempotent.
// With CascadeBeds the group's bed assignments inside the released rooms are
// removed in the same transaction; with CascadeKeep they are left behind and
// may reference rooms the group no longer holds.
func (e *Engine) Clear(ctx context.Context, eventID, groupID uint64, cascade CascadeMode) (*ClearResult, error) {
	var res *ClearResult
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		g, err := tx.GroupByID(ctx, eventID, groupID)
		if err != nil {
			return err
		}
		rooms, err := tx.RoomsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		var held []uint64
		for _, r := range rooms {
			if r.AllocatedGroupID != nil && *r.AllocatedGroupID == groupID {
				held = append(held, r.ID)
			}
		}
		sort.Slice(held, func(i, j int) bool { return held[i] < held[j] })
		if err := tx.ReleaseRooms(ctx, groupID, held); err != nil {
			return err
		}
		res = &ClearResult{ReleasedRooms: held, LockedWarning: g.Locked}
		if cascade == CascadeBeds && len(held) > 0 {
			n, err := tx.DeleteBedAssignments(ctx, groupID, held)
			if err != nil {
				return err
			}
			res.BedsCascaded = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// View composes the read-only allocation view: roster demand, currently held
// rooms and per-category status.  Categories with zero demand and no held
// rooms are omitted.
func (e *Engine) View(ctx context.Context, eventID, groupID uint64) (*GroupAllocationView, error) {
	g, err := e.store.GroupByID(ctx, eventID, groupID)
	if err != nil {
		return nil, err
	}
	rooms, err := e.store.RoomsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	held := make(map[Category][]uint64)
	var heldRooms []model.Room
	for _, r := range rooms {
		if r.AllocatedGroupID == nil || *r.AllocatedGroupID != groupID {
			continue
		}
		heldRooms = append(heldRooms, r)
		if c, ok := ClassifyRoom(&r); ok {
			held[c] = append(held[c], r.ID)
		}
	}
	sort.Slice(heldRooms, func(i, j int) bool {
		if heldRooms[i].BuildingName != heldRooms[j].BuildingName {
			return heldRooms[i].BuildingName < heldRooms[j].BuildingName
		}
		return heldRooms[i].RoomNumber < heldRooms[j].RoomNumber
	})
	return &GroupAllocationView{
		Group:      g,
		Rooms:      heldRooms,
		Categories: statuses(g, rooms, held),
	}, nil
}

// AvailableRooms lists the rooms the group may propose for a category,
// applying the free-or-mine rule.
func (e *Engine) AvailableRooms(ctx context.Context, eventID, groupID uint64, cat Category) ([]model.Room, error) {
	if _, err := e.store.GroupByID(ctx, eventID, groupID); err != nil {
		return nil, err
	}
	rooms, err := e.store.RoomsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return SelectableRooms(rooms, cat, groupID), nil
}

// statuses builds the per-category summaries for every category with nonzero
// demand or a nonzero selection, in canonical category order.
func statuses(g *model.Group, rooms []model.Room, selected map[Category][]uint64) []CategorySummary {
	demand := Demand(g)
	out := make([]CategorySummary, 0, len(demand))
	for _, cat := range Categories() {
		needed := demand[cat]
		ids := selected[cat]
		if needed == 0 && len(ids) == 0 {
			continue
		}
		out = append(out, Summarize(cat, needed, ids, rooms))
	}
	return out
}

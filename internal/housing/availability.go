package housing

import (
	"sort"

	"github.com/poros-events/housing/internal/model"
)

// SelectableRooms returns the rooms an operator may propose for the given
// category on behalf of the given group: rooms that classify into the
// category, are administratively available, and are either free or already
// held by this group.  The free-or-mine rule is what lets an operator reopen
// a saved allocation and see their own rooms alongside newly freed ones
// without releasing anything first.
//
// Results are sorted by (building name, room number) ascending so the
// listing is stable between calls.
func SelectableRooms(rooms []model.Room, cat Category, groupID uint64) []model.Room {
	out := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		c, ok := ClassifyRoom(&r)
		if !ok || c != cat {
			continue
		}
		if !r.IsAvailable {
			continue
		}
		if r.AllocatedGroupID != nil && *r.AllocatedGroupID != groupID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BuildingName != out[j].BuildingName {
			return out[i].BuildingName < out[j].BuildingName
		}
		return out[i].RoomNumber < out[j].RoomNumber
	})
	return out
}

package housing

import "github.com/poros-events/housing/internal/model"

// CategorySummary reports beds selected versus beds needed for one demand
// category.  Sufficient is advisory only: the engine will happily commit an
// under-allocated selection, but every response carries the flag so the
// operator can be warned.
type CategorySummary struct {
	Category     Category `json:"category"`
	NeededBeds   int      `json:"needed_beds"`
	SelectedBeds int      `json:"selected_beds"`
	Sufficient   bool     `json:"sufficient"`
	RoomIDs      []uint64 `json:"room_ids"`
}

// Summarize sums the capacity of the selected rooms that exist in allRooms
// and compares it to the needed bed count.  Selected ids that do not match a
// known room contribute nothing; existence checks are the engine's job.  A
// category with zero demand still reports its selected beds, so clergy rooms
// assigned at zero baseline demand remain visible.
func Summarize(cat Category, neededBeds int, selectedRoomIDs []uint64, allRooms []model.Room) CategorySummary {
	byID := make(map[uint64]*model.Room, len(allRooms))
	for i := range allRooms {
		byID[allRooms[i].ID] = &allRooms[i]
	}
	s := CategorySummary{
		Category:   cat,
		NeededBeds: neededBeds,
		RoomIDs:    make([]uint64, 0, len(selectedRoomIDs)),
	}
	for _, id := range selectedRoomIDs {
		r, ok := byID[id]
		if !ok {
			continue
		}
		s.SelectedBeds += int(r.Capacity)
		s.RoomIDs = append(s.RoomIDs, id)
	}
	s.Sufficient = s.SelectedBeds >= s.NeededBeds
	return s
}

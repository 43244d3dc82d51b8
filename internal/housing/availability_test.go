package housing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poros-events/housing/internal/model"
)

func uptr(v uint64) *uint64 { return &v }

func TestSelectableRoomsAppliesFreeOrMineRule(t *testing.T) {
	rooms := []model.Room{
		{ID: 1, BuildingName: "North", RoomNumber: "101", Gender: model.GenderMale, HousingType: model.HousingYouthU18, Capacity: 4, IsAvailable: true},
		{ID: 2, BuildingName: "North", RoomNumber: "102", Gender: model.GenderMale, HousingType: model.HousingYouthU18, Capacity: 4, IsAvailable: true, AllocatedGroupID: uptr(7)},
		{ID: 3, BuildingName: "North", RoomNumber: "103", Gender: model.GenderMale, HousingType: model.HousingYouthU18, Capacity: 4, IsAvailable: true, AllocatedGroupID: uptr(9)},
	}
	out := SelectableRooms(rooms, MaleMinor, 7)
	require.Len(t, out, 2)
	assert.Equal(t, uint64(1), out[0].ID, "free room included")
	assert.Equal(t, uint64(2), out[1].ID, "own room included")
}

func TestSelectableRoomsExcludesUnavailableAndOtherCategories(t *testing.T) {
	rooms := []model.Room{
		{ID: 1, Gender: model.GenderMale, HousingType: model.HousingYouthU18, IsAvailable: false},
		{ID: 2, Gender: model.GenderFemale, HousingType: model.HousingYouthU18, IsAvailable: true},
		{ID: 3, Gender: "", HousingType: model.HousingGeneral, IsAvailable: true}, // unclassifiable
	}
	assert.Empty(t, SelectableRooms(rooms, MaleMinor, 1))
}

func TestSelectableRoomsSortsByBuildingThenRoomNumber(t *testing.T) {
	rooms := []model.Room{
		{ID: 1, BuildingName: "South", RoomNumber: "201", Gender: model.GenderFemale, HousingType: model.HousingGeneral, IsAvailable: true},
		{ID: 2, BuildingName: "North", RoomNumber: "305", Gender: model.GenderFemale, HousingType: model.HousingGeneral, IsAvailable: true},
		{ID: 3, BuildingName: "North", RoomNumber: "104", Gender: model.GenderFemale, HousingType: model.HousingGeneral, IsAvailable: true},
	}
	out := SelectableRooms(rooms, FemaleAdult, 1)
	require.Len(t, out, 3)
	assert.Equal(t, []uint64{3, 2, 1}, []uint64{out[0].ID, out[1].ID, out[2].ID})
}

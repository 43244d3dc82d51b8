package housing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poros-events/housing/internal/model"
)

func capRooms() []model.Room {
	return []model.Room{
		{ID: 1, Gender: model.GenderMale, HousingType: model.HousingYouthU18, Capacity: 6},
		{ID: 2, Gender: model.GenderMale, HousingType: model.HousingYouthU18, Capacity: 4},
		{ID: 3, HousingType: model.HousingClergy, Capacity: 2},
	}
}

func TestSummarizeSumsSelectedCapacities(t *testing.T) {
	s := Summarize(MaleMinor, 8, []uint64{1, 2}, capRooms())
	assert.Equal(t, 8, s.NeededBeds)
	assert.Equal(t, 10, s.SelectedBeds)
	assert.True(t, s.Sufficient)
	assert.Equal(t, []uint64{1, 2}, s.RoomIDs)
}

func TestSummarizeFlagsInsufficientSelection(t *testing.T) {
	s := Summarize(MaleMinor, 8, []uint64{2}, capRooms())
	assert.Equal(t, 4, s.SelectedBeds)
	assert.False(t, s.Sufficient)
}

func TestSummarizeEmptySelectionAgainstZeroDemand(t *testing.T) {
	s := Summarize(FemaleAdult, 0, nil, capRooms())
	assert.True(t, s.Sufficient, "zero needed is satisfied by zero selected")
	assert.Empty(t, s.RoomIDs)
}

func TestSummarizeReportsSelectionAtZeroDemand(t *testing.T) {
	// Clergy rooms picked for a group with no clergy on the roster must stay
	// visible in the summary.
	s := Summarize(Clergy, 0, []uint64{3}, capRooms())
	assert.Equal(t, 2, s.SelectedBeds)
	assert.True(t, s.Sufficient)
	assert.Equal(t, []uint64{3}, s.RoomIDs)
}

func TestSummarizeIgnoresUnknownRoomIDs(t *testing.T) {
	s := Summarize(MaleMinor, 4, []uint64{1, 99}, capRooms())
	assert.Equal(t, 6, s.SelectedBeds)
	assert.Equal(t, []uint64{1}, s.RoomIDs)
}

package housing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poros-events/housing/internal/model"
)

// memStore is an in-memory AllocationStore with the same transactional
// contract as the MySQL implementation: InTx runs against a copy and only
// commits it when fn succeeds, and ClaimRooms re-checks ownership at write
// time.
type memStore struct {
	groups map[uint64]*model.Group
	rooms  []model.Room
	beds   []model.BedAssignment
}

func (m *memStore) clone() *memStore {
	c := &memStore{
		groups: make(map[uint64]*model.Group, len(m.groups)),
		rooms:  make([]model.Room, len(m.rooms)),
		beds:   append([]model.BedAssignment(nil), m.beds...),
	}
	for id, g := range m.groups {
		gc := *g
		c.groups[id] = &gc
	}
	for i, r := range m.rooms {
		c.rooms[i] = r
		if r.AllocatedGroupID != nil {
			h := *r.AllocatedGroupID
			c.rooms[i].AllocatedGroupID = &h
		}
	}
	return c
}

func (m *memStore) InTx(_ context.Context, fn func(tx StoreTx) error) error {
	work := m.clone()
	if err := fn(&memTx{s: work}); err != nil {
		return err
	}
	*m = *work
	return nil
}

func (m *memStore) GroupByID(ctx context.Context, eventID, groupID uint64) (*model.Group, error) {
	return (&memTx{s: m}).GroupByID(ctx, eventID, groupID)
}

func (m *memStore) RoomsByEvent(ctx context.Context, eventID uint64) ([]model.Room, error) {
	return (&memTx{s: m}).RoomsByEvent(ctx, eventID)
}

type memTx struct {
	s *memStore
}

func (t *memTx) GroupByID(_ context.Context, eventID, groupID uint64) (*model.Group, error) {
	g, ok := t.s.groups[groupID]
	if !ok || g.EventID != eventID {
		return nil, &NotFoundError{Kind: "group", ID: groupID}
	}
	gc := *g
	return &gc, nil
}

func (t *memTx) RoomsByEvent(_ context.Context, _ uint64) ([]model.Room, error) {
	out := make([]model.Room, len(t.s.rooms))
	copy(out, t.s.rooms)
	return out, nil
}

func (t *memTx) ClaimRooms(_ context.Context, groupID uint64, roomIDs []uint64) error {
	for _, id := range roomIDs {
		r := t.room(id)
		if r == nil {
			return &NotFoundError{Kind: "room", ID: id}
		}
		if !r.IsAvailable {
			return &ConflictError{RoomID: id, Reason: "room is not available"}
		}
		if r.AllocatedGroupID != nil && *r.AllocatedGroupID != groupID {
			return &ConflictError{RoomID: id, HeldBy: *r.AllocatedGroupID}
		}
		g := groupID
		r.AllocatedGroupID = &g
	}
	return nil
}

func (t *memTx) ReleaseRooms(_ context.Context, groupID uint64, roomIDs []uint64) error {
	for _, id := range roomIDs {
		r := t.room(id)
		if r != nil && r.AllocatedGroupID != nil && *r.AllocatedGroupID == groupID {
			r.AllocatedGroupID = nil
		}
	}
	return nil
}

func (t *memTx) DeleteBedAssignments(_ context.Context, groupID uint64, roomIDs []uint64) (int64, error) {
	inSet := make(map[uint64]bool, len(roomIDs))
	for _, id := range roomIDs {
		inSet[id] = true
	}
	var kept []model.BedAssignment
	var removed int64
	for _, b := range t.s.beds {
		if b.GroupID == groupID && inSet[b.RoomID] {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	t.s.beds = kept
	return removed, nil
}

func (t *memTx) room(id uint64) *model.Room {
	for i := range t.s.rooms {
		if t.s.rooms[i].ID == id {
			return &t.s.rooms[i]
		}
	}
	return nil
}

const testEvent = uint64(1)

// fixtureStore builds an event with two groups and a small inventory:
//
//	rooms 1,2  MALE/YOUTH_U18 cap 6,4   (building North)
//	rooms 3,4  FEMALE/YOUTH_U18 cap 6,4 (building North)
//	room  5    MALE/GENERAL cap 2       (building South)
//	room  6    FEMALE/CHAPERONE cap 2   (building South)
//	room  7    CLERGY cap 1             (building South)
//	room  8    MALE/YOUTH_U18 cap 8, unavailable
//	room  9    GENERAL, ungendered: unclassifiable
func fixtureStore() *memStore {
	return &memStore{
		groups: map[uint64]*model.Group{
			10: {
				ID: 10, EventID: testEvent, Name: "St. Andrew",
				MaleU18Count: 8, FemaleU18Count: 6,
				MaleChaperoneCount: 1, MaleAdultCount: 1,
				FemaleChaperoneCount: 2, ClergyCount: 1,
			},
			20: {ID: 20, EventID: testEvent, Name: "St. Nicholas", MaleU18Count: 4},
		},
		rooms: []model.Room{
			{ID: 1, BuildingName: "North", RoomNumber: "101", Gender: model.GenderMale, HousingType: model.HousingYouthU18, Capacity: 6, IsAvailable: true},
			{ID: 2, BuildingName: "North", RoomNumber: "102", Gender: model.GenderMale, HousingType: model.HousingYouthU18, Capacity: 4, IsAvailable: true},
			{ID: 3, BuildingName: "North", RoomNumber: "201", Gender: model.GenderFemale, HousingType: model.HousingYouthU18, Capacity: 6, IsAvailable: true},
			{ID: 4, BuildingName: "North", RoomNumber: "202", Gender: model.GenderFemale, HousingType: model.HousingYouthU18, Capacity: 4, IsAvailable: true},
			{ID: 5, BuildingName: "South", RoomNumber: "10", Gender: model.GenderMale, HousingType: model.HousingGeneral, Capacity: 2, IsAvailable: true},
			{ID: 6, BuildingName: "South", RoomNumber: "11", Gender: model.GenderFemale, HousingType: model.HousingChaperone18Plus, Capacity: 2, IsAvailable: true},
			{ID: 7, BuildingName: "South", RoomNumber: "12", HousingType: model.HousingClergy, Capacity: 1, IsAvailable: true},
			{ID: 8, BuildingName: "North", RoomNumber: "103", Gender: model.GenderMale, HousingType: model.HousingYouthU18, Capacity: 8, IsAvailable: false},
			{ID: 9, BuildingName: "South", RoomNumber: "13", HousingType: model.HousingGeneral, Capacity: 4, IsAvailable: true},
		},
	}
}

func holder(s *memStore, roomID uint64) *uint64 {
	for i := range s.rooms {
		if s.rooms[i].ID == roomID {
			return s.rooms[i].AllocatedGroupID
		}
	}
	return nil
}

func summaryFor(t *testing.T, cats []CategorySummary, c Category) CategorySummary {
	t.Helper()
	for _, s := range cats {
		if s.Category == c {
			return s
		}
	}
	t.Fatalf("no summary for category %s", c)
	return CategorySummary{}
}

func TestAllocateCommitsFullProposal(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	res, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{
		MaleMinor:   {1, 2},
		FemaleMinor: {3},
		MaleAdult:   {5},
		FemaleAdult: {6},
		Clergy:      {7},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3, 5, 6, 7}, res.ClaimedRooms)
	assert.Empty(t, res.ReleasedRooms)
	assert.False(t, res.LockedWarning)

	mm := summaryFor(t, res.Categories, MaleMinor)
	assert.Equal(t, 8, mm.NeededBeds)
	assert.Equal(t, 10, mm.SelectedBeds)
	assert.True(t, mm.Sufficient)

	fm := summaryFor(t, res.Categories, FemaleMinor)
	assert.Equal(t, 6, fm.NeededBeds)
	assert.Equal(t, 6, fm.SelectedBeds)
	assert.True(t, fm.Sufficient)

	for _, id := range []uint64{1, 2, 3, 5, 6, 7} {
		h := holder(store, id)
		require.NotNil(t, h, "room %d should be held", id)
		assert.Equal(t, uint64(10), *h)
	}
}

func TestAllocateUnderAllocationIsAdvisoryOnly(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	// 8 male minors but only room 2 (4 beds): commits, flagged insufficient.
	res, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {2}})
	require.NoError(t, err)
	mm := summaryFor(t, res.Categories, MaleMinor)
	assert.Equal(t, 4, mm.SelectedBeds)
	assert.False(t, mm.Sufficient)
	require.NotNil(t, holder(store, 2))
}

func TestAllocateConflictRollsBackEverything(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	// Group 20 already holds room 2.
	_, err := eng.Allocate(context.Background(), testEvent, 20, Proposal{MaleMinor: {2}})
	require.NoError(t, err)

	_, err = eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1, 2}})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint64(2), conflict.RoomID)
	assert.Equal(t, uint64(20), conflict.HeldBy)

	// Nothing from the failed proposal stuck, including the free room.
	assert.Nil(t, holder(store, 1))
	require.NotNil(t, holder(store, 2))
	assert.Equal(t, uint64(20), *holder(store, 2))
}

func TestAllocateReplacesPreviousSelection(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1, 2}})
	require.NoError(t, err)

	res, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {2}})
	require.NoError(t, err)
	assert.Empty(t, res.ClaimedRooms, "room 2 was already held")
	assert.Equal(t, []uint64{1}, res.ReleasedRooms)

	assert.Nil(t, holder(store, 1))

	// The released room is immediately claimable by another group.
	_, err = eng.Allocate(context.Background(), testEvent, 20, Proposal{MaleMinor: {1}})
	require.NoError(t, err)
	assert.Equal(t, uint64(20), *holder(store, 1))
}

func TestAllocateEmptyProposalReleasesAll(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1}, Clergy: {7}})
	require.NoError(t, err)

	res, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 7}, res.ReleasedRooms)
	assert.Nil(t, holder(store, 1))
	assert.Nil(t, holder(store, 7))
}

func TestAllocateRejectsCategoryMismatch(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	// Room 3 is FEMALE/YOUTH_U18; proposing it for male minors must fail.
	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1, 3}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, uint64(3), verr.RoomID)
	assert.Nil(t, holder(store, 1), "partial proposal must not commit")
}

func TestAllocateRejectsUnclassifiableRoom(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	// Room 9 is ungendered GENERAL housing; it serves no category.
	for _, cat := range Categories() {
		_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{cat: {9}})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "category %s", cat)
	}
}

func TestAllocateRejectsUnknownRoom(t *testing.T) {
	eng := NewEngine(fixtureStore())
	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {404}})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "room", nf.Kind)
	assert.Equal(t, uint64(404), nf.ID)
}

func TestAllocateRejectsUnavailableRoom(t *testing.T) {
	eng := NewEngine(fixtureStore())
	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {8}})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint64(8), conflict.RoomID)
	assert.Zero(t, conflict.HeldBy)
}

func TestAllocateUnknownGroup(t *testing.T) {
	eng := NewEngine(fixtureStore())
	_, err := eng.Allocate(context.Background(), testEvent, 999, Proposal{})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "group", nf.Kind)
}

func TestAllocateWarnsWhenGroupLocked(t *testing.T) {
	store := fixtureStore()
	store.groups[10].Locked = true
	eng := NewEngine(store)

	res, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1}})
	require.NoError(t, err, "locked groups stay editable")
	assert.True(t, res.LockedWarning)
}

func TestClearReleasesHeldRoomsAndIsIdempotent(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1, 2}})
	require.NoError(t, err)

	res, err := eng.Clear(context.Background(), testEvent, 10, CascadeKeep)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, res.ReleasedRooms)
	assert.Nil(t, holder(store, 1))
	assert.Nil(t, holder(store, 2))

	again, err := eng.Clear(context.Background(), testEvent, 10, CascadeKeep)
	require.NoError(t, err)
	assert.Empty(t, again.ReleasedRooms)
}

func TestClearCascadeRemovesBedAssignments(t *testing.T) {
	store := fixtureStore()
	store.beds = []model.BedAssignment{
		{ID: 1, GroupID: 10, RoomID: 1, ParticipantName: "A", BedNumber: 1},
		{ID: 2, GroupID: 10, RoomID: 1, ParticipantName: "B", BedNumber: 2},
		{ID: 3, GroupID: 20, RoomID: 2, ParticipantName: "C", BedNumber: 1},
	}
	eng := NewEngine(store)
	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1}})
	require.NoError(t, err)

	res, err := eng.Clear(context.Background(), testEvent, 10, CascadeBeds)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.BedsCascaded)
	require.Len(t, store.beds, 1, "other groups' assignments untouched")
	assert.Equal(t, uint64(20), store.beds[0].GroupID)
}

func TestClearCascadeKeepLeavesBedAssignments(t *testing.T) {
	store := fixtureStore()
	store.beds = []model.BedAssignment{
		{ID: 1, GroupID: 10, RoomID: 1, ParticipantName: "A", BedNumber: 1},
	}
	eng := NewEngine(store)
	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1}})
	require.NoError(t, err)

	res, err := eng.Clear(context.Background(), testEvent, 10, CascadeKeep)
	require.NoError(t, err)
	assert.Zero(t, res.BedsCascaded)
	assert.Len(t, store.beds, 1)
}

func TestViewComposesDemandRoomsAndStatus(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1}, Clergy: {7}})
	require.NoError(t, err)

	view, err := eng.View(context.Background(), testEvent, 10)
	require.NoError(t, err)
	require.Len(t, view.Rooms, 2)
	assert.Equal(t, uint64(1), view.Rooms[0].ID, "North before South")
	assert.Equal(t, uint64(7), view.Rooms[1].ID)

	mm := summaryFor(t, view.Categories, MaleMinor)
	assert.Equal(t, 8, mm.NeededBeds)
	assert.Equal(t, 6, mm.SelectedBeds)
	assert.False(t, mm.Sufficient)
}

func TestViewOmitsIdleCategories(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	// Group 20 has only male minor demand and holds nothing.
	view, err := eng.View(context.Background(), testEvent, 20)
	require.NoError(t, err)
	require.Len(t, view.Categories, 1)
	assert.Equal(t, MaleMinor, view.Categories[0].Category)
}

func TestAvailableRoomsChecksGroupAndFilters(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	_, err := eng.Allocate(context.Background(), testEvent, 20, Proposal{MaleMinor: {2}})
	require.NoError(t, err)

	rooms, err := eng.AvailableRooms(context.Background(), testEvent, 10, MaleMinor)
	require.NoError(t, err)
	require.Len(t, rooms, 1, "room 2 is taken, room 8 unavailable")
	assert.Equal(t, uint64(1), rooms[0].ID)

	_, err = eng.AvailableRooms(context.Background(), testEvent, 999, MaleMinor)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestNoRoomHeldByTwoGroups(t *testing.T) {
	store := fixtureStore()
	eng := NewEngine(store)

	_, err := eng.Allocate(context.Background(), testEvent, 10, Proposal{MaleMinor: {1}})
	require.NoError(t, err)
	_, err = eng.Allocate(context.Background(), testEvent, 20, Proposal{MaleMinor: {1}})
	require.Error(t, err)

	count := 0
	for _, r := range store.rooms {
		if r.AllocatedGroupID != nil && r.ID == 1 {
			count++
			assert.Equal(t, uint64(10), *r.AllocatedGroupID)
		}
	}
	assert.Equal(t, 1, count)
}

func TestParseCascadeMode(t *testing.T) {
	m, err := ParseCascadeMode("")
	require.NoError(t, err)
	assert.Equal(t, CascadeKeep, m)

	m, err = ParseCascadeMode("beds")
	require.NoError(t, err)
	assert.Equal(t, CascadeBeds, m)

	_, err = ParseCascadeMode("rooms")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/poros-events/housing/internal/housing"
	"github.com/poros-events/housing/internal/model"
)

// AllocationRepo is the SQL implementation of housing.AllocationStore.  All
// mutations of rooms.allocated_group_id in the system go through this type;
// nothing else writes that column.  Claims re-verify ownership in the UPDATE
// itself so two administrators racing for the same room cannot both win -
// the loser's transaction rolls back with a ConflictError.
type AllocationRepo struct {
	db *sql.DB
}

// NewAllocationRepo returns an AllocationRepo bound to the given database.
func NewAllocationRepo(db *sql.DB) *AllocationRepo { return &AllocationRepo{db: db} }

// InTx runs fn inside a single transaction, rolling back on any error.
func (r *AllocationRepo) InTx(ctx context.Context, fn func(tx housing.StoreTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&allocationTx{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GroupByID serves read-only loads outside a transaction.
func (r *AllocationRepo) GroupByID(ctx context.Context, eventID, groupID uint64) (*model.Group, error) {
	return scanGroup(ctx, r.db, eventID, groupID)
}

// RoomsByEvent serves read-only inventory loads outside a transaction.
func (r *AllocationRepo) RoomsByEvent(ctx context.Context, eventID uint64) ([]model.Room, error) {
	return scanRooms(ctx, r.db, eventID)
}

// querier abstracts *sql.DB and *sql.Tx so group/room scanning is written
// once for both the transactional and the read-only paths.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// allocationTx implements housing.StoreTx over a live transaction.
type allocationTx struct {
	q *sql.Tx
}

func (t *allocationTx) GroupByID(ctx context.Context, eventID, groupID uint64) (*model.Group, error) {
	return scanGroup(ctx, t.q, eventID, groupID)
}

func (t *allocationTx) RoomsByEvent(ctx context.Context, eventID uint64) ([]model.Room, error) {
	return scanRooms(ctx, t.q, eventID)
}

// ClaimRooms stamps the group onto each room with the ownership check in the
// WHERE clause.  RowsAffected falling short of the id count means some room
// was grabbed by another group (or disabled) between the engine's read and
// this write; the offender is looked up for the error and the whole
// transaction is rolled back by the caller.
func (t *allocationTx) ClaimRooms(ctx context.Context, groupID uint64, roomIDs []uint64) error {
	if len(roomIDs) == 0 {
		return nil
	}
	placeholders, args := inArgs(roomIDs)
	query := `UPDATE rooms
	          SET allocated_group_id = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE id IN (` + placeholders + `)
	            AND is_available = 1
	            AND allocated_group_id IS NULL`
	res, err := t.q.ExecContext(ctx, query, append([]interface{}{groupID}, args...)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == int64(len(roomIDs)) {
		return nil
	}
	return t.findClaimConflict(ctx, groupID, roomIDs)
}

// findClaimConflict identifies which proposed room blocked the claim.
func (t *allocationTx) findClaimConflict(ctx context.Context, groupID uint64, roomIDs []uint64) error {
	placeholders, args := inArgs(roomIDs)
	query := `SELECT id, is_available, allocated_group_id
	          FROM rooms
	          WHERE id IN (` + placeholders + `)`
	rows, err := t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id        uint64
			available bool
			holder    sql.NullInt64
		)
		if err := rows.Scan(&id, &available, &holder); err != nil {
			return err
		}
		if holder.Valid && uint64(holder.Int64) != groupID {
			return &housing.ConflictError{RoomID: id, HeldBy: uint64(holder.Int64)}
		}
		if !available {
			return &housing.ConflictError{RoomID: id, Reason: "room is not available"}
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	// Short row count with no identifiable offender means a proposed id
	// vanished mid-transaction.
	return &housing.NotFoundError{Kind: "room", ID: roomIDs[0]}
}

func (t *allocationTx) ReleaseRooms(ctx context.Context, groupID uint64, roomIDs []uint64) error {
	if len(roomIDs) == 0 {
		return nil
	}
	placeholders, args := inArgs(roomIDs)
	query := `UPDATE rooms
	          SET allocated_group_id = NULL, updated_at = CURRENT_TIMESTAMP
	          WHERE allocated_group_id = ? AND id IN (` + placeholders + `)`
	_, err := t.q.ExecContext(ctx, query, append([]interface{}{groupID}, args...)...)
	return err
}

func (t *allocationTx) DeleteBedAssignments(ctx context.Context, groupID uint64, roomIDs []uint64) (int64, error) {
	if len(roomIDs) == 0 {
		return 0, nil
	}
	placeholders, args := inArgs(roomIDs)
	query := `DELETE FROM bed_assignments WHERE group_id = ? AND room_id IN (` + placeholders + `)`
	res, err := t.q.ExecContext(ctx, query, append([]interface{}{groupID}, args...)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanGroup loads one group scoped to its event.  Missing rows become the
// engine's NotFoundError so handlers see one taxonomy regardless of layer.
func scanGroup(ctx context.Context, q querier, eventID, groupID uint64) (*model.Group, error) {
	const query = `SELECT id, event_id, name, leader_user_id,
	                      male_u18_count, female_u18_count,
	                      male_chaperone_count, female_chaperone_count,
	                      male_adult_count, female_adult_count, clergy_count,
	                      locked, submitted_at, created_at, updated_at
	               FROM event_groups
	               WHERE id = ? AND event_id = ?`
	var (
		g         model.Group
		leader    sql.NullInt64
		submitted sql.NullTime
	)
	err := q.QueryRowContext(ctx, query, groupID, eventID).Scan(
		&g.ID, &g.EventID, &g.Name, &leader,
		&g.MaleU18Count, &g.FemaleU18Count,
		&g.MaleChaperoneCount, &g.FemaleChaperoneCount,
		&g.MaleAdultCount, &g.FemaleAdultCount, &g.ClergyCount,
		&g.Locked, &submitted, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &housing.NotFoundError{Kind: "group", ID: groupID}
		}
		return nil, err
	}
	if leader.Valid {
		id := uint64(leader.Int64)
		g.LeaderUserID = &id
	}
	if submitted.Valid {
		ts := submitted.Time
		g.SubmittedAt = &ts
	}
	return &g, nil
}

// scanRooms loads every room of an event with its building name, ordered by
// (building name, room number) so listings are stable.
func scanRooms(ctx context.Context, q querier, eventID uint64) ([]model.Room, error) {
	const query = `SELECT r.id, r.building_id, b.name, r.room_number,
	                      r.gender, r.housing_type, r.capacity, r.current_occupancy,
	                      r.is_available, r.allocated_group_id, r.created_at, r.updated_at
	               FROM rooms r
	               JOIN buildings b ON b.id = r.building_id
	               WHERE b.event_id = ?
	               ORDER BY b.name, r.room_number`
	rows, err := q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var (
			r      model.Room
			gender sql.NullString
			holder sql.NullInt64
		)
		if err := rows.Scan(
			&r.ID, &r.BuildingID, &r.BuildingName, &r.RoomNumber,
			&gender, &r.HousingType, &r.Capacity, &r.CurrentOccupancy,
			&r.IsAvailable, &holder, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if gender.Valid {
			r.Gender = gender.String
		}
		if holder.Valid {
			id := uint64(holder.Int64)
			r.AllocatedGroupID = &id
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// inArgs builds an IN-clause placeholder list and its argument slice.
func inArgs(ids []uint64) (string, []interface{}) {
	ph := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		ph[i] = "?"
		args[i] = id
	}
	return strings.Join(ph, ","), args
}

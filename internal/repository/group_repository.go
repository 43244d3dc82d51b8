package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/poros-events/housing/internal/model"
)

// ErrGroupNotFound is returned when a group lookup fails.
var ErrGroupNotFound = errors.New("group not found")

// GroupRepo provides methods to create and maintain registered groups and
// their roster counts.  These are plain CRUD operations; allocation state is
// derived from rooms.allocated_group_id and never stored on the group row.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo constructs a GroupRepo with the given DB handle.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

const groupColumns = `id, event_id, name, leader_user_id,
	male_u18_count, female_u18_count,
	male_chaperone_count, female_chaperone_count,
	male_adult_count, female_adult_count, clergy_count,
	locked, submitted_at, created_at, updated_at`

// Create inserts a group with its initial roster counts.  After insert the
// ID, flags and timestamps are populated from the stored row.
func (r *GroupRepo) Create(ctx context.Context, g *model.Group) error {
	const q = `INSERT INTO event_groups
	           (event_id, name, leader_user_id,
	            male_u18_count, female_u18_count,
	            male_chaperone_count, female_chaperone_count,
	            male_adult_count, female_adult_count, clergy_count)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		g.EventID, g.Name, g.LeaderUserID,
		g.MaleU18Count, g.FemaleU18Count,
		g.MaleChaperoneCount, g.FemaleChaperoneCount,
		g.MaleAdultCount, g.FemaleAdultCount, g.ClergyCount,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)

	stored, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	*g = *stored
	return nil
}

// GetByID retrieves a group by its id regardless of event.
func (r *GroupRepo) GetByID(ctx context.Context, id uint64) (*model.Group, error) {
	q := `SELECT ` + groupColumns + ` FROM event_groups WHERE id = ?`
	return r.scanOne(ctx, q, id)
}

// GetByIDAndEvent retrieves a group only when it belongs to the given event.
func (r *GroupRepo) GetByIDAndEvent(ctx context.Context, id, eventID uint64) (*model.Group, error) {
	q := `SELECT ` + groupColumns + ` FROM event_groups WHERE id = ? AND event_id = ?`
	return r.scanOne(ctx, q, id, eventID)
}

// GetByLeader retrieves the group a leader account represents within an
// event, used by the leader-facing read endpoints.
func (r *GroupRepo) GetByLeader(ctx context.Context, eventID, leaderUserID uint64) (*model.Group, error) {
	q := `SELECT ` + groupColumns + ` FROM event_groups WHERE event_id = ? AND leader_user_id = ?`
	return r.scanOne(ctx, q, eventID, leaderUserID)
}

// ListByEvent returns all groups of an event ordered by name.
func (r *GroupRepo) ListByEvent(ctx context.Context, eventID uint64) ([]*model.Group, error) {
	q := `SELECT ` + groupColumns + ` FROM event_groups WHERE event_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Group
	for rows.Next() {
		g, err := scanGroupRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRoster replaces a group's roster counts and name.  Counts may be
// edited at any time pre-lock; post-lock edits are the handler's call to
// allow or refuse.  Returns sql.ErrNoRows when the group does not exist.
func (r *GroupRepo) UpdateRoster(ctx context.Context, g *model.Group) error {
	const q = `UPDATE event_groups
	           SET name = ?, leader_user_id = ?,
	               male_u18_count = ?, female_u18_count = ?,
	               male_chaperone_count = ?, female_chaperone_count = ?,
	               male_adult_count = ?, female_adult_count = ?, clergy_count = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		g.Name, g.LeaderUserID,
		g.MaleU18Count, g.FemaleU18Count,
		g.MaleChaperoneCount, g.FemaleChaperoneCount,
		g.MaleAdultCount, g.FemaleAdultCount, g.ClergyCount,
		g.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Lock marks a group as submitted by its representative.  Locking an
// already-locked group leaves the original submission timestamp in place.
func (r *GroupRepo) Lock(ctx context.Context, id uint64) error {
	const q = `UPDATE event_groups
	           SET locked = 1, submitted_at = COALESCE(submitted_at, CURRENT_TIMESTAMP),
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *GroupRepo) scanOne(ctx context.Context, q string, args ...interface{}) (*model.Group, error) {
	row := r.db.QueryRowContext(ctx, q, args...)
	g, err := scanGroupFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return g, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGroupFrom(s rowScanner) (*model.Group, error) {
	var (
		g         model.Group
		leader    sql.NullInt64
		submitted sql.NullTime
	)
	err := s.Scan(
		&g.ID, &g.EventID, &g.Name, &leader,
		&g.MaleU18Count, &g.FemaleU18Count,
		&g.MaleChaperoneCount, &g.FemaleChaperoneCount,
		&g.MaleAdultCount, &g.FemaleAdultCount, &g.ClergyCount,
		&g.Locked, &submitted, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
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

func scanGroupRow(rows *sql.Rows) (*model.Group, error) {
	return scanGroupFrom(rows)
}

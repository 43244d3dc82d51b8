package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/poros-events/housing/internal/model"
)

// ErrBuildingNotFound is returned when a building lookup fails.
var ErrBuildingNotFound = errors.New("building not found")

// BuildingRepo provides methods to create and retrieve buildings.  It embeds
// a database handle to perform queries and commands.
type BuildingRepo struct {
	db *sql.DB
}

// NewBuildingRepo constructs a BuildingRepo with the given DB handle.
func NewBuildingRepo(db *sql.DB) *BuildingRepo {
	return &BuildingRepo{db: db}
}

// Create inserts a new building.  The building must have EventID and Name
// set.  After insert the ID and timestamps are populated from the stored row.
func (r *BuildingRepo) Create(ctx context.Context, b *model.Building) error {
	const qInsert = `INSERT INTO buildings (event_id, name, notes) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, b.EventID, b.Name, b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = `SELECT id, event_id, name, notes, created_at, updated_at FROM buildings WHERE id = ?`
	var notes sql.NullString
	if err := r.db.QueryRowContext(ctx, qSelect, b.ID).
		Scan(&b.ID, &b.EventID, &b.Name, &notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	return nil
}

// GetByID retrieves a building by its ID.  It returns ErrBuildingNotFound
// when no row is found.
func (r *BuildingRepo) GetByID(ctx context.Context, id uint64) (*model.Building, error) {
	const q = `SELECT id, event_id, name, notes, created_at, updated_at FROM buildings WHERE id = ?`
	var (
		b     model.Building
		notes sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&b.ID, &b.EventID, &b.Name, &notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	return &b, nil
}

// ListByEvent returns all buildings of an event ordered by name.
func (r *BuildingRepo) ListByEvent(ctx context.Context, eventID uint64) ([]*model.Building, error) {
	const q = `SELECT id, event_id, name, notes, created_at, updated_at
	           FROM buildings
	           WHERE event_id = ?
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Building
	for rows.Next() {
		b := new(model.Building)
		var notes sql.NullString
		if err := rows.Scan(&b.ID, &b.EventID, &b.Name, &notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if notes.Valid {
			n := notes.String
			b.Notes = &n
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update renames a building and replaces its notes.  Returns sql.ErrNoRows
// when the building does not exist.
func (r *BuildingRepo) Update(ctx context.Context, b *model.Building) error {
	const q = `UPDATE buildings
	           SET name = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.Notes, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a building.  It refuses with ErrConflict while any of the
// building's rooms are allocated to a group, since deleting them would drop
// allocation state out from under the engine.
func (r *BuildingRepo) Delete(ctx context.Context, id uint64) error {
	const qCheck = `SELECT COUNT(*) FROM rooms WHERE building_id = ? AND allocated_group_id IS NOT NULL`
	var allocated int
	if err := r.db.QueryRowContext(ctx, qCheck, id).Scan(&allocated); err != nil {
		return err
	}
	if allocated > 0 {
		return ErrConflict
	}
	const q = `DELETE FROM buildings WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

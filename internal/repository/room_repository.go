package repository // repository defines data access for rooms

import (
	"context"
	"database/sql"
	"errors"

	"github.com/poros-events/housing/internal/model"
)

// ErrRoomNotFound is returned when a room lookup yields no rows.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo provides methods to work with rooms in the database.  Allocation
// state (allocated_group_id) is read here but never written; all writes of
// that column belong to the AllocationRepo.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a single room record. On success the room's ID is populated.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (building_id, room_number, gender, housing_type, capacity)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rm.BuildingID, rm.RoomNumber, nullStr(rm.Gender), rm.HousingType, rm.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	return nil
}

// CreateBulk inserts multiple rooms in a single statement.
func (r *RoomRepo) CreateBulk(ctx context.Context, rooms []model.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	query := `INSERT INTO rooms (building_id, room_number, gender, housing_type, capacity) VALUES `
	args := make([]interface{}, 0, len(rooms)*5)
	for i, rm := range rooms {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, rm.BuildingID, rm.RoomNumber, nullStr(rm.Gender), rm.HousingType, rm.Capacity)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a room by its id with the building name populated.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT r.id, r.building_id, b.name, r.room_number, r.gender, r.housing_type,
	                  r.capacity, r.current_occupancy, r.is_available, r.allocated_group_id,
	                  r.created_at, r.updated_at
	           FROM rooms r
	           JOIN buildings b ON b.id = r.building_id
	           WHERE r.id = ?`
	var (
		rm     model.Room
		gender sql.NullString
		holder sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rm.ID, &rm.BuildingID, &rm.BuildingName, &rm.RoomNumber, &gender, &rm.HousingType,
		&rm.Capacity, &rm.CurrentOccupancy, &rm.IsAvailable, &holder,
		&rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if gender.Valid {
		rm.Gender = gender.String
	}
	if holder.Valid {
		g := uint64(holder.Int64)
		rm.AllocatedGroupID = &g
	}
	return &rm, nil
}

// ListByBuilding retrieves all rooms of a building ordered by room number.
// Unclassifiable rooms are included; this is the raw inventory listing.
func (r *RoomRepo) ListByBuilding(ctx context.Context, buildingID uint64) ([]model.Room, error) {
	const q = `SELECT r.id, r.building_id, b.name, r.room_number, r.gender, r.housing_type,
	                  r.capacity, r.current_occupancy, r.is_available, r.allocated_group_id,
	                  r.created_at, r.updated_at
	           FROM rooms r
	           JOIN buildings b ON b.id = r.building_id
	           WHERE r.building_id = ?
	           ORDER BY r.room_number`
	rows, err := r.db.QueryContext(ctx, q, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Room
	for rows.Next() {
		var (
			rm     model.Room
			gender sql.NullString
			holder sql.NullInt64
		)
		if err := rows.Scan(
			&rm.ID, &rm.BuildingID, &rm.BuildingName, &rm.RoomNumber, &gender, &rm.HousingType,
			&rm.Capacity, &rm.CurrentOccupancy, &rm.IsAvailable, &holder,
			&rm.CreatedAt, &rm.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if gender.Valid {
			rm.Gender = gender.String
		}
		if holder.Valid {
			g := uint64(holder.Int64)
			rm.AllocatedGroupID = &g
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update changes a room's attributes (number, gender, housing type, capacity,
// occupancy, availability).  Returns sql.ErrNoRows when not found.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	const q = `UPDATE rooms
	           SET room_number = ?, gender = ?, housing_type = ?, capacity = ?,
	               current_occupancy = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		rm.RoomNumber, nullStr(rm.Gender), rm.HousingType, rm.Capacity,
		rm.CurrentOccupancy, rm.IsAvailable, rm.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a room.  A room currently allocated to a group cannot be
// deleted; ErrConflict is returned instead.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM rooms WHERE id = ? AND allocated_group_id IS NULL`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Distinguish "missing" from "still allocated".
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return ErrConflict
	}
	return sql.ErrNoRows
}

// nullStr maps the empty string onto SQL NULL for nullable varchar columns.
func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

package repository

import (
	"context"
	"database/sql"

	"github.com/poros-events/housing/internal/model"
)

// BedAssignmentRepo persists participant-level bed assignments.  These sit
// downstream of room allocation: a group leader places named participants
// into beds of the rooms the group holds.  Assignments are replaced
// wholesale per save, mirroring how the allocation itself is saved.
type BedAssignmentRepo struct {
	db *sql.DB
}

// NewBedAssignmentRepo returns a repo bound to the given database.
func NewBedAssignmentRepo(db *sql.DB) *BedAssignmentRepo {
	return &BedAssignmentRepo{db: db}
}

// ListByGroup returns a group's bed assignments ordered by room then bed.
// Assignments referencing rooms the group no longer holds are returned too;
// surfacing the staleness is the caller's job.
func (r *BedAssignmentRepo) ListByGroup(ctx context.Context, groupID uint64) ([]model.BedAssignment, error) {
	const q = `SELECT id, group_id, room_id, participant_name, bed_number, created_at
	           FROM bed_assignments
	           WHERE group_id = ?
	           ORDER BY room_id, bed_number`
	rows, err := r.db.QueryContext(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BedAssignment, 0)
	for rows.Next() {
		var a model.BedAssignment
		if err := rows.Scan(&a.ID, &a.GroupID, &a.RoomID, &a.ParticipantName, &a.BedNumber, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForGroup deletes the group's existing assignments and inserts the
// provided set in one transaction.
func (r *BedAssignmentRepo) ReplaceForGroup(ctx context.Context, groupID uint64, items []model.BedAssignment) error {
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM bed_assignments WHERE group_id = ?`, groupID); err != nil {
		return err
	}
	if len(items) > 0 {
		query := `INSERT INTO bed_assignments (group_id, room_id, participant_name, bed_number) VALUES `
		args := make([]interface{}, 0, len(items)*4)
		for i, a := range items {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, groupID, a.RoomID, a.ParticipantName, a.BedNumber)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

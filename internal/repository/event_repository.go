package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/poros-events/housing/internal/model"
)

// ErrEventNotFound is returned when an event lookup fails.
var ErrEventNotFound = errors.New("event not found")

// EventRepo provides methods to create and retrieve events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

// Create inserts a new event. On success the event's ID and timestamps are
// populated from the stored row.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const qInsert = `INSERT INTO events (name, starts_at, ends_at) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, e.Name, e.StartsAt, e.EndsAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)

	const qSelect = `SELECT id, name, starts_at, ends_at, created_at, updated_at FROM events WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, e.ID).
		Scan(&e.ID, &e.Name, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID retrieves a single event, returning ErrEventNotFound when no row
// exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, name, starts_at, ends_at, created_at, updated_at FROM events WHERE id = ?`
	var e model.Event
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&e.ID, &e.Name, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns all events ordered by start date descending (newest first).
func (r *EventRepo) List(ctx context.Context) ([]*model.Event, error) {
	const q = `SELECT id, name, starts_at, ends_at, created_at, updated_at
	           FROM events
	           ORDER BY starts_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Event
	for rows.Next() {
		e := new(model.Event)
		if err := rows.Scan(&e.ID, &e.Name, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

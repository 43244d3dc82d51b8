// Package repository implements data access over MySQL.  One repository per
// table, plus the transactional allocation store the housing engine writes
// through.  Sentinel errors defined here are shared across repositories so
// handlers can map failures onto HTTP statuses without string matching.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else, e.g. a group leader reading another
// group's allocation. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed because of
// dependent state, such as deleting a building whose rooms are still
// allocated. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

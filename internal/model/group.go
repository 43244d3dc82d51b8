package model

import "time"

// Group is a registered delegation attending an event.  The seven roster
// counts are set during registration and may be edited by an administrator
// at any time before the group is locked.  Locked means the group's own
// representative has submitted their participant-level assignments; editing
// the allocation after that point is still allowed but downstream bed
// assignments may be stale, so the engine attaches a warning.
//
// Fields:
//  ID                   – primary key identifier.
//  EventID              – event this group is registered for.
//  Name                 – group name, unique per event.
//  LeaderUserID         – account of the group's representative, if linked.
//  MaleU18Count         – male participants under 18.
//  FemaleU18Count       – female participants under 18.
//  MaleChaperoneCount   – designated male chaperones (18+).
//  FemaleChaperoneCount – designated female chaperones (18+).
//  MaleAdultCount       – other male adult participants.
//  FemaleAdultCount     – other female adult participants.
//  ClergyCount          – clergy participants.
//  Locked               – representative has submitted bed assignments.
//  SubmittedAt          – when the submission happened, nil before lock.
//  CreatedAt            – creation timestamp.
//  UpdatedAt            – last update timestamp.
type Group struct {
	ID                   uint64     `json:"id"`
	EventID              uint64     `json:"event_id"`
	Name                 string     `json:"name"`
	LeaderUserID         *uint64    `json:"leader_user_id,omitempty"`
	MaleU18Count         uint32     `json:"male_u18_count"`
	FemaleU18Count       uint32     `json:"female_u18_count"`
	MaleChaperoneCount   uint32     `json:"male_chaperone_count"`
	FemaleChaperoneCount uint32     `json:"female_chaperone_count"`
	MaleAdultCount       uint32     `json:"male_adult_count"`
	FemaleAdultCount     uint32     `json:"female_adult_count"`
	ClergyCount          uint32     `json:"clergy_count"`
	Locked               bool       `json:"locked"`
	SubmittedAt          *time.Time `json:"submitted_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

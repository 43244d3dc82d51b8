// Package housing implements the Poros bed-allocation engine: demand
// classification, capacity accounting and the transactional allocate/clear
// workflow that assigns physical rooms to registered groups.
package housing

import (
	"fmt"
	"strings"

	"github.com/poros-events/housing/internal/model"
)

// Category is one of the five fixed demand buckets used to match people to
// appropriately typed rooms.  Every room and every roster count maps onto
// exactly one Category or is excluded from consideration entirely.
type Category uint8

const (
	MaleMinor Category = iota
	FemaleMinor
	MaleAdult
	FemaleAdult
	Clergy
)

// Categories returns all demand categories in their canonical display order.
// Callers that iterate per-category output should use this instead of ranging
// over a map so responses stay deterministic.
func Categories() []Category {
	return []Category{MaleMinor, FemaleMinor, MaleAdult, FemaleAdult, Clergy}
}

// String returns the wire name of the category as used in API payloads.
func (c Category) String() string {
	switch c {
	case MaleMinor:
		return "MALE_MINOR"
	case FemaleMinor:
		return "FEMALE_MINOR"
	case MaleAdult:
		return "MALE_ADULT"
	case FemaleAdult:
		return "FEMALE_ADULT"
	case Clergy:
		return "CLERGY"
	}
	return "UNKNOWN"
}

// MarshalText lets Category values serialize as their wire names in JSON.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCategory converts a wire name back into a Category.  Matching is
// case-insensitive.  Unknown names produce a ValidationError so handlers can
// report malformed proposals with a 422.
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MALE_MINOR":
		return MaleMinor, nil
	case "FEMALE_MINOR":
		return FemaleMinor, nil
	case "MALE_ADULT":
		return MaleAdult, nil
	case "FEMALE_ADULT":
		return FemaleAdult, nil
	case "CLERGY":
		return Clergy, nil
	}
	return 0, &ValidationError{Msg: fmt.Sprintf("unknown demand category %q", s)}
}

// Classify maps a room's (gender, housing type) pair onto a demand category.
// The second return value is false when the combination is unclassifiable;
// such rooms are excluded from every category-based view but remain visible
// in raw inventory listings.
//
// Classify is the single source of category truth: demand calculation,
// availability listing and commit validation all go through it, so a room can
// never count toward one category and be listed under another.
func Classify(gender, housingType string) (Category, bool) {
	// Clergy housing ignores gender entirely.
	if housingType == model.HousingClergy {
		return Clergy, true
	}
	switch gender {
	case model.GenderMale:
		switch housingType {
		case model.HousingYouthU18:
			return MaleMinor, true
		case model.HousingChaperone18Plus, model.HousingGeneral:
			return MaleAdult, true
		}
	case model.GenderFemale:
		switch housingType {
		case model.HousingYouthU18:
			return FemaleMinor, true
		case model.HousingChaperone18Plus, model.HousingGeneral:
			return FemaleAdult, true
		}
	}
	return 0, false
}

// ClassifyRoom is a convenience wrapper around Classify for room records.
func ClassifyRoom(r *model.Room) (Category, bool) {
	return Classify(r.Gender, r.HousingType)
}

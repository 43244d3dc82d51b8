package housing

import "github.com/poros-events/housing/internal/model"

// AdultBeds folds a group's designated chaperones and its other adult
// attendees into a single bed demand.  Both populations sleep in the same
// adult housing pool, so the merge is a business rule, not an accident of
// arithmetic; keep it in one place so a future category split cannot miss
// half its call sites.
func AdultBeds(chaperones, adults uint32) int {
	return int(chaperones) + int(adults)
}

// Demand derives the per-category bed demand from a group's roster counts.
// Every category is present in the returned map, including zero entries.
func Demand(g *model.Group) map[Category]int {
	return map[Category]int{
		MaleMinor:   int(g.MaleU18Count),
		FemaleMinor: int(g.FemaleU18Count),
		MaleAdult:   AdultBeds(g.MaleChaperoneCount, g.MaleAdultCount),
		FemaleAdult: AdultBeds(g.FemaleChaperoneCount, g.FemaleAdultCount),
		Clergy:      int(g.ClergyCount),
	}
}

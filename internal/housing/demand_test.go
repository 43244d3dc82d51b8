package housing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poros-events/housing/internal/model"
)

func TestAdultBedsMergesChaperonesAndAdults(t *testing.T) {
	assert.Equal(t, 0, AdultBeds(0, 0))
	assert.Equal(t, 3, AdultBeds(3, 0))
	assert.Equal(t, 5, AdultBeds(0, 5))
	assert.Equal(t, 8, AdultBeds(3, 5))
}

func TestDemandFoldsRosterIntoFiveCategories(t *testing.T) {
	g := &model.Group{
		MaleU18Count:         12,
		FemaleU18Count:       9,
		MaleChaperoneCount:   2,
		FemaleChaperoneCount: 3,
		MaleAdultCount:       4,
		FemaleAdultCount:     1,
		ClergyCount:          1,
	}
	d := Demand(g)
	require.Len(t, d, 5)
	assert.Equal(t, 12, d[MaleMinor])
	assert.Equal(t, 9, d[FemaleMinor])
	assert.Equal(t, 6, d[MaleAdult])
	assert.Equal(t, 4, d[FemaleAdult])
	assert.Equal(t, 1, d[Clergy])
}

func TestDemandIncludesZeroCategories(t *testing.T) {
	d := Demand(&model.Group{})
	require.Len(t, d, 5)
	for _, c := range Categories() {
		v, present := d[c]
		assert.True(t, present, "category %s missing", c)
		assert.Zero(t, v)
	}
}

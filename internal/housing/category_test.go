package housing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poros-events/housing/internal/model"
)

func TestClassifyCoversEveryGenderHousingPair(t *testing.T) {
	cases := []struct {
		gender      string
		housingType string
		want        Category
		ok          bool
	}{
		{model.GenderMale, model.HousingYouthU18, MaleMinor, true},
		{model.GenderFemale, model.HousingYouthU18, FemaleMinor, true},
		{model.GenderMale, model.HousingChaperone18Plus, MaleAdult, true},
		{model.GenderFemale, model.HousingChaperone18Plus, FemaleAdult, true},
		{model.GenderMale, model.HousingGeneral, MaleAdult, true},
		{model.GenderFemale, model.HousingGeneral, FemaleAdult, true},

		// Clergy housing ignores the gender tag entirely.
		{model.GenderMale, model.HousingClergy, Clergy, true},
		{model.GenderFemale, model.HousingClergy, Clergy, true},
		{"", model.HousingClergy, Clergy, true},

		// Ungendered non-clergy rooms serve no category.
		{"", model.HousingYouthU18, 0, false},
		{"", model.HousingChaperone18Plus, 0, false},
		{"", model.HousingGeneral, 0, false},

		// Unknown tags never classify.
		{"OTHER", model.HousingGeneral, 0, false},
		{model.GenderMale, "DORM", 0, false},
	}
	for _, tc := range cases {
		got, ok := Classify(tc.gender, tc.housingType)
		assert.Equal(t, tc.ok, ok, "Classify(%q, %q)", tc.gender, tc.housingType)
		if tc.ok {
			assert.Equal(t, tc.want, got, "Classify(%q, %q)", tc.gender, tc.housingType)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first, ok1 := Classify(model.GenderFemale, model.HousingGeneral)
	second, ok2 := Classify(model.GenderFemale, model.HousingGeneral)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestCategoriesOrderMatchesWireNames(t *testing.T) {
	want := []string{"MALE_MINOR", "FEMALE_MINOR", "MALE_ADULT", "FEMALE_ADULT", "CLERGY"}
	cats := Categories()
	require.Len(t, cats, len(want))
	for i, c := range cats {
		assert.Equal(t, want[i], c.String())
	}
}

func TestParseCategoryRoundTrips(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestParseCategoryIsCaseInsensitive(t *testing.T) {
	got, err := ParseCategory("  male_minor ")
	require.NoError(t, err)
	assert.Equal(t, MaleMinor, got)
}

func TestParseCategoryRejectsUnknownNames(t *testing.T) {
	_, err := ParseCategory("TODDLER")
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

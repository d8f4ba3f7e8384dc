package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

func testRoster() []model.Volunteer {
	return []model.Volunteer{
		{ID: "v1", FirstName: "Alice", LastName: "Smith", Active: true, Willing: model.WillingYes, Roles: []string{"Vocals", "Keys"}, Phone: "07700900001"},
		{ID: "v2", FirstName: "Bob", LastName: "Jones", Active: true, Willing: model.WillingYes, Roles: []string{"Vocals"}},
		{ID: "v3", FirstName: "Carol", LastName: "White", Active: false, Willing: model.WillingYes, Roles: []string{"Vocals"}},
		{ID: "v4", FirstName: "Dan", LastName: "Brown", Active: true, Willing: model.WillingUndecided, Roles: []string{"Vocals"}},
		{ID: "v5", FirstName: "Eve", LastName: "Green", Active: true, Willing: model.WillingNo, Roles: []string{"Vocals"}},
	}
}

func TestDetectConflicts_EligibilityFiltering(t *testing.T) {
	slots := []model.Slot{
		{ID: "s1", Date: "2025-06-01", TimeOfDay: "10:00", Missing: []string{"Vocals"}},
	}

	candidates := DetectConflicts(slots, testRoster(), "s1", "Vocals", "")

	// Inactive, unwilling and undecided volunteers are excluded
	require.Len(t, candidates, 2)
	assert.Equal(t, "Alice Smith", candidates[0].Volunteer.FullName())
	assert.Equal(t, "Bob Jones", candidates[1].Volunteer.FullName())
	assert.Equal(t, BadgeFree, candidates[0].Badge)
	assert.Equal(t, BadgeFree, candidates[1].Badge)
}

func TestDetectConflicts_SameOccurrenceBusy(t *testing.T) {
	slots := []model.Slot{
		{
			ID: "s1", Label: "Worship", Date: "2025-06-01", TimeOfDay: "10:00",
			Assignments: []model.Assignment{{Role: "Vocals", VolunteerID: "v1", VolunteerName: "Alice Smith"}},
			Missing:     []string{"Keys"},
		},
	}

	candidates := DetectConflicts(slots, testRoster(), "s1", "Keys", "")

	require.Len(t, candidates, 1)
	assert.Equal(t, "v1", candidates[0].Volunteer.ID)
	// Never "free" for a volunteer already assigned in the same slot
	assert.Equal(t, BadgeBusySameOccurrence, candidates[0].Badge)
}

func TestDetectConflicts_SameDayBusy(t *testing.T) {
	slots := []model.Slot{
		{ID: "s1", Date: "2025-06-01", TimeOfDay: "10:00", Missing: []string{"Vocals"}},
		{
			ID: "s2", Date: "2025-06-01", TimeOfDay: "19:00",
			Assignments: []model.Assignment{{Role: "Vocals", VolunteerID: "v2", VolunteerName: "Bob Jones"}},
		},
	}

	candidates := DetectConflicts(slots, testRoster(), "s1", "Vocals", "")

	require.Len(t, candidates, 2)
	byID := map[string]Badge{}
	for _, c := range candidates {
		byID[c.Volunteer.ID] = c.Badge
	}
	assert.Equal(t, BadgeFree, byID["v1"])
	assert.Equal(t, BadgeBusySameDay, byID["v2"])
}

func TestDetectConflicts_SameOccurrencePrecedesSameDay(t *testing.T) {
	slots := []model.Slot{
		{
			ID: "s1", Date: "2025-06-01", TimeOfDay: "10:00",
			Assignments: []model.Assignment{{Role: "Vocals", VolunteerID: "v1", VolunteerName: "Alice Smith"}},
			Missing:     []string{"Keys"},
		},
		{
			ID: "s2", Date: "2025-06-01", TimeOfDay: "19:00",
			Assignments: []model.Assignment{{Role: "Keys", VolunteerID: "v1", VolunteerName: "Alice Smith"}},
		},
	}

	candidates := DetectConflicts(slots, testRoster(), "s1", "Keys", "Alice")

	require.Len(t, candidates, 1)
	assert.Equal(t, BadgeBusySameOccurrence, candidates[0].Badge)
}

func TestDetectConflicts_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	slots := []model.Slot{
		{ID: "s1", Date: "2025-06-01", TimeOfDay: "10:00", Missing: []string{"Vocals"}},
	}

	candidates := DetectConflicts(slots, testRoster(), "s1", "Vocals", "jon")

	require.Len(t, candidates, 1)
	assert.Equal(t, "Bob Jones", candidates[0].Volunteer.FullName())
}

func TestDetectConflicts_UnknownSlotStillListsEligible(t *testing.T) {
	slots := []model.Slot{
		{ID: "s1", Date: "2025-06-01", TimeOfDay: "10:00", Missing: []string{"Vocals"}},
	}

	candidates := DetectConflicts(slots, testRoster(), "missing-slot", "Vocals", "")

	// No busy information without a target slot, everyone eligible is free
	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.Equal(t, BadgeFree, c.Badge)
	}
}

package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

func TestOrderSlots_ByDateThenTimeThenSortOrder(t *testing.T) {
	slots := []model.Slot{
		{ID: "s3", Date: "2025-06-08", TimeOfDay: "19:00", SortOrder: 2},
		{ID: "s1", Date: "2025-06-01", TimeOfDay: "10:00", SortOrder: 0},
		{ID: "s4", Date: "2025-06-08", TimeOfDay: "10:00", SortOrder: 3},
		{ID: "s2", Date: "2025-06-01", TimeOfDay: "10:00", SortOrder: 1},
	}

	ordered := OrderSlots(slots)

	ids := []string{}
	for _, slot := range ordered {
		ids = append(ids, slot.ID)
	}
	assert.Equal(t, []string{"s1", "s2", "s4", "s3"}, ids)

	// Input order untouched
	assert.Equal(t, "s3", slots[0].ID)
}

func TestRoleColumns_AppearanceOrderAcrossSlots(t *testing.T) {
	slots := []model.Slot{
		{
			ID: "s2", Date: "2025-06-08", TimeOfDay: "10:00",
			Assignments: []model.Assignment{{Role: "Keys", VolunteerID: "v2"}},
			Missing:     []string{"Drums"},
		},
		{
			ID: "s1", Date: "2025-06-01", TimeOfDay: "10:00",
			Assignments: []model.Assignment{{Role: "Vocals", VolunteerID: "v1"}},
			Missing:     []string{"Keys"},
		},
	}

	columns := RoleColumns(slots)

	// s1 comes first chronologically, so its roles lead
	assert.Equal(t, []string{"Vocals", "Keys", "Drums"}, columns)
}

func TestRoleColumns_NoDuplicates(t *testing.T) {
	slots := []model.Slot{
		{ID: "s1", Date: "2025-06-01", Missing: []string{"Vocals"}},
		{ID: "s2", Date: "2025-06-08", Missing: []string{"Vocals"}},
	}

	columns := RoleColumns(slots)
	assert.Equal(t, []string{"Vocals"}, columns)
}

func TestFindSlot_Missing(t *testing.T) {
	slots := []model.Slot{{ID: "s1"}}
	require.Nil(t, FindSlot(slots, "nope"))
	require.NotNil(t, FindSlot(slots, "s1"))
}

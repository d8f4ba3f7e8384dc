package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

func publishedSnapshot() model.ScheduleSnapshot {
	return model.ScheduleSnapshot{
		Status: model.StatusPublished,
		Slots: []model.Slot{
			{
				ID: "s2", Label: "Evening Service", Date: "2025-06-08", TimeOfDay: "19:00",
				Assignments: []model.Assignment{
					{Role: "Keys", VolunteerID: "v1", VolunteerName: "Alice Smith"},
				},
			},
			{
				ID: "s1", Label: "Sunday Worship", Date: "2025-06-01", TimeOfDay: "10:00",
				Assignments: []model.Assignment{
					{Role: "Vocals", VolunteerID: "v1", VolunteerName: "Alice Smith"},
					{Role: "Host", VolunteerID: "v2", VolunteerName: "Bob Jones"},
				},
				Missing: []string{"Drums"},
			},
		},
	}
}

func notifyRoster() []model.Volunteer {
	return []model.Volunteer{
		{ID: "v1", FirstName: "Alice", LastName: "Smith", Phone: "07700900123"},
		{ID: "v2", FirstName: "Bob", LastName: "Jones"}, // no contact number
		{ID: "v3", FirstName: "Carol", LastName: "White", Phone: "07700900456"},
	}
}

func TestResolveRecipients_GroupsByVolunteerSortedByDate(t *testing.T) {
	previews := ResolveRecipients(publishedSnapshot(), model.CategoryFullSchedule, notifyRoster())

	// Carol has zero assignments and must not appear
	require.Len(t, previews, 2)
	assert.Equal(t, "Alice Smith", previews[0].VolunteerName)
	assert.Equal(t, "Bob Jones", previews[1].VolunteerName)

	require.Len(t, previews[0].Slots, 2)
	assert.Equal(t, "2025-06-01", previews[0].Slots[0].Date)
	assert.Equal(t, "Vocals", previews[0].Slots[0].Role)
	assert.Equal(t, "2025-06-08", previews[0].Slots[1].Date)
	assert.Equal(t, "Keys", previews[0].Slots[1].Role)
}

func TestResolveRecipients_ContactAvailability(t *testing.T) {
	previews := ResolveRecipients(publishedSnapshot(), model.CategoryFullSchedule, notifyRoster())

	assert.True(t, previews[0].HasContact)
	assert.False(t, previews[1].HasContact)

	// Contactless recipients are listed but excluded from the count
	assert.Equal(t, 1, WillReceive(previews))
}

func TestResolveRecipients_WillReceiveEqualsRecipientsWithContact(t *testing.T) {
	previews := ResolveRecipients(publishedSnapshot(), model.CategoryReminder1d, notifyRoster())

	withContact := 0
	for _, p := range previews {
		if p.HasContact {
			withContact++
		}
	}
	assert.Equal(t, withContact, WillReceive(previews))
}

func TestResolveRecipients_ReminderCategoriesUseSameGlobalSet(t *testing.T) {
	full := ResolveRecipients(publishedSnapshot(), model.CategoryFullSchedule, notifyRoster())
	reminder := ResolveRecipients(publishedSnapshot(), model.CategoryReminder3d, notifyRoster())
	dayOf := ResolveRecipients(publishedSnapshot(), model.CategoryDayOf, notifyRoster())

	assert.Equal(t, full, reminder)
	assert.Equal(t, full, dayOf)
}

func TestResolveRecipients_DenormalizedNameSurvivesRosterRename(t *testing.T) {
	renamed := notifyRoster()
	renamed[0].FirstName = "Alicia"
	renamed[0].LastName = "Smythe"

	previews := ResolveRecipients(publishedSnapshot(), model.CategoryFullSchedule, renamed)

	// The snapshot's stored display name wins; historical accuracy preserved
	assert.Equal(t, "Alice Smith", previews[0].VolunteerName)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "*********23", MaskPhone("07700900123"))
	assert.Equal(t, "", MaskPhone(""))
	assert.Equal(t, "+** *** ***89", MaskPhone("+44 770 90089"))
}

func TestMaskPhone_ShortNumbers(t *testing.T) {
	assert.Equal(t, "12", MaskPhone("12"))
	assert.Equal(t, "*34", MaskPhone("134"))
}

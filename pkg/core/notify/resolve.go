// Package notify derives notification recipients from a published schedule
// and renders the per-category message text. Everything here is a pure
// function of its inputs; delivery is someone else's job.
package notify

import (
	"sort"
	"strings"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

// ResolveRecipients derives the ordered recipient list for a notification
// category from a published snapshot. Assignments are grouped by volunteer;
// only volunteers with at least one assignment are listed. Each recipient's
// slot list is sorted by date (then time-of-day, then slot order).
//
// Reminder categories receive the same global set: the source data carries
// no date-offset pre-filtering, proximity filtering happens at delivery time.
// Volunteers without a contact number are still listed for operator
// visibility; WillReceive excludes them.
func ResolveRecipients(snapshot model.ScheduleSnapshot, category model.NotificationCategory, roster []model.Volunteer) []model.RecipientPreview {
	phoneByID := make(map[string]string, len(roster))
	for _, volunteer := range roster {
		phoneByID[volunteer.ID] = volunteer.Phone
	}

	type entry struct {
		name  string
		slots []model.RecipientSlot
	}
	byVolunteer := map[string]*entry{}
	order := []string{}

	for _, slot := range snapshot.Slots {
		for _, assignment := range slot.Assignments {
			recipient, exists := byVolunteer[assignment.VolunteerID]
			if !exists {
				recipient = &entry{name: assignment.VolunteerName}
				byVolunteer[assignment.VolunteerID] = recipient
				order = append(order, assignment.VolunteerID)
			}
			recipient.slots = append(recipient.slots, model.RecipientSlot{
				SlotID:    slot.ID,
				Label:     slot.Label,
				Date:      slot.Date,
				TimeOfDay: slot.TimeOfDay,
				Role:      assignment.Role,
			})
		}
	}

	previews := make([]model.RecipientPreview, 0, len(order))
	for _, volunteerID := range order {
		recipient := byVolunteer[volunteerID]

		sort.SliceStable(recipient.slots, func(i, j int) bool {
			if recipient.slots[i].Date != recipient.slots[j].Date {
				return recipient.slots[i].Date < recipient.slots[j].Date
			}
			return recipient.slots[i].TimeOfDay < recipient.slots[j].TimeOfDay
		})

		phone := phoneByID[volunteerID]
		previews = append(previews, model.RecipientPreview{
			VolunteerID:   volunteerID,
			VolunteerName: recipient.name,
			Phone:         MaskPhone(phone),
			HasContact:    phone != "",
			Slots:         recipient.slots,
		})
	}

	// Presentation determinism: order recipients by display name
	sort.SliceStable(previews, func(i, j int) bool {
		return previews[i].VolunteerName < previews[j].VolunteerName
	})

	return previews
}

// WillReceive counts recipients that can actually be reached
func WillReceive(previews []model.RecipientPreview) int {
	count := 0
	for _, preview := range previews {
		if preview.HasContact {
			count++
		}
	}
	return count
}

// MaskPhone hides all but the last two digits of a contact number.
// Non-digit separators are preserved so the shape stays recognizable.
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}

	digitsSeen := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digitsSeen++
		}
	}

	var b strings.Builder
	digitsLeft := digitsSeen
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			if digitsLeft > 2 {
				b.WriteRune('*')
			} else {
				b.WriteRune(r)
			}
			digitsLeft--
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

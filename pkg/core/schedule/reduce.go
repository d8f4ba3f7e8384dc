package schedule

import (
	"fmt"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

// ApplyAssignment applies a single manual assignment change and returns the
// resulting snapshot. The input snapshot is never modified.
//
// A non-empty volunteerID assigns (or reassigns) the volunteer to the role in
// the slot, resolving the display name from the roster and marking the
// assignment as manually altered. An empty volunteerID clears the role,
// putting it back on the slot's missing list exactly once.
//
// The snapshot's alert list is always rebuilt in full from every slot's
// missing list. An unknown slot ID, or a volunteer ID absent from the roster,
// leaves the schedule content unchanged.
func ApplyAssignment(snapshot model.ScheduleSnapshot, slotID, role, volunteerID string, roster []model.Volunteer) model.ScheduleSnapshot {
	next := cloneSnapshot(snapshot)

	slot := FindSlot(next.Slots, slotID)
	if slot == nil {
		next.Alerts = BuildAlerts(next.Slots)
		return next
	}

	if volunteerID != "" {
		volunteer := findVolunteer(roster, volunteerID)
		if volunteer == nil || !roleKnown(slot, role) {
			next.Alerts = BuildAlerts(next.Slots)
			return next
		}

		removeAssignment(slot, role)
		slot.Assignments = append(slot.Assignments, model.Assignment{
			Role:          role,
			VolunteerID:   volunteer.ID,
			VolunteerName: volunteer.FullName(),
			Altered:       true,
		})
		removeMissing(slot, role)
	} else {
		// Clearing a role the slot never required is a no-op; it must not
		// introduce a new missing entry.
		if roleKnown(slot, role) {
			removeAssignment(slot, role)
			removeMissing(slot, role)
			slot.Missing = append(slot.Missing, role)
		}
	}

	next.Alerts = BuildAlerts(next.Slots)
	return next
}

// BuildAlerts flattens every slot's missing list into human-readable alert
// strings, in chronological slot order. This fully replaces any previous
// alert list; alerts are never accumulated or patched incrementally.
func BuildAlerts(slots []model.Slot) []string {
	alerts := []string{}
	for _, slot := range OrderSlots(slots) {
		for _, role := range slot.Missing {
			alerts = append(alerts, fmt.Sprintf("%s (%s %s): %s unfilled", slot.Label, slot.Date, slot.TimeOfDay, role))
		}
	}
	return alerts
}

func cloneSnapshot(snapshot model.ScheduleSnapshot) model.ScheduleSnapshot {
	next := snapshot
	next.Slots = make([]model.Slot, len(snapshot.Slots))
	for i, slot := range snapshot.Slots {
		cloned := slot
		cloned.Assignments = append([]model.Assignment(nil), slot.Assignments...)
		cloned.Missing = append([]string(nil), slot.Missing...)
		next.Slots[i] = cloned
	}
	next.Alerts = append([]string(nil), snapshot.Alerts...)
	if snapshot.PublishedAt != nil {
		published := *snapshot.PublishedAt
		next.PublishedAt = &published
	}
	return next
}

func findVolunteer(roster []model.Volunteer, volunteerID string) *model.Volunteer {
	for i := range roster {
		if roster[i].ID == volunteerID {
			return &roster[i]
		}
	}
	return nil
}

// roleKnown reports whether the slot ever required the role, i.e. it is
// currently carried by either the assignment list or the missing list.
func roleKnown(slot *model.Slot, role string) bool {
	if _, ok := slot.AssignedRole(role); ok {
		return true
	}
	for _, missing := range slot.Missing {
		if missing == role {
			return true
		}
	}
	return false
}

func removeAssignment(slot *model.Slot, role string) {
	kept := slot.Assignments[:0]
	for _, assignment := range slot.Assignments {
		if assignment.Role != role {
			kept = append(kept, assignment)
		}
	}
	slot.Assignments = kept
}

func removeMissing(slot *model.Slot, role string) {
	kept := slot.Missing[:0]
	for _, missing := range slot.Missing {
		if missing != role {
			kept = append(kept, missing)
		}
	}
	slot.Missing = kept
}

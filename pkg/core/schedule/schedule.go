// Package schedule holds the in-memory schedule model and the pure
// transforms over it: chronological ordering, role columns, advisory
// conflict detection and the assignment reducer.
package schedule

import (
	"sort"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

// OrderSlots returns the slots ordered chronologically: by calendar date,
// then time-of-day string, then original generation order. The input slice
// is not modified.
func OrderSlots(slots []model.Slot) []model.Slot {
	ordered := make([]model.Slot, len(slots))
	copy(ordered, slots)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date != ordered[j].Date {
			return ordered[i].Date < ordered[j].Date
		}
		if ordered[i].TimeOfDay != ordered[j].TimeOfDay {
			return ordered[i].TimeOfDay < ordered[j].TimeOfDay
		}
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	return ordered
}

// RoleColumns returns the distinct role names across all slots in order of
// first appearance over the chronologically ordered slot list. Used as the
// display column set for the schedule grid.
func RoleColumns(slots []model.Slot) []string {
	seen := make(map[string]bool)
	columns := []string{}

	for _, slot := range OrderSlots(slots) {
		for _, assignment := range slot.Assignments {
			if !seen[assignment.Role] {
				seen[assignment.Role] = true
				columns = append(columns, assignment.Role)
			}
		}
		for _, role := range slot.Missing {
			if !seen[role] {
				seen[role] = true
				columns = append(columns, role)
			}
		}
	}

	return columns
}

// FindSlot returns a pointer into slots for the slot with the given ID
func FindSlot(slots []model.Slot, slotID string) *model.Slot {
	for i := range slots {
		if slots[i].ID == slotID {
			return &slots[i]
		}
	}
	return nil
}

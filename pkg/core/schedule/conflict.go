package schedule

import (
	"sort"
	"strings"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

// Badge classifies a candidate's availability for a target slot and role.
// Badges are advisory only: the operator may still assign a busy volunteer.
type Badge string

const (
	BadgeFree               Badge = "free"
	BadgeBusySameOccurrence Badge = "busy-same-occurrence"
	BadgeBusySameDay        Badge = "busy-same-day"
)

// Candidate is one eligible volunteer for a (slot, role) pair with their
// availability badge.
type Candidate struct {
	Volunteer model.Volunteer
	Badge     Badge
}

// DetectConflicts computes the eligible candidate list for assigning the
// given role in the target slot. Eligible volunteers are active, willing to
// serve and capable of the role. Each candidate carries a badge: free,
// busy-same-occurrence (already assigned to any role in the target slot) or
// busy-same-day (assigned in another slot sharing the same date).
// Same-occurrence takes precedence when both apply.
//
// search filters candidates by case-insensitive substring match over the
// display name; the result is sorted alphabetically by display name.
func DetectConflicts(slots []model.Slot, roster []model.Volunteer, targetSlotID, role, search string) []Candidate {
	target := FindSlot(slots, targetSlotID)

	sameSlotBusy := make(map[string]bool)
	sameDayBusy := make(map[string]bool)

	if target != nil {
		for _, assignment := range target.Assignments {
			sameSlotBusy[assignment.VolunteerID] = true
		}
		for _, slot := range slots {
			if slot.ID == target.ID || slot.Date != target.Date {
				continue
			}
			for _, assignment := range slot.Assignments {
				sameDayBusy[assignment.VolunteerID] = true
			}
		}
	}

	needle := strings.ToLower(strings.TrimSpace(search))

	candidates := []Candidate{}
	for _, volunteer := range roster {
		if !volunteer.Active || volunteer.Willing != model.WillingYes || !volunteer.HasRole(role) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(volunteer.FullName()), needle) {
			continue
		}

		badge := BadgeFree
		switch {
		case sameSlotBusy[volunteer.ID]:
			badge = BadgeBusySameOccurrence
		case sameDayBusy[volunteer.ID]:
			badge = BadgeBusySameDay
		}

		candidates = append(candidates, Candidate{Volunteer: volunteer, Badge: badge})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Volunteer.FullName() < candidates[j].Volunteer.FullName()
	})

	return candidates
}

// Package generator builds draft schedule snapshots from the configured
// recurring service patterns. It stands in for the server-side generation
// algorithm: the fill strategy is a plain deterministic rotation, good
// enough to hand the operator a structurally valid draft to edit.
package generator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/dancove/ministry-rota/internal/config"
	"github.com/dancove/ministry-rota/pkg/core/model"
	"github.com/dancove/ministry-rota/pkg/core/schedule"
)

// RosterLister supplies the roster the generator fills slots from
type RosterLister interface {
	ListVolunteers(ctx context.Context, linkID string) ([]model.Volunteer, error)
}

// Generator expands service patterns over a rolling window and fills roles
type Generator struct {
	patterns []config.ServicePattern
	roster   RosterLister
	logger   *zap.Logger

	// WindowDays is how far ahead slots are generated
	WindowDays int
	// Now is injectable for deterministic tests
	Now func() time.Time
}

// New creates a generator over the configured service patterns
func New(patterns []config.ServicePattern, roster RosterLister, logger *zap.Logger) *Generator {
	return &Generator{
		patterns:   patterns,
		roster:     roster,
		logger:     logger,
		WindowDays: 28,
		Now:        time.Now,
	}
}

// Generate produces a fresh draft snapshot for the link: every pattern
// occurrence inside the window becomes a slot, roles are filled by a
// deterministic rotation over the eligible roster, and anything unfillable
// lands on the missing list.
func (g *Generator) Generate(ctx context.Context, linkID string) (*model.ScheduleSnapshot, error) {
	roster, err := g.roster.ListVolunteers(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	start := startOfDay(g.Now())
	end := start.AddDate(0, 0, g.WindowDays)

	g.logger.Debug("Generating slots",
		zap.String("link_id", linkID),
		zap.Int("pattern_count", len(g.patterns)),
		zap.Time("window_start", start),
		zap.Time("window_end", end))

	slots := []model.Slot{}
	for i, pattern := range g.patterns {
		occurrences, err := Occurrences(pattern, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to expand pattern %d (%s): %w", i, pattern.Label, err)
		}
		for _, date := range occurrences {
			slots = append(slots, model.Slot{
				ID:        uuid.New().String(),
				Category:  model.SlotCategory(pattern.Category),
				Label:     pattern.Label,
				Date:      date,
				TimeOfDay: pattern.TimeOfDay,
				SortOrder: len(slots),
				Missing:   append([]string(nil), pattern.Roles...),
			})
		}
	}

	slots = schedule.OrderSlots(slots)
	g.fill(slots, roster)

	snapshot := &model.ScheduleSnapshot{
		Status:      model.StatusDraft,
		Slots:       slots,
		Alerts:      schedule.BuildAlerts(slots),
		GeneratedAt: g.Now().UTC(),
	}

	g.logger.Info("Schedule generated",
		zap.String("link_id", linkID),
		zap.Int("slot_count", len(slots)),
		zap.Int("alert_count", len(snapshot.Alerts)))

	return snapshot, nil
}

// fill assigns roles slot by slot, preferring the eligible volunteer with
// the fewest assignments so far, skipping anyone already busy on the same
// date when someone free is available. Ties break alphabetically, so the
// result is stable for a given roster.
func (g *Generator) fill(slots []model.Slot, roster []model.Volunteer) {
	assignedCount := map[string]int{}
	busyByDate := map[string]map[string]bool{}

	for i := range slots {
		slot := &slots[i]
		if busyByDate[slot.Date] == nil {
			busyByDate[slot.Date] = map[string]bool{}
		}

		remaining := []string{}
		for _, role := range slot.Missing {
			chosen := pickVolunteer(roster, role, assignedCount, busyByDate[slot.Date])
			if chosen == nil {
				remaining = append(remaining, role)
				continue
			}
			slot.Assignments = append(slot.Assignments, model.Assignment{
				Role:          role,
				VolunteerID:   chosen.ID,
				VolunteerName: chosen.FullName(),
			})
			assignedCount[chosen.ID]++
			busyByDate[slot.Date][chosen.ID] = true
		}
		slot.Missing = remaining
	}
}

func pickVolunteer(roster []model.Volunteer, role string, assignedCount map[string]int, busyToday map[string]bool) *model.Volunteer {
	eligible := []model.Volunteer{}
	for _, volunteer := range roster {
		if volunteer.Active && volunteer.Willing == model.WillingYes && volunteer.HasRole(role) {
			eligible = append(eligible, volunteer)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	sort.Slice(eligible, func(i, j int) bool {
		if assignedCount[eligible[i].ID] != assignedCount[eligible[j].ID] {
			return assignedCount[eligible[i].ID] < assignedCount[eligible[j].ID]
		}
		return eligible[i].FullName() < eligible[j].FullName()
	})

	// Prefer someone not already serving that day
	for i := range eligible {
		if !busyToday[eligible[i].ID] {
			return &eligible[i]
		}
	}
	return &eligible[0]
}

// Occurrences expands a pattern's rrule into the dates falling inside
// [start, end), formatted as "2006-01-02".
func Occurrences(pattern config.ServicePattern, start, end time.Time) ([]string, error) {
	rule, err := rrule.StrToRRule(pattern.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule: %w", err)
	}
	rule.DTStart(start)

	dates := []string{}
	for _, occurrence := range rule.Between(start, end, true) {
		if !occurrence.Before(end) {
			continue
		}
		dates = append(dates, occurrence.Format("2006-01-02"))
	}
	return dates, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

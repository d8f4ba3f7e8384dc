// Package session owns the working copy of a schedule and drives its
// draft/published lifecycle. All mutations are serialized through a busy
// flag; a second concurrent mutation is rejected with ErrBusy.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dancove/ministry-rota/pkg/core/model"
	"github.com/dancove/ministry-rota/pkg/core/schedule"
)

// ErrBusy is returned when a mutation is attempted while another one is in
// flight.
var ErrBusy = errors.New("another schedule operation is in flight")

// ErrNoWorkingCopy is returned when a mutation requires a working snapshot
// and none has been generated or loaded yet.
var ErrNoWorkingCopy = errors.New("no working schedule - generate one first")

// Generator produces a fresh draft snapshot for a schedule link. The real
// availability-optimizing generator lives server-side; this core only
// consumes its output.
type Generator interface {
	Generate(ctx context.Context, linkID string) (*model.ScheduleSnapshot, error)
}

// ScheduleStore defines the persistence operations the session needs
type ScheduleStore interface {
	GetPublished(ctx context.Context, linkID string) (*model.ScheduleSnapshot, error)
	SaveSnapshot(ctx context.Context, linkID string, snapshot model.ScheduleSnapshot) error
}

// RosterStore defines the roster operations the session needs
type RosterStore interface {
	ListVolunteers(ctx context.Context, linkID string) ([]model.Volunteer, error)
	UpdateVolunteerPhone(ctx context.Context, volunteerID, phone string) error
}

// Session is the single active editor of one schedule link. It owns the
// working snapshot exclusively and replaces it wholesale on every accepted
// mutation; readers never observe partial states.
type Session struct {
	linkID    string
	generator Generator
	store     ScheduleStore
	roster    RosterStore
	logger    *zap.Logger

	mu      sync.Mutex
	busy    bool
	working *model.ScheduleSnapshot
	members []model.Volunteer

	notices chan Notice
	onPhase func(EditPhase)
}

// NewSession creates a session for the given schedule link
func NewSession(linkID string, generator Generator, store ScheduleStore, roster RosterStore, logger *zap.Logger) *Session {
	return &Session{
		linkID:    linkID,
		generator: generator,
		store:     store,
		roster:    roster,
		logger:    logger,
		notices:   make(chan Notice, noticeBuffer),
	}
}

// acquire marks the session busy, or fails if a mutation is already running
func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Working returns a copy of the current working snapshot, or false when no
// schedule has been generated yet.
func (s *Session) Working() (model.ScheduleSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.working == nil {
		return model.ScheduleSnapshot{}, false
	}
	return *s.working, true
}

// Generate produces a fresh draft snapshot and installs it as the working
// copy, discarding any unsaved manual edits. A previously published snapshot
// stays live until the new draft is explicitly published.
func (s *Session) Generate(ctx context.Context) (model.ScheduleSnapshot, error) {
	if err := s.acquire(); err != nil {
		return model.ScheduleSnapshot{}, err
	}
	defer s.release()

	s.logger.Debug("Generating schedule", zap.String("link_id", s.linkID))

	snapshot, err := s.generator.Generate(ctx, s.linkID)
	if err != nil {
		s.notify(LevelError, fmt.Sprintf("schedule generation failed: %v", err))
		return model.ScheduleSnapshot{}, fmt.Errorf("failed to generate schedule: %w", err)
	}

	snapshot.Status = model.StatusDraft
	snapshot.Alerts = schedule.BuildAlerts(snapshot.Slots)

	s.mu.Lock()
	s.working = snapshot
	s.mu.Unlock()

	s.logger.Info("Working schedule replaced",
		zap.String("link_id", s.linkID),
		zap.Int("slot_count", len(snapshot.Slots)),
		zap.Int("alert_count", len(snapshot.Alerts)))
	s.notify(LevelInfo, fmt.Sprintf("generated draft schedule with %d slots", len(snapshot.Slots)))

	return *snapshot, nil
}

// Apply runs a single manual assignment change against the working copy.
// volunteerID may be empty to clear the role. The working snapshot is
// replaced atomically with the reducer's output.
func (s *Session) Apply(ctx context.Context, slotID, role, volunteerID string) (model.ScheduleSnapshot, error) {
	if err := s.acquire(); err != nil {
		return model.ScheduleSnapshot{}, err
	}
	defer s.release()

	s.mu.Lock()
	working := s.working
	s.mu.Unlock()
	if working == nil {
		return model.ScheduleSnapshot{}, ErrNoWorkingCopy
	}

	roster, err := s.loadRoster(ctx)
	if err != nil {
		s.notify(LevelError, fmt.Sprintf("roster unavailable: %v", err))
		return model.ScheduleSnapshot{}, err
	}

	if schedule.FindSlot(working.Slots, slotID) == nil {
		s.logger.Warn("Assignment references unknown slot",
			zap.String("slot_id", slotID),
			zap.String("role", role))
	}

	next := schedule.ApplyAssignment(*working, slotID, role, volunteerID, roster)

	s.mu.Lock()
	s.working = &next
	s.mu.Unlock()

	s.logger.Debug("Assignment applied",
		zap.String("slot_id", slotID),
		zap.String("role", role),
		zap.String("volunteer_id", volunteerID),
		zap.Int("alert_count", len(next.Alerts)))

	return next, nil
}

// Candidates lists eligible volunteers for a (slot, role) pair with their
// advisory availability badges. Read-only; not serialized by the busy flag.
func (s *Session) Candidates(ctx context.Context, slotID, role, search string) ([]schedule.Candidate, error) {
	s.mu.Lock()
	working := s.working
	s.mu.Unlock()
	if working == nil {
		return nil, ErrNoWorkingCopy
	}

	roster, err := s.loadRoster(ctx)
	if err != nil {
		return nil, err
	}

	return schedule.DetectConflicts(working.Slots, roster, slotID, role, search), nil
}

// SaveDraft persists the working snapshot verbatim with draft status
func (s *Session) SaveDraft(ctx context.Context) error {
	return s.save(ctx, model.StatusDraft)
}

// Publish persists the working snapshot with published status and a publish
// timestamp. A published snapshot is what recipient resolution and dispatch
// operate on.
func (s *Session) Publish(ctx context.Context) error {
	return s.save(ctx, model.StatusPublished)
}

func (s *Session) save(ctx context.Context, status model.ScheduleStatus) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	working := s.working
	s.mu.Unlock()
	if working == nil {
		return ErrNoWorkingCopy
	}

	candidate := *working
	candidate.Status = status
	if status == model.StatusPublished {
		now := time.Now().UTC()
		candidate.PublishedAt = &now
	}

	s.logger.Debug("Saving schedule",
		zap.String("link_id", s.linkID),
		zap.String("status", string(status)))

	if err := s.store.SaveSnapshot(ctx, s.linkID, candidate); err != nil {
		// The working snapshot is left untouched by a failed remote call
		s.notify(LevelError, fmt.Sprintf("save failed: %v", err))
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	s.mu.Lock()
	s.working = &candidate
	s.mu.Unlock()

	s.logger.Info("Schedule saved",
		zap.String("link_id", s.linkID),
		zap.String("status", string(status)))
	if status == model.StatusPublished {
		s.notify(LevelInfo, "schedule published")
	} else {
		s.notify(LevelInfo, "draft saved")
	}

	return nil
}

// Published fetches the live published snapshot, or nil when none exists
func (s *Session) Published(ctx context.Context) (*model.ScheduleSnapshot, error) {
	snapshot, err := s.store.GetPublished(ctx, s.linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch published schedule: %w", err)
	}
	return snapshot, nil
}

func (s *Session) loadRoster(ctx context.Context) ([]model.Volunteer, error) {
	s.mu.Lock()
	cached := s.members
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	roster, err := s.roster.ListVolunteers(ctx, s.linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	s.mu.Lock()
	s.members = roster
	s.mu.Unlock()
	return roster, nil
}

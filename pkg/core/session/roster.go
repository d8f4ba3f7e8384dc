package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EditPhase is the observable state of an optimistic roster edit
type EditPhase string

const (
	PhaseTentative  EditPhase = "tentative"
	PhaseConfirmed  EditPhase = "confirmed"
	PhaseRolledBack EditPhase = "rolled-back"
)

// SetPhaseHook installs an observer for roster edit phases. Used by callers
// that want to render the tentative state, and by tests.
func (s *Session) SetPhaseHook(hook func(EditPhase)) {
	s.mu.Lock()
	s.onPhase = hook
	s.mu.Unlock()
}

func (s *Session) phase(p EditPhase) {
	s.mu.Lock()
	hook := s.onPhase
	s.mu.Unlock()
	if hook != nil {
		hook(p)
	}
}

// SetVolunteerPhone updates a volunteer's contact number as a two-phase
// commit: the cached roster is changed tentatively, then confirmed or rolled
// back to the prior value based on the store's acknowledgment.
func (s *Session) SetVolunteerPhone(ctx context.Context, volunteerID, phone string) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	roster, err := s.loadRoster(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range roster {
		if roster[i].ID == volunteerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("volunteer not found: %s", volunteerID)
	}

	prior := roster[idx].Phone

	// Phase 1: tentative local apply
	s.mu.Lock()
	s.members[idx].Phone = phone
	s.mu.Unlock()
	s.phase(PhaseTentative)

	if err := s.roster.UpdateVolunteerPhone(ctx, volunteerID, phone); err != nil {
		// Phase 2b: rollback to the prior value
		s.mu.Lock()
		s.members[idx].Phone = prior
		s.mu.Unlock()
		s.phase(PhaseRolledBack)

		s.logger.Warn("Phone update rolled back",
			zap.String("volunteer_id", volunteerID),
			zap.Error(err))
		s.notify(LevelError, fmt.Sprintf("phone update failed: %v", err))
		return fmt.Errorf("failed to update phone: %w", err)
	}

	// Phase 2a: confirmed
	s.phase(PhaseConfirmed)
	s.logger.Info("Phone updated", zap.String("volunteer_id", volunteerID))
	s.notify(LevelInfo, "contact number updated")
	return nil
}

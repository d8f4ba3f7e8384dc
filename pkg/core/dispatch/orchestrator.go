// Package dispatch submits bulk-notification jobs and tracks them to a
// terminal outcome with a bounded, fixed-interval poll loop.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

const (
	// PollInterval is the fixed delay between status polls
	PollInterval = 2500 * time.Millisecond
	// MaxPollAttempts bounds the poll loop; with PollInterval this gives a
	// client-observation budget of about five minutes
	MaxPollAttempts = 120
)

// ErrInFlight is returned when a dispatch for the same category is already
// being tracked.
var ErrInFlight = errors.New("a dispatch for this category is already in flight")

// ValidationError is a local precondition failure raised before any network
// interaction.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "dispatch validation failed: " + e.Reason
}

// Submitter is the collaborator that accepts and reports on dispatch jobs
type Submitter interface {
	SubmitDispatch(ctx context.Context, linkID string, category model.NotificationCategory, testMode bool, testContact string) (model.DispatchJob, error)
	PollDispatch(ctx context.Context, linkID, jobID string) (model.DispatchJob, error)
}

// OutcomeKind classifies how a tracked dispatch ended
type OutcomeKind string

const (
	// OutcomeCompleted means the job reached completed status; check
	// Result.Errors to distinguish full from partial success.
	OutcomeCompleted OutcomeKind = "completed"
	// OutcomeFailed means the job reported terminal failure
	OutcomeFailed OutcomeKind = "failed"
	// OutcomeTimedOut means the poll budget ran out before a terminal
	// status. The job's true outcome is unknown; it may still be running
	// server-side.
	OutcomeTimedOut OutcomeKind = "timed-out"
)

// Outcome is the typed result of tracking one dispatch to its end
type Outcome struct {
	Kind   OutcomeKind
	JobID  string
	Result *model.DispatchResult // set when Kind == completed
	Error  string                // set when Kind == failed
	Polls  int                   // polls performed before stopping
}

// PartialFailure reports whether a completed job had per-recipient errors
func (o Outcome) PartialFailure() bool {
	return o.Kind == OutcomeCompleted && o.Result != nil && o.Result.Errors > 0
}

// Orchestrator tracks at most one in-flight dispatch per category
type Orchestrator struct {
	submitter Submitter
	clock     Clock
	logger    *zap.Logger

	channelCount int // configured delivery channels; zero fails validation

	mu       sync.Mutex
	inFlight map[model.NotificationCategory]bool

	statusMu sync.RWMutex
	statuses map[model.NotificationCategory]model.DispatchStatus
}

// NewOrchestrator creates an orchestrator. channelCount is the number of
// configured delivery channels; Submit rejects dispatches when it is zero.
func NewOrchestrator(submitter Submitter, clock Clock, channelCount int, logger *zap.Logger) *Orchestrator {
	if clock == nil {
		clock = SystemClock()
	}
	return &Orchestrator{
		submitter:    submitter,
		clock:        clock,
		logger:       logger,
		channelCount: channelCount,
		inFlight:     make(map[model.NotificationCategory]bool),
		statuses:     make(map[model.NotificationCategory]model.DispatchStatus),
	}
}

// Status returns the last observed status for a category's dispatch
func (o *Orchestrator) Status(category model.NotificationCategory) (model.DispatchStatus, bool) {
	o.statusMu.RLock()
	defer o.statusMu.RUnlock()
	status, ok := o.statuses[category]
	return status, ok
}

// Submit validates locally, submits the dispatch and polls it to a terminal
// outcome. It blocks until the outcome is known, the poll budget runs out or
// ctx is cancelled. Only one dispatch per category may be in flight; a
// concurrent Submit for the same category returns ErrInFlight.
func (o *Orchestrator) Submit(ctx context.Context, linkID string, category model.NotificationCategory, testMode bool, testContact string) (Outcome, error) {
	// Local validation happens before any network interaction
	if o.channelCount == 0 {
		return Outcome{}, &ValidationError{Reason: "no delivery channel configured"}
	}
	if testMode && testContact == "" {
		return Outcome{}, &ValidationError{Reason: "test mode requires a destination contact"}
	}
	if !category.IsValid() {
		return Outcome{}, &ValidationError{Reason: fmt.Sprintf("unknown category %q", category)}
	}

	o.mu.Lock()
	if o.inFlight[category] {
		o.mu.Unlock()
		return Outcome{}, ErrInFlight
	}
	o.inFlight[category] = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		delete(o.inFlight, category)
		o.mu.Unlock()
	}()

	o.logger.Debug("Submitting dispatch",
		zap.String("link_id", linkID),
		zap.String("category", string(category)),
		zap.Bool("test_mode", testMode))

	job, err := o.submitter.SubmitDispatch(ctx, linkID, category, testMode, testContact)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to submit dispatch: %w", err)
	}

	o.setStatus(category, job.Status)
	o.logger.Info("Dispatch submitted",
		zap.String("job_id", job.ID),
		zap.String("category", string(category)),
		zap.String("status", string(job.Status)))

	return o.track(ctx, linkID, category, job)
}

// track polls the job at a fixed interval until it reaches a terminal
// status or the attempt budget is exhausted.
func (o *Orchestrator) track(ctx context.Context, linkID string, category model.NotificationCategory, job model.DispatchJob) (Outcome, error) {
	started := o.clock.Now()

	polls := 0
	for polls < MaxPollAttempts {
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-o.clock.After(PollInterval):
		}

		polls++
		polled, err := o.submitter.PollDispatch(ctx, linkID, job.ID)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to poll dispatch: %w", err)
		}

		o.setStatus(category, polled.Status)
		o.logger.Debug("Dispatch polled",
			zap.String("job_id", job.ID),
			zap.Int("attempt", polls),
			zap.String("status", string(polled.Status)))

		switch polled.Status {
		case model.DispatchCompleted:
			outcome := Outcome{Kind: OutcomeCompleted, JobID: job.ID, Result: polled.Result, Polls: polls}
			if outcome.PartialFailure() {
				o.logger.Warn("Dispatch completed with errors",
					zap.String("job_id", job.ID),
					zap.Int("sent", polled.Result.Sent),
					zap.Int("errors", polled.Result.Errors))
			} else {
				o.logger.Info("Dispatch completed",
					zap.String("job_id", job.ID),
					zap.Duration("elapsed", o.clock.Now().Sub(started)))
			}
			return outcome, nil
		case model.DispatchFailed:
			o.logger.Warn("Dispatch failed",
				zap.String("job_id", job.ID),
				zap.String("error", polled.Error))
			return Outcome{Kind: OutcomeFailed, JobID: job.ID, Error: polled.Error, Polls: polls}, nil
		}
	}

	// Budget exhausted: this is a client-observation timeout, not a
	// cancellation; the job may still finish server-side.
	o.logger.Warn("Dispatch poll budget exhausted",
		zap.String("job_id", job.ID),
		zap.Int("attempts", polls))
	return Outcome{Kind: OutcomeTimedOut, JobID: job.ID, Polls: polls}, nil
}

func (o *Orchestrator) setStatus(category model.NotificationCategory, status model.DispatchStatus) {
	o.statusMu.Lock()
	o.statuses[category] = status
	o.statusMu.Unlock()
}

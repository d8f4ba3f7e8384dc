// Package worker executes queued dispatch jobs. It claims the oldest queued
// job, resolves recipients from the published schedule, renders each message
// and delivers through the configured channels with rate pacing. The worker
// shares nothing with the submitting side except the store.
package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dancove/ministry-rota/pkg/core/model"
	"github.com/dancove/ministry-rota/pkg/core/notify"
	"github.com/dancove/ministry-rota/pkg/db"
)

const (
	// DefaultClaimInterval is how often an idle worker checks for queued jobs
	DefaultClaimInterval = 5 * time.Second
	// DefaultRatePerSec caps outbound sends when no rate is configured
	DefaultRatePerSec = 1
)

// Store is the subset of db.Database the worker needs
type Store interface {
	ClaimQueuedDispatch(ctx context.Context) (*db.ClaimedJob, error)
	GetPublished(ctx context.Context, linkID string) (*model.ScheduleSnapshot, error)
	ListVolunteers(ctx context.Context, linkID string) ([]model.Volunteer, error)
	CompleteDispatch(ctx context.Context, jobID string, result model.DispatchResult) error
	FailDispatch(ctx context.Context, jobID, reason string) error
}

// SMSSender delivers one text message
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// EmailSender delivers one email message
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Worker drains queued dispatch jobs from the store
type Worker struct {
	store   Store
	sms     SMSSender   // nil when the sms channel is not configured
	email   EmailSender // nil when the gmail channel is not configured
	digest  string      // address that receives the per-job summary email
	orgName string
	limiter *rate.Limiter
	logger  *zap.Logger

	// ClaimInterval is the idle poll interval, overridable in tests
	ClaimInterval time.Duration
}

// New creates a worker. At least one of sms and email should be non-nil;
// a worker without channels fails every job it claims.
func New(store Store, sms SMSSender, email EmailSender, digest, orgName string, ratePerSec int, logger *zap.Logger) *Worker {
	if ratePerSec <= 0 {
		ratePerSec = DefaultRatePerSec
	}
	return &Worker{
		store:         store,
		sms:           sms,
		email:         email,
		digest:        digest,
		orgName:       orgName,
		limiter:       rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		logger:        logger,
		ClaimInterval: DefaultClaimInterval,
	}
}

// Run claims and executes jobs until ctx is cancelled. Between jobs it
// sleeps for ClaimInterval when the queue is empty.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("dispatch worker started")
	for {
		processed, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("failed to process dispatch job", zap.Error(err))
		}
		if processed {
			continue
		}

		select {
		case <-ctx.Done():
			w.logger.Info("dispatch worker stopping")
			return ctx.Err()
		case <-time.After(w.ClaimInterval):
		}
	}
}

// RunOnce claims at most one queued job and executes it to a terminal state.
// Returns false when the queue was empty.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	claimed, err := w.store.ClaimQueuedDispatch(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to claim dispatch job: %w", err)
	}
	if claimed == nil {
		return false, nil
	}

	w.logger.Info("claimed dispatch job",
		zap.String("jobId", claimed.Job.ID),
		zap.String("category", string(claimed.Job.Category)),
		zap.Bool("testMode", claimed.TestMode))

	result, execErr := w.execute(ctx, claimed)
	if execErr != nil {
		w.logger.Warn("dispatch job failed",
			zap.String("jobId", claimed.Job.ID),
			zap.Error(execErr))
		if err := w.store.FailDispatch(ctx, claimed.Job.ID, execErr.Error()); err != nil {
			return true, fmt.Errorf("failed to record job failure: %w", err)
		}
		return true, nil
	}

	if err := w.store.CompleteDispatch(ctx, claimed.Job.ID, result); err != nil {
		return true, fmt.Errorf("failed to record job completion: %w", err)
	}

	w.logger.Info("dispatch job completed",
		zap.String("jobId", claimed.Job.ID),
		zap.Int("sent", result.Sent),
		zap.Int("errors", result.Errors),
		zap.String("warning", result.Warning))
	return true, nil
}

// execute runs one claimed job. A returned error is a submission-level
// failure (the job becomes failed); per-recipient delivery errors are
// counted in the result instead.
func (w *Worker) execute(ctx context.Context, claimed *db.ClaimedJob) (model.DispatchResult, error) {
	if w.sms == nil && w.email == nil {
		return model.DispatchResult{}, fmt.Errorf("no delivery channel configured")
	}

	snapshot, err := w.store.GetPublished(ctx, claimed.LinkID)
	if err != nil {
		return model.DispatchResult{}, fmt.Errorf("failed to load published schedule: %w", err)
	}
	if snapshot == nil {
		return model.DispatchResult{}, fmt.Errorf("no published schedule to notify about")
	}

	roster, err := w.store.ListVolunteers(ctx, claimed.LinkID)
	if err != nil {
		return model.DispatchResult{}, fmt.Errorf("failed to load roster: %w", err)
	}
	phoneByID := make(map[string]string, len(roster))
	for _, volunteer := range roster {
		phoneByID[volunteer.ID] = volunteer.Phone
	}

	recipients := notify.ResolveRecipients(*snapshot, claimed.Job.Category, roster)

	var result model.DispatchResult
	contactless := 0
	var sendReport []string

	for _, recipient := range recipients {
		phone := phoneByID[recipient.VolunteerID]
		if claimed.TestMode {
			phone = claimed.TestContact
		}
		if phone == "" {
			contactless++
			w.logger.Debug("skipping recipient without contact",
				zap.String("volunteer", recipient.VolunteerName))
			continue
		}

		message := notify.RenderMessage(claimed.Job.Category, recipient, w.orgName)

		if err := w.send(ctx, phone, message); err != nil {
			result.Errors++
			sendReport = append(sendReport, fmt.Sprintf("%s: FAILED (%v)", recipient.VolunteerName, err))
			w.logger.Warn("failed to send notification",
				zap.String("volunteer", recipient.VolunteerName),
				zap.Error(err))
			continue
		}

		result.Sent++
		sendReport = append(sendReport, fmt.Sprintf("%s: sent", recipient.VolunteerName))
	}

	if contactless > 0 {
		result.Warning = fmt.Sprintf("%d volunteers have no contact number", contactless)
	}

	w.sendDigest(ctx, claimed, result, sendReport)

	return result, nil
}

// send delivers one message through the sms channel, pacing with the
// shared limiter
func (w *Worker) send(ctx context.Context, phone, message string) error {
	if w.sms == nil {
		return fmt.Errorf("sms channel not configured")
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}
	return w.sms.SendSMS(ctx, phone, message)
}

// sendDigest emails a per-job summary to the coordinator when the gmail
// channel is configured. A digest failure never fails the job.
func (w *Worker) sendDigest(ctx context.Context, claimed *db.ClaimedJob, result model.DispatchResult, sendReport []string) {
	if w.email == nil || w.digest == "" {
		return
	}

	subject := fmt.Sprintf("%s rota dispatch: %s", w.orgName, claimed.Job.Category)
	body := fmt.Sprintf("Dispatch %s finished.\n\nSent: %d\nErrors: %d\n", claimed.Job.ID, result.Sent, result.Errors)
	if result.Warning != "" {
		body += fmt.Sprintf("Warning: %s\n", result.Warning)
	}
	if len(sendReport) > 0 {
		body += "\nRecipients:\n"
		for _, line := range sendReport {
			body += "- " + line + "\n"
		}
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	if err := w.email.SendEmail(ctx, w.digest, subject, body); err != nil {
		w.logger.Warn("failed to send dispatch digest", zap.Error(err))
	}
}

package db

import (
	"context"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

// ClaimedJob is a queued dispatch job handed to the worker together with
// the submission parameters it needs to execute.
type ClaimedJob struct {
	Job         model.DispatchJob
	LinkID      string
	TestMode    bool
	TestContact string
}

// Database defines all persistence operations. pkg/postgres implements it;
// the session, orchestrator and worker each consume the subset they need.
type Database interface {
	// Schedule snapshots, one per (link, status), overwritten on save
	GetSnapshot(ctx context.Context, linkID string, status model.ScheduleStatus) (*model.ScheduleSnapshot, error)
	GetPublished(ctx context.Context, linkID string) (*model.ScheduleSnapshot, error)
	SaveSnapshot(ctx context.Context, linkID string, snapshot model.ScheduleSnapshot) error

	// Roster (owned by roster management; read plus the one phone-edit hook)
	ListVolunteers(ctx context.Context, linkID string) ([]model.Volunteer, error)
	UpdateVolunteerPhone(ctx context.Context, volunteerID, phone string) error

	// Dispatch jobs, client side
	SubmitDispatch(ctx context.Context, linkID string, category model.NotificationCategory, testMode bool, testContact string) (model.DispatchJob, error)
	PollDispatch(ctx context.Context, linkID, jobID string) (model.DispatchJob, error)

	// Dispatch jobs, worker side
	ClaimQueuedDispatch(ctx context.Context) (*ClaimedJob, error)
	CompleteDispatch(ctx context.Context, jobID string, result model.DispatchResult) error
	FailDispatch(ctx context.Context, jobID, reason string) error
}

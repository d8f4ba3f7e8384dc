package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dancove/ministry-rota/pkg/core/model"
	"github.com/dancove/ministry-rota/pkg/db"
)

// SubmitDispatch enqueues a new dispatch job and returns it in queued state
func (d *DB) SubmitDispatch(ctx context.Context, linkID string, category model.NotificationCategory, testMode bool, testContact string) (model.DispatchJob, error) {
	jobID := uuid.New().String()

	_, err := d.pool.Exec(ctx, `
		INSERT INTO dispatch_job (id, link_id, category, status, test_mode, test_contact)
		VALUES ($1, $2, $3, 'queued', $4, $5)
	`, jobID, linkID, string(category), testMode, testContact)
	if err != nil {
		return model.DispatchJob{}, fmt.Errorf("failed to enqueue dispatch job: %w", err)
	}

	return model.DispatchJob{
		ID:       jobID,
		Category: category,
		Status:   model.DispatchQueued,
	}, nil
}

// PollDispatch fetches the current state of a dispatch job
func (d *DB) PollDispatch(ctx context.Context, linkID, jobID string) (model.DispatchJob, error) {
	var record db.JobRecord
	err := d.pool.QueryRow(ctx, `
		SELECT id, category, status, sent, errors, warning, error
		FROM dispatch_job
		WHERE id = $1 AND link_id = $2
	`, jobID, linkID).Scan(&record.ID, &record.Category, &record.Status, &record.Sent, &record.Errors, &record.Warning, &record.Error)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.DispatchJob{}, fmt.Errorf("no dispatch job with id %s", jobID)
	}
	if err != nil {
		return model.DispatchJob{}, fmt.Errorf("failed to query dispatch job: %w", err)
	}
	return db.JobFromRecord(record), nil
}

// ClaimQueuedDispatch atomically moves the oldest queued job to running and
// hands it to the caller. Returns nil when no queued job exists. SKIP LOCKED
// keeps concurrent workers from claiming the same job.
func (d *DB) ClaimQueuedDispatch(ctx context.Context) (*db.ClaimedJob, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		record      db.JobRecord
		linkID      string
		testMode    bool
		testContact string
	)
	err = tx.QueryRow(ctx, `
		SELECT id, link_id, category, test_mode, test_contact
		FROM dispatch_job
		WHERE status = 'queued'
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`).Scan(&record.ID, &linkID, &record.Category, &testMode, &testContact)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select queued job: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE dispatch_job SET status = 'running' WHERE id = $1
	`, record.ID); err != nil {
		return nil, fmt.Errorf("failed to mark job running: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	record.Status = string(model.DispatchRunning)
	return &db.ClaimedJob{
		Job:         db.JobFromRecord(record),
		LinkID:      linkID,
		TestMode:    testMode,
		TestContact: testContact,
	}, nil
}

// CompleteDispatch records a successful run with its delivery counts
func (d *DB) CompleteDispatch(ctx context.Context, jobID string, result model.DispatchResult) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE dispatch_job
		SET status = 'completed', sent = $2, errors = $3, warning = $4, finished_at = NOW()
		WHERE id = $1
	`, jobID, result.Sent, result.Errors, result.Warning)
	if err != nil {
		return fmt.Errorf("failed to complete dispatch job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no dispatch job with id %s", jobID)
	}
	return nil
}

// FailDispatch records a failed run with the reason it could not execute
func (d *DB) FailDispatch(ctx context.Context, jobID, reason string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE dispatch_job
		SET status = 'failed', error = $2, finished_at = NOW()
		WHERE id = $1
	`, jobID, reason)
	if err != nil {
		return fmt.Errorf("failed to record dispatch failure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no dispatch job with id %s", jobID)
	}
	return nil
}

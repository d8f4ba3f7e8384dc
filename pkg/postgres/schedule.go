package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dancove/ministry-rota/pkg/core/model"
	"github.com/dancove/ministry-rota/pkg/db"
)

// GetSnapshot retrieves the snapshot persisted for a (link, status) pair,
// or nil when none exists
func (d *DB) GetSnapshot(ctx context.Context, linkID string, status model.ScheduleStatus) (*model.ScheduleSnapshot, error) {
	var (
		slotsJSON   []byte
		alertsJSON  []byte
		generatedAt time.Time
		publishedAt *time.Time
	)

	err := d.pool.QueryRow(ctx, `
		SELECT slots, alerts, generated_at, published_at
		FROM schedule_snapshot
		WHERE link_id = $1 AND status = $2
	`, linkID, string(status)).Scan(&slotsJSON, &alertsJSON, &generatedAt, &publishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	record := db.SnapshotRecord{
		Status:      string(status),
		GeneratedAt: generatedAt,
		PublishedAt: publishedAt,
	}
	if err := json.Unmarshal(slotsJSON, &record.Slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	if err := json.Unmarshal(alertsJSON, &record.Alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}

	snapshot := db.SnapshotFromRecord(record)
	return &snapshot, nil
}

// GetPublished retrieves the live published snapshot, or nil when the
// schedule has never been published
func (d *DB) GetPublished(ctx context.Context, linkID string) (*model.ScheduleSnapshot, error) {
	return d.GetSnapshot(ctx, linkID, model.StatusPublished)
}

// SaveSnapshot upserts the snapshot for its status, overwriting the prior
// snapshot of the same (link, status) pair
func (d *DB) SaveSnapshot(ctx context.Context, linkID string, snapshot model.ScheduleSnapshot) error {
	record := db.SnapshotToRecord(snapshot)

	slotsJSON, err := json.Marshal(record.Slots)
	if err != nil {
		return fmt.Errorf("failed to encode slots: %w", err)
	}
	alertsJSON, err := json.Marshal(record.Alerts)
	if err != nil {
		return fmt.Errorf("failed to encode alerts: %w", err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO schedule_snapshot (link_id, status, slots, alerts, generated_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (link_id, status) DO UPDATE SET
			slots = EXCLUDED.slots,
			alerts = EXCLUDED.alerts,
			generated_at = EXCLUDED.generated_at,
			published_at = EXCLUDED.published_at,
			revision = schedule_snapshot.revision + 1,
			updated_at = NOW()
	`, linkID, record.Status, slotsJSON, alertsJSON, record.GeneratedAt, record.PublishedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

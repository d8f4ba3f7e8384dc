package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dancove/ministry-rota/pkg/core/model"
	"github.com/dancove/ministry-rota/pkg/db"
)

// ListVolunteers returns every roster member for the link, sorted by name
func (d *DB) ListVolunteers(ctx context.Context, linkID string) ([]model.Volunteer, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, active, willing, roles, phone
		FROM volunteer
		WHERE link_id = $1
	`, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []model.Volunteer
	for rows.Next() {
		var (
			record    db.VolunteerRecord
			rolesJSON []byte
		)
		err := rows.Scan(&record.ID, &record.FirstName, &record.LastName, &record.Active, &record.Willing, &rolesJSON, &record.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
		}
		if err := json.Unmarshal(rolesJSON, &record.Roles); err != nil {
			return nil, fmt.Errorf("failed to decode roles: %w", err)
		}
		volunteers = append(volunteers, db.VolunteerFromRecord(record))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read volunteers: %w", err)
	}

	sort.Slice(volunteers, func(i, j int) bool {
		return volunteers[i].FullName() < volunteers[j].FullName()
	})
	return volunteers, nil
}

// UpdateVolunteerPhone stores a new contact number for a roster member
func (d *DB) UpdateVolunteerPhone(ctx context.Context, volunteerID, phone string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE volunteer SET phone = $2 WHERE id = $1
	`, volunteerID, phone)
	if err != nil {
		return fmt.Errorf("failed to update volunteer phone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no volunteer with id %s", volunteerID)
	}
	return nil
}

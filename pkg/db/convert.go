package db

import "github.com/dancove/ministry-rota/pkg/core/model"

// SnapshotToRecord converts a snapshot into its persisted form
func SnapshotToRecord(snapshot model.ScheduleSnapshot) SnapshotRecord {
	record := SnapshotRecord{
		Status:      string(snapshot.Status),
		Alerts:      append([]string(nil), snapshot.Alerts...),
		GeneratedAt: snapshot.GeneratedAt,
		PublishedAt: snapshot.PublishedAt,
		Slots:       make([]SlotRecord, 0, len(snapshot.Slots)),
	}
	for _, slot := range snapshot.Slots {
		slotRecord := SlotRecord{
			SlotID:      slot.ID,
			Type:        string(slot.Category),
			Label:       slot.Label,
			Date:        slot.Date,
			TimeOfDay:   slot.TimeOfDay,
			SortOrder:   slot.SortOrder,
			Missing:     append([]string(nil), slot.Missing...),
			Assignments: make([]AssignmentRecord, 0, len(slot.Assignments)),
		}
		for _, assignment := range slot.Assignments {
			slotRecord.Assignments = append(slotRecord.Assignments, AssignmentRecord{
				Role:       assignment.Role,
				PersonID:   assignment.VolunteerID,
				PersonName: assignment.VolunteerName,
				Altered:    assignment.Altered,
			})
		}
		record.Slots = append(record.Slots, slotRecord)
	}
	return record
}

// SnapshotFromRecord converts a persisted snapshot back into the model form
func SnapshotFromRecord(record SnapshotRecord) model.ScheduleSnapshot {
	snapshot := model.ScheduleSnapshot{
		Status:      model.ScheduleStatus(record.Status),
		Alerts:      append([]string(nil), record.Alerts...),
		GeneratedAt: record.GeneratedAt,
		PublishedAt: record.PublishedAt,
		Slots:       make([]model.Slot, 0, len(record.Slots)),
	}
	for _, slotRecord := range record.Slots {
		slot := model.Slot{
			ID:          slotRecord.SlotID,
			Category:    model.SlotCategory(slotRecord.Type),
			Label:       slotRecord.Label,
			Date:        slotRecord.Date,
			TimeOfDay:   slotRecord.TimeOfDay,
			SortOrder:   slotRecord.SortOrder,
			Missing:     append([]string(nil), slotRecord.Missing...),
			Assignments: make([]model.Assignment, 0, len(slotRecord.Assignments)),
		}
		for _, assignmentRecord := range slotRecord.Assignments {
			slot.Assignments = append(slot.Assignments, model.Assignment{
				Role:          assignmentRecord.Role,
				VolunteerID:   assignmentRecord.PersonID,
				VolunteerName: assignmentRecord.PersonName,
				Altered:       assignmentRecord.Altered,
			})
		}
		snapshot.Slots = append(snapshot.Slots, slot)
	}
	return snapshot
}

// VolunteerFromRecord converts a persisted roster member into the model form
func VolunteerFromRecord(record VolunteerRecord) model.Volunteer {
	return model.Volunteer{
		ID:        record.ID,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Active:    record.Active,
		Willing:   model.Willingness(record.Willing),
		Roles:     append([]string(nil), record.Roles...),
		Phone:     record.Phone,
	}
}

// JobFromRecord converts a persisted dispatch job into the model form
func JobFromRecord(record JobRecord) model.DispatchJob {
	job := model.DispatchJob{
		ID:       record.ID,
		Category: model.NotificationCategory(record.Category),
		Status:   model.DispatchStatus(record.Status),
		Error:    record.Error,
	}
	if job.Status == model.DispatchCompleted {
		job.Result = &model.DispatchResult{
			Sent:    record.Sent,
			Errors:  record.Errors,
			Warning: record.Warning,
		}
	}
	return job
}

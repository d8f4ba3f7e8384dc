package db

import "time"

// AssignmentRecord is the persisted form of one role binding
type AssignmentRecord struct {
	Role       string `json:"role"`
	PersonID   string `json:"personId"`
	PersonName string `json:"personName"`
	Altered    bool   `json:"alteredFlag"`
}

// SlotRecord is the persisted form of one schedule slot
type SlotRecord struct {
	SlotID      string             `json:"slotId"`
	Type        string             `json:"type"`
	Label       string             `json:"label"`
	Date        string             `json:"date"`
	TimeOfDay   string             `json:"timeOfDay"`
	SortOrder   int                `json:"sortOrder"`
	Assignments []AssignmentRecord `json:"assignments"`
	Missing     []string           `json:"missing"`
}

// SnapshotRecord is the persisted form of a full schedule snapshot.
// One record exists per (link, status) and is overwritten on save.
type SnapshotRecord struct {
	Status      string       `json:"status"`
	Slots       []SlotRecord `json:"slots"`
	Alerts      []string     `json:"alerts"`
	GeneratedAt time.Time    `json:"generatedAt"`
	PublishedAt *time.Time   `json:"publishedAt"`
}

// VolunteerRecord is the persisted form of a roster member
type VolunteerRecord struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Active    bool     `json:"active"`
	Willing   string   `json:"willing"`
	Roles     []string `json:"roles"`
	Phone     string   `json:"phone"`
}

// JobRecord is the persisted form of a dispatch job
type JobRecord struct {
	ID          string     `json:"id"`
	LinkID      string     `json:"linkId"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	TestMode    bool       `json:"testMode"`
	TestContact string     `json:"testContact"`
	Sent        int        `json:"sent"`
	Errors      int        `json:"errors"`
	Warning     string     `json:"warning"`
	Error       string     `json:"error"`
	CreatedAt   time.Time  `json:"createdAt"`
	FinishedAt  *time.Time `json:"finishedAt"`
}

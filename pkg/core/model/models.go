package model

import "time"

// Willingness is a volunteer's willing-to-serve answer
type Willingness string

const (
	WillingYes       Willingness = "yes"
	WillingNo        Willingness = "no"
	WillingUndecided Willingness = "undecided"
)

func (w Willingness) IsValid() bool {
	return w == WillingYes || w == WillingNo || w == WillingUndecided
}

// SlotCategory classifies a scheduled occurrence
type SlotCategory string

const (
	CategoryService SlotCategory = "service" // recurring service
	CategoryArena   SlotCategory = "arena"   // special arena activity
	CategoryEvent   SlotCategory = "event"   // one-off event
)

// ScheduleStatus is the lifecycle state of a snapshot
type ScheduleStatus string

const (
	StatusDraft     ScheduleStatus = "draft"
	StatusPublished ScheduleStatus = "published"
)

// Volunteer represents a roster member. Records are owned by roster
// management; this core reads them only.
type Volunteer struct {
	ID        string
	FirstName string
	LastName  string
	Active    bool
	Willing   Willingness
	Roles     []string // role capabilities
	Phone     string   // empty when no contact number is known
}

// FullName returns the volunteer's display name
func (v Volunteer) FullName() string {
	if v.LastName == "" {
		return v.FirstName
	}
	return v.FirstName + " " + v.LastName
}

// HasRole reports whether the volunteer is capable of the given role
func (v Volunteer) HasRole(role string) bool {
	for _, r := range v.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Assignment binds one volunteer to one role within one slot.
// VolunteerName is denormalized on purpose: a later rename in the roster
// must not rewrite historical snapshots.
type Assignment struct {
	Role          string
	VolunteerID   string
	VolunteerName string
	Altered       bool // set when an operator changed this assignment by hand
}

// Slot is one scheduled occurrence requiring one or more roles.
// A role name appears in exactly one of Assignments or Missing once it was
// ever required for the slot.
type Slot struct {
	ID          string
	Category    SlotCategory
	Label       string
	Date        string // "2006-01-02"
	TimeOfDay   string // "15:04"
	SortOrder   int    // stable tie-break from generation order
	Assignments []Assignment
	Missing     []string
}

// AssignedRole returns the assignment for role, if any
func (s Slot) AssignedRole(role string) (Assignment, bool) {
	for _, a := range s.Assignments {
		if a.Role == role {
			return a, true
		}
	}
	return Assignment{}, false
}

// ScheduleSnapshot is the full schedule state at a point in time.
// Alerts are always the flattened rendering of every slot's missing list,
// never independently edited.
type ScheduleSnapshot struct {
	Status      ScheduleStatus
	Slots       []Slot
	Alerts      []string
	GeneratedAt time.Time
	PublishedAt *time.Time // nil until published
}

// DispatchStatus is the lifecycle state of a dispatch job
type DispatchStatus string

const (
	DispatchQueued    DispatchStatus = "queued"
	DispatchRunning   DispatchStatus = "running"
	DispatchCompleted DispatchStatus = "completed"
	DispatchFailed    DispatchStatus = "failed"
)

// Terminal reports whether the status ends the job's lifecycle
func (s DispatchStatus) Terminal() bool {
	return s == DispatchCompleted || s == DispatchFailed
}

// NotificationCategory selects the message wording and recipient grouping
type NotificationCategory string

const (
	CategoryFullSchedule NotificationCategory = "full-schedule"
	CategoryReminder3d   NotificationCategory = "reminder-3d"
	CategoryReminder1d   NotificationCategory = "reminder-1d"
	CategoryDayOf        NotificationCategory = "day-of"
)

func (c NotificationCategory) IsValid() bool {
	switch c {
	case CategoryFullSchedule, CategoryReminder3d, CategoryReminder1d, CategoryDayOf:
		return true
	}
	return false
}

// DispatchResult aggregates a completed job's per-recipient outcomes
type DispatchResult struct {
	Sent    int
	Errors  int
	Warning string // optional, e.g. recipients skipped for missing contact
}

// DispatchJob is an asynchronous bulk-notification task tracked by polling
type DispatchJob struct {
	ID       string
	Category NotificationCategory
	Status   DispatchStatus
	Result   *DispatchResult // set when Status == completed
	Error    string          // set when Status == failed
}

// RecipientSlot is one (slot, role) pair a recipient is scheduled for
type RecipientSlot struct {
	SlotID    string
	Label     string
	Date      string
	TimeOfDay string
	Role      string
}

// RecipientPreview is one volunteer's entry in a notification preview:
// who they are, whether they can be reached, and what they are scheduled for.
type RecipientPreview struct {
	VolunteerID   string
	VolunteerName string
	Phone         string // masked for display
	HasContact    bool
	Slots         []RecipientSlot
}

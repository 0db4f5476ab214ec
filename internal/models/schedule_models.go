package models

import (
	"encoding/json"
	"time"
)

// ScheduleStatus defines the type for schedule statuses
type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "draft"
	ScheduleStatusPublished ScheduleStatus = "published"
)

// IsValidScheduleStatus checks if the provided status string is a valid ScheduleStatus.
func IsValidScheduleStatus(status string) bool {
	switch ScheduleStatus(status) {
	case ScheduleStatusDraft, ScheduleStatusPublished:
		return true
	default:
		return false
	}
}

// ShiftType is a reusable time-of-day template (e.g. "Front Desk Morning", 06:00-10:00).
// EndTime may be earlier than StartTime for overnight shifts. Soft-deleted
// via IsActive rather than removed, since schedule shifts reference it.
type ShiftType struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	StartTime  string    `json:"startTime" db:"start_time"` // HH:MM
	EndTime    string    `json:"endTime" db:"end_time"`     // HH:MM
	ColorIndex int       `json:"colorIndex" db:"color_index"`
	IsActive   bool      `json:"isActive" db:"is_active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Schedule is a named weekly period containing shift slots.
// Date ranges across schedules never overlap (enforced at creation).
// Status only ever moves draft -> published.
type Schedule struct {
	ID        int64          `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	StartDate time.Time      `json:"startDate" db:"start_date"`
	EndDate   time.Time      `json:"endDate" db:"end_date"`
	Status    ScheduleStatus `json:"status" db:"status"`
	CreatedBy *int64         `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

// ScheduleShift is one concrete slot on one date within one schedule,
// optionally assigned to a user. Order is a display-only hint within a
// (schedule, date) bucket; duplicates are tolerated. Actual times may be
// set only once IsActive is true (i.e. after the schedule is published).
type ScheduleShift struct {
	ID              int64        `json:"id" db:"id"`
	ScheduleID      int64        `json:"scheduleId" db:"schedule_id"`
	ShiftTypeID     int64        `json:"-" db:"shift_type_id"`
	Date            time.Time    `json:"date" db:"date"`
	UserID          *int64       `json:"-" db:"user_id"`
	Order           int          `json:"order" db:"shift_order"`
	IsActive        bool         `json:"isActive" db:"is_active"`
	ActualStartTime *string      `json:"actualStartTime,omitempty" db:"actual_start_time"`
	ActualEndTime   *string      `json:"actualEndTime,omitempty" db:"actual_end_time"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`
	ShiftType       *ShiftType   `json:"shiftType,omitempty"` // Joined shift-type template
	User            *UserSummary `json:"user"`                // Joined assignee display fields, null when unassigned
}

// OptionalInt64 distinguishes an absent JSON field from an explicit null.
// The shift-assignment PATCH body uses "userId": null to unassign, while
// omitting the field leaves the assignment untouched.
type OptionalInt64 struct {
	Present bool
	Value   *int64
}

// UnmarshalJSON marks the field as present; a JSON null leaves Value nil.
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

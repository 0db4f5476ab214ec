package models

import "time"

// TimeClockStatus defines the type for time-clock entry statuses
type TimeClockStatus string

const (
	TimeClockStatusClockedIn  TimeClockStatus = "clocked-in"
	TimeClockStatusClockedOut TimeClockStatus = "clocked-out"
)

// TimeClockEntry represents one punch in/out session for a user
type TimeClockEntry struct {
	ID           int64           `json:"id" db:"id"`
	UserID       int64           `json:"userId" db:"user_id"`
	ClockInTime  time.Time       `json:"clockInTime" db:"clock_in_time"`
	ClockOutTime *time.Time      `json:"clockOutTime,omitempty" db:"clock_out_time"`
	TotalMinutes *int            `json:"totalMinutes,omitempty" db:"total_minutes"`
	Status       TimeClockStatus `json:"status" db:"status"`
	Notes        *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
	User         *UserSummary    `json:"user,omitempty"`
}

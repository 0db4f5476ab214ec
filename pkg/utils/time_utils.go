package utils

import (
	"fmt"
	"regexp"
)

// TimeRange is an HH:MM start/end pair on a 24-hour clock.
type TimeRange struct {
	Start string
	End   string
}

const minutesPerDay = 24 * 60

var timeFormatRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidTimeFormat checks if a time string is in HH:MM format.
func IsValidTimeFormat(t string) bool {
	return timeFormatRegex.MatchString(t)
}

// TimeToMinutes converts an HH:MM string to minutes since midnight.
// Inputs are validated at the API boundary; malformed input yields 0.
func TimeToMinutes(t string) int {
	var hours, minutes int
	if _, err := fmt.Sscanf(t, "%d:%d", &hours, &minutes); err != nil {
		return 0
	}
	return hours*60 + minutes
}

// TimeRangesOverlap reports whether two time ranges intersect, supporting
// overnight shifts. A range whose end is at or before its start is treated
// as crossing midnight, so a zero-length range spans the full 24 hours.
// Half-open interval semantics: touching endpoints do not overlap.
func TimeRangesOverlap(a, b TimeRange) bool {
	start1 := TimeToMinutes(a.Start)
	end1 := TimeToMinutes(a.End)
	start2 := TimeToMinutes(b.Start)
	end2 := TimeToMinutes(b.End)

	if end1 <= start1 {
		end1 += minutesPerDay
	}
	if end2 <= start2 {
		end2 += minutesPerDay
	}

	return start1 < end2 && start2 < end1
}

// ShiftDuration calculates the length of a shift in minutes, wrapping
// overnight ranges past midnight.
func ShiftDuration(startTime, endTime string) int {
	start := TimeToMinutes(startTime)
	end := TimeToMinutes(endTime)
	if end <= start {
		end += minutesPerDay
	}
	return end - start
}

// FormatDuration renders a minute count as "3h" or "3h 30m".
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

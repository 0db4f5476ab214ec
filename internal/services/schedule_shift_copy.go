package services

import (
	"errors"
	"fmt"
	"time"

	"roster_backend/internal/repositories"
)

// ProposedShift is one slot the copy-previous-week feature suggests creating.
type ProposedShift struct {
	ShiftTypeID int64  `json:"shiftTypeId"`
	Date        string `json:"date"` // YYYY-MM-DD
	Order       int    `json:"order"`
}

// CopyPreviousResponse is a dry-run proposal: nothing is persisted. The
// client reviews the shifts and submits them through a bulk create.
type CopyPreviousResponse struct {
	Message            string          `json:"message"`
	Count              int             `json:"count"`
	ShiftsToCreate     []ProposedShift `json:"shiftsToCreate"`
	SourceScheduleName string          `json:"sourceScheduleName"`
}

// CopyPreviousWeek extracts the per-weekday shift-type frequency pattern
// from the most recently published schedule and projects it onto the
// target schedule's week. Source selection is newest published schedule
// by endDate excluding the target, not necessarily the adjacent week.
func (s *scheduleShiftService) CopyPreviousWeek(scheduleID int64) (*CopyPreviousResponse, error) {
	currentSchedule, err := s.scheduleRepo.GetScheduleByID(scheduleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to resolve schedule for copy: %w", err)
	}

	sourceSchedule, err := s.scheduleRepo.GetMostRecentPublished(scheduleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoPublishedSchedule
		}
		return nil, fmt.Errorf("failed to find source schedule for copy: %w", err)
	}

	sourceShifts, err := s.shiftRepo.GetShiftsBySchedule(sourceSchedule.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load source schedule shifts: %w", err)
	}

	if len(sourceShifts) == 0 {
		return &CopyPreviousResponse{
			Message:            "No shifts found in the most recent published schedule",
			Count:              0,
			ShiftsToCreate:     []ProposedShift{},
			SourceScheduleName: sourceSchedule.Name,
		}, nil
	}

	// Frequency table keyed by (weekday, shift type): how many shifts of
	// that type the source schedule has on that weekday.
	patternsByDay := map[time.Weekday]map[int64]int{}
	for _, shift := range sourceShifts {
		weekday := shift.Date.Weekday()
		if patternsByDay[weekday] == nil {
			patternsByDay[weekday] = map[int64]int{}
		}
		patternsByDay[weekday][shift.ShiftTypeID]++
	}

	// Stable shift-type enumeration per weekday, in first-seen source order,
	// so repeated calls propose identical lists.
	typeOrderByDay := map[time.Weekday][]int64{}
	seen := map[time.Weekday]map[int64]bool{}
	for _, shift := range sourceShifts {
		weekday := shift.Date.Weekday()
		if seen[weekday] == nil {
			seen[weekday] = map[int64]bool{}
		}
		if !seen[weekday][shift.ShiftTypeID] {
			seen[weekday][shift.ShiftTypeID] = true
			typeOrderByDay[weekday] = append(typeOrderByDay[weekday], shift.ShiftTypeID)
		}
	}

	shiftsToCreate := []ProposedShift{}
	for i := 0; i < 7; i++ {
		date := currentSchedule.StartDate.AddDate(0, 0, i)
		patterns := patternsByDay[date.Weekday()]
		if patterns == nil {
			continue
		}
		for _, shiftTypeID := range typeOrderByDay[date.Weekday()] {
			for n := 0; n < patterns[shiftTypeID]; n++ {
				shiftsToCreate = append(shiftsToCreate, ProposedShift{
					ShiftTypeID: shiftTypeID,
					Date:        date.Format(shiftDateLayout),
					Order:       n + 1, // Order restarts per shift type per day
				})
			}
		}
	}

	return &CopyPreviousResponse{
		Message: fmt.Sprintf("Found %d shifts to copy from %q based on shift patterns",
			len(shiftsToCreate), sourceSchedule.Name),
		Count:              len(shiftsToCreate),
		ShiftsToCreate:     shiftsToCreate,
		SourceScheduleName: sourceSchedule.Name,
	}, nil
}

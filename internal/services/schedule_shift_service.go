package services

import (
	"errors"
	"fmt"
	"time"

	"roster_backend/internal/models"
	"roster_backend/internal/repositories"
	"roster_backend/pkg/utils"
)

// --- Custom Service Errors for Schedule Shifts ---
var (
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrShiftTypeNotFound     = errors.New("shift type not found")
	ErrScheduleShiftNotFound = errors.New("schedule shift not found")
	ErrShiftDateFormat       = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrShiftTimeFormat       = errors.New("invalid time format, please use HH:MM")
	ErrShiftNotActive        = errors.New("can only adjust times on published schedule shifts")
	ErrNoPublishedSchedule   = errors.New("no published schedule found to copy from")
)

// ConflictingShift summarizes one shift that clashes with an attempted assignment.
type ConflictingShift struct {
	ID        int64             `json:"id"`
	ShiftType *models.ShiftType `json:"shiftType"`
	Date      time.Time         `json:"date"`
}

// ShiftConflictError is returned when assigning a user would give them
// overlapping shifts on the same day. It carries the clashing shifts so
// the client can render the conflict.
type ShiftConflictError struct {
	Conflicts []ConflictingShift
}

func (e *ShiftConflictError) Error() string {
	return fmt.Sprintf("user has %d conflicting shift(s)", len(e.Conflicts))
}

// --- Schedule Shift DTOs ---

type CreateScheduleShiftRequest struct {
	ShiftTypeID int64  `json:"shiftTypeId" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Order       *int   `json:"order" binding:"omitempty,min=1"`
}

// UpdateScheduleShiftRequest is the PATCH body for a single shift.
// UserID distinguishes "assign to this user" (value), "unassign"
// (explicit null) and "leave untouched" (field absent). Date changes are
// only honored through bulk operations.
type UpdateScheduleShiftRequest struct {
	UserID models.OptionalInt64 `json:"userId"`
	Order  *int                 `json:"order" binding:"omitempty,min=1"`
}

type UpdateShiftTimesRequest struct {
	ActualStartTime *string `json:"actualStartTime"`
	ActualEndTime   *string `json:"actualEndTime"`
}

// ScheduleShiftsResponse splits a schedule's shifts into assigned and open slots.
type ScheduleShiftsResponse struct {
	Shifts           []models.ScheduleShift `json:"shifts"`
	UnassignedShifts []models.ScheduleShift `json:"unassignedShifts"`
}

// --- ScheduleShiftService Interface ---

// ScheduleShiftService is the shift assignment engine: single-shift
// mutations, the bulk mutation coordinator and the copy-previous-week
// pattern replicator, all scoped to one schedule.
type ScheduleShiftService interface {
	CreateShift(scheduleID int64, req CreateScheduleShiftRequest) (*models.ScheduleShift, error)
	GetShiftsBySchedule(scheduleID int64) (*ScheduleShiftsResponse, error)
	UpdateShift(scheduleID, shiftID int64, req UpdateScheduleShiftRequest) (*models.ScheduleShift, error)
	UpdateShiftTimes(scheduleID, shiftID int64, req UpdateShiftTimesRequest) (*models.ScheduleShift, error)
	DeleteShift(scheduleID, shiftID int64) error
	// ActivateScheduleShifts flips every shift under the schedule to the
	// live state, copying template times into the actual-time columns.
	// Invoked by the schedule publish workflow; idempotent.
	ActivateScheduleShifts(scheduleID int64) error
	CopyPreviousWeek(scheduleID int64) (*CopyPreviousResponse, error)
	BulkOperations(scheduleID int64, req BulkOperationsRequest) (*BulkOperationsResponse, error)
}

// --- scheduleShiftService Implementation ---
type scheduleShiftService struct {
	shiftRepo     repositories.ScheduleShiftRepository
	scheduleRepo  repositories.ScheduleRepository
	shiftTypeRepo repositories.ShiftTypeRepository
	db            repositories.DB
}

// NewScheduleShiftService creates a new instance of ScheduleShiftService.
func NewScheduleShiftService(
	shiftRepo repositories.ScheduleShiftRepository,
	scheduleRepo repositories.ScheduleRepository,
	shiftTypeRepo repositories.ShiftTypeRepository,
	db repositories.DB,
) ScheduleShiftService {
	return &scheduleShiftService{
		shiftRepo:     shiftRepo,
		scheduleRepo:  scheduleRepo,
		shiftTypeRepo: shiftTypeRepo,
		db:            db,
	}
}

const shiftDateLayout = "2006-01-02"

func parseShiftDate(dateStr string) (time.Time, error) {
	parsed, err := time.Parse(shiftDateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrShiftDateFormat, dateStr)
	}
	return parsed, nil
}

// findTimeConflicts reports every shift assigned to the user on the same
// calendar day whose effective time range overlaps the candidate range.
// Reads go through the given executor, so inside a bulk batch the check
// sees the batch's own uncommitted writes. excludeShiftID filters the
// shift being edited out of its own conflict set.
func (s *scheduleShiftService) findTimeConflicts(
	executor repositories.SQLExecutor,
	userID int64,
	date time.Time,
	candidate utils.TimeRange,
	excludeShiftID *int64,
) ([]ConflictingShift, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	existing, err := s.shiftRepo.GetAssignedShiftsForUserOnDate(executor, userID, dayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load user shifts for conflict check: %w", err)
	}

	conflicts := []ConflictingShift{}
	for _, shift := range existing {
		if excludeShiftID != nil && shift.ID == *excludeShiftID {
			continue
		}
		existingRange := utils.TimeRange{Start: shift.ShiftType.StartTime, End: shift.ShiftType.EndTime}
		if utils.TimeRangesOverlap(candidate, existingRange) {
			conflicts = append(conflicts, ConflictingShift{
				ID:        shift.ID,
				ShiftType: shift.ShiftType,
				Date:      shift.Date,
			})
		}
	}
	return conflicts, nil
}

func (s *scheduleShiftService) CreateShift(scheduleID int64, req CreateScheduleShiftRequest) (*models.ScheduleShift, error) {
	created, err := s.createShift(s.db, scheduleID, req, nil)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createShift is shared between the single-shift endpoint and bulk create.
// userID is only settable through bulk create, matching the API surface.
func (s *scheduleShiftService) createShift(
	executor repositories.SQLExecutor,
	scheduleID int64,
	req CreateScheduleShiftRequest,
	userID *int64,
) (*models.ScheduleShift, error) {
	if _, err := s.scheduleRepo.GetScheduleByID(scheduleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to resolve schedule for shift: %w", err)
	}

	shiftType, err := s.shiftTypeRepo.GetShiftTypeByID(executor, req.ShiftTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		return nil, fmt.Errorf("failed to resolve shift type for shift: %w", err)
	}

	date, err := parseShiftDate(req.Date)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		candidate := utils.TimeRange{Start: shiftType.StartTime, End: shiftType.EndTime}
		conflicts, err := s.findTimeConflicts(executor, *userID, date, candidate, nil)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &ShiftConflictError{Conflicts: conflicts}
		}
	}

	order := 1
	if req.Order != nil {
		order = *req.Order
	} else {
		count, err := s.shiftRepo.CountShiftsForDate(executor, scheduleID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to compute shift order: %w", err)
		}
		order = count + 1
	}

	shift := &models.ScheduleShift{
		ScheduleID:  scheduleID,
		ShiftTypeID: req.ShiftTypeID,
		Date:        date,
		UserID:      userID,
		Order:       order,
		IsActive:    false, // Flipped to true when the schedule is published
	}

	created, err := s.shiftRepo.CreateShift(executor, shift)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule shift in repository: %w", err)
	}
	return s.shiftRepo.GetShiftByID(executor, created.ID, scheduleID)
}

func (s *scheduleShiftService) GetShiftsBySchedule(scheduleID int64) (*ScheduleShiftsResponse, error) {
	if _, err := s.scheduleRepo.GetScheduleByID(scheduleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to resolve schedule: %w", err)
	}

	shifts, err := s.shiftRepo.GetShiftsBySchedule(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule shifts: %w", err)
	}

	response := &ScheduleShiftsResponse{
		Shifts:           []models.ScheduleShift{},
		UnassignedShifts: []models.ScheduleShift{},
	}
	for _, shift := range shifts {
		if shift.UserID != nil {
			response.Shifts = append(response.Shifts, shift)
		} else {
			response.UnassignedShifts = append(response.UnassignedShifts, shift)
		}
	}
	return response, nil
}

// shiftUpdate is the internal change set applied by both the PATCH
// endpoint and bulk update. Date is nil outside bulk batches.
type shiftUpdate struct {
	Date   *string
	UserID models.OptionalInt64
	Order  *int
}

func (s *scheduleShiftService) applyShiftUpdate(
	executor repositories.SQLExecutor,
	scheduleID, shiftID int64,
	update shiftUpdate,
) (*models.ScheduleShift, error) {
	shift, err := s.shiftRepo.GetShiftByID(executor, shiftID, scheduleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleShiftNotFound
		}
		return nil, fmt.Errorf("failed to find schedule shift for update: %w", err)
	}

	if update.Date != nil {
		date, err := parseShiftDate(*update.Date)
		if err != nil {
			return nil, err
		}
		shift.Date = date
	}

	if update.UserID.Present {
		if update.UserID.Value != nil {
			candidate := utils.TimeRange{Start: shift.ShiftType.StartTime, End: shift.ShiftType.EndTime}
			conflicts, err := s.findTimeConflicts(executor, *update.UserID.Value, shift.Date, candidate, &shift.ID)
			if err != nil {
				return nil, err
			}
			if len(conflicts) > 0 {
				return nil, &ShiftConflictError{Conflicts: conflicts}
			}
			shift.UserID = update.UserID.Value
		} else {
			shift.UserID = nil // Unassign, no conflict check needed
		}
	}

	if update.Order != nil {
		shift.Order = *update.Order
	}

	if _, err := s.shiftRepo.UpdateShift(executor, shift); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleShiftNotFound
		}
		return nil, fmt.Errorf("failed to update schedule shift in repository: %w", err)
	}
	return s.shiftRepo.GetShiftByID(executor, shiftID, scheduleID)
}

func (s *scheduleShiftService) UpdateShift(scheduleID, shiftID int64, req UpdateScheduleShiftRequest) (*models.ScheduleShift, error) {
	return s.applyShiftUpdate(s.db, scheduleID, shiftID, shiftUpdate{
		UserID: req.UserID,
		Order:  req.Order,
	})
}

func (s *scheduleShiftService) UpdateShiftTimes(scheduleID, shiftID int64, req UpdateShiftTimesRequest) (*models.ScheduleShift, error) {
	shift, err := s.shiftRepo.GetShiftByID(s.db, shiftID, scheduleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleShiftNotFound
		}
		return nil, fmt.Errorf("failed to find schedule shift for time update: %w", err)
	}

	if !shift.IsActive {
		return nil, ErrShiftNotActive
	}

	if req.ActualStartTime != nil {
		if !utils.IsValidTimeFormat(*req.ActualStartTime) {
			return nil, fmt.Errorf("%w: actualStartTime %q", ErrShiftTimeFormat, *req.ActualStartTime)
		}
		shift.ActualStartTime = req.ActualStartTime
	}
	if req.ActualEndTime != nil {
		if !utils.IsValidTimeFormat(*req.ActualEndTime) {
			return nil, fmt.Errorf("%w: actualEndTime %q", ErrShiftTimeFormat, *req.ActualEndTime)
		}
		shift.ActualEndTime = req.ActualEndTime
	}

	if _, err := s.shiftRepo.UpdateShift(s.db, shift); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleShiftNotFound
		}
		return nil, fmt.Errorf("failed to update shift times in repository: %w", err)
	}
	return s.shiftRepo.GetShiftByID(s.db, shiftID, scheduleID)
}

func (s *scheduleShiftService) DeleteShift(scheduleID, shiftID int64) error {
	err := s.shiftRepo.DeleteShift(s.db, shiftID, scheduleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrScheduleShiftNotFound
		}
		return fmt.Errorf("failed to delete schedule shift: %w", err)
	}
	return nil
}

func (s *scheduleShiftService) ActivateScheduleShifts(scheduleID int64) error {
	if err := s.shiftRepo.ActivateShiftsForSchedule(s.db, scheduleID); err != nil {
		return fmt.Errorf("failed to activate schedule shifts: %w", err)
	}
	return nil
}

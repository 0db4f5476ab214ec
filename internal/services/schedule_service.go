package services

import (
	"errors"
	"fmt"

	"roster_backend/internal/models"
	"roster_backend/internal/repositories"
)

// --- Custom Service Errors for Schedules ---
var (
	ErrScheduleDateRange  = errors.New("schedule date range validation error")
	ErrScheduleOverlap    = errors.New("a schedule already exists for this date range")
	ErrScheduleValidation = errors.New("schedule validation error")
)

// --- Schedule DTOs ---
type CreateScheduleRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"endDate" binding:"required"`   // YYYY-MM-DD
}

type ScheduleFilters struct {
	Status   *string `form:"status"`
	Page     int     `form:"page"`
	PageSize int     `form:"pageSize"`
}

// ShiftActivator is the port through which publishing flips a schedule's
// shifts live. The shift service implements it; both services are wired
// together at startup, so there is no late-bound circular reference.
type ShiftActivator interface {
	ActivateScheduleShifts(scheduleID int64) error
}

// --- ScheduleService Interface ---
type ScheduleService interface {
	CreateSchedule(req CreateScheduleRequest, createdBy int64) (*models.Schedule, error)
	GetScheduleByID(scheduleID int64) (*models.Schedule, error)
	GetSchedules(filters ScheduleFilters) ([]models.Schedule, int, error)
	DeleteSchedule(scheduleID int64) error
	// PublishSchedule moves the schedule draft -> published and activates
	// all of its shifts. Publishing is one-way.
	PublishSchedule(scheduleID int64) (*models.Schedule, error)
}

// --- scheduleService Implementation ---
type scheduleService struct {
	scheduleRepo repositories.ScheduleRepository
	activator    ShiftActivator
	db           repositories.DB
}

// NewScheduleService creates a new instance of ScheduleService.
func NewScheduleService(scheduleRepo repositories.ScheduleRepository, activator ShiftActivator, db repositories.DB) ScheduleService {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		activator:    activator,
		db:           db,
	}
}

func (s *scheduleService) CreateSchedule(req CreateScheduleRequest, createdBy int64) (*models.Schedule, error) {
	startDate, err := parseShiftDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseShiftDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date must not be before start date", ErrScheduleDateRange)
	}

	// At most one schedule may claim any given date.
	overlaps, err := s.scheduleRepo.HasOverlappingSchedule(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check schedule overlap: %w", err)
	}
	if overlaps {
		return nil, ErrScheduleOverlap
	}

	schedule := &models.Schedule{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    models.ScheduleStatusDraft,
		CreatedBy: &createdBy,
	}

	created, err := s.scheduleRepo.CreateSchedule(s.db, schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule in repository: %w", err)
	}
	return created, nil
}

func (s *scheduleService) GetScheduleByID(scheduleID int64) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.GetScheduleByID(scheduleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule by ID: %w", err)
	}
	return schedule, nil
}

func (s *scheduleService) GetSchedules(filters ScheduleFilters) ([]models.Schedule, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}

	var status *models.ScheduleStatus
	if filters.Status != nil && *filters.Status != "" {
		if !models.IsValidScheduleStatus(*filters.Status) {
			return nil, 0, fmt.Errorf("%w: invalid status %q", ErrScheduleValidation, *filters.Status)
		}
		s := models.ScheduleStatus(*filters.Status)
		status = &s
	}

	schedules, totalCount, err := s.scheduleRepo.GetSchedules(status, filters.Page, filters.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get schedules: %w", err)
	}
	return schedules, totalCount, nil
}

func (s *scheduleService) DeleteSchedule(scheduleID int64) error {
	err := s.scheduleRepo.DeleteSchedule(s.db, scheduleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

func (s *scheduleService) PublishSchedule(scheduleID int64) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.PublishSchedule(s.db, scheduleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to publish schedule: %w", err)
	}

	if err := s.activator.ActivateScheduleShifts(scheduleID); err != nil {
		return nil, fmt.Errorf("failed to activate shifts for published schedule: %w", err)
	}
	return schedule, nil
}

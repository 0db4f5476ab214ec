package services

import (
	"errors"
	"fmt"

	"roster_backend/internal/models"
	"roster_backend/internal/repositories"
	"roster_backend/pkg/utils"
)

// --- Custom Service Errors for Shift Types ---
var (
	ErrShiftTypeInUse      = errors.New("cannot delete shift type that is used in published schedules")
	ErrShiftTypeValidation = errors.New("shift type validation error")
)

// --- ShiftType DTOs ---
type CreateShiftTypeRequest struct {
	Name       string `json:"name" binding:"required"`
	StartTime  string `json:"startTime" binding:"required"` // HH:MM
	EndTime    string `json:"endTime" binding:"required"`   // HH:MM
	ColorIndex *int   `json:"colorIndex" binding:"omitempty,min=0,max=9"`
}

type UpdateShiftTypeRequest struct {
	Name       *string `json:"name"`
	StartTime  *string `json:"startTime"`
	EndTime    *string `json:"endTime"`
	ColorIndex *int    `json:"colorIndex" binding:"omitempty,min=0,max=9"`
}

// --- ShiftTypeService Interface ---
type ShiftTypeService interface {
	CreateShiftType(req CreateShiftTypeRequest) (*models.ShiftType, error)
	GetShiftTypeByID(shiftTypeID int64) (*models.ShiftType, error)
	GetShiftTypes() ([]models.ShiftType, error)
	UpdateShiftType(shiftTypeID int64, req UpdateShiftTypeRequest) (*models.ShiftType, error)
	// DeleteShiftType soft-deletes; refused while published schedule shifts
	// still reference the template.
	DeleteShiftType(shiftTypeID int64) error
}

// --- shiftTypeService Implementation ---
type shiftTypeService struct {
	shiftTypeRepo repositories.ShiftTypeRepository
	db            repositories.DB
}

// NewShiftTypeService creates a new instance of ShiftTypeService.
func NewShiftTypeService(shiftTypeRepo repositories.ShiftTypeRepository, db repositories.DB) ShiftTypeService {
	return &shiftTypeService{shiftTypeRepo: shiftTypeRepo, db: db}
}

// validateTimeOfDay rejects anything that is not HH:MM. An overnight
// template (end before start) is valid.
func validateTimeOfDay(field, value string) error {
	if !utils.IsValidTimeFormat(value) {
		return fmt.Errorf("%w: %s %q", ErrShiftTimeFormat, field, value)
	}
	return nil
}

func (s *shiftTypeService) CreateShiftType(req CreateShiftTypeRequest) (*models.ShiftType, error) {
	if err := validateTimeOfDay("startTime", req.StartTime); err != nil {
		return nil, err
	}
	if err := validateTimeOfDay("endTime", req.EndTime); err != nil {
		return nil, err
	}

	colorIndex := 0
	if req.ColorIndex != nil {
		colorIndex = *req.ColorIndex
	}

	shiftType := &models.ShiftType{
		Name:       req.Name,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		ColorIndex: colorIndex,
		IsActive:   true,
	}

	created, err := s.shiftTypeRepo.CreateShiftType(s.db, shiftType)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift type in repository: %w", err)
	}
	return created, nil
}

func (s *shiftTypeService) GetShiftTypeByID(shiftTypeID int64) (*models.ShiftType, error) {
	shiftType, err := s.shiftTypeRepo.GetShiftTypeByID(s.db, shiftTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		return nil, fmt.Errorf("failed to get shift type by ID: %w", err)
	}
	return shiftType, nil
}

func (s *shiftTypeService) GetShiftTypes() ([]models.ShiftType, error) {
	shiftTypes, err := s.shiftTypeRepo.GetActiveShiftTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get shift types: %w", err)
	}
	return shiftTypes, nil
}

func (s *shiftTypeService) UpdateShiftType(shiftTypeID int64, req UpdateShiftTypeRequest) (*models.ShiftType, error) {
	shiftType, err := s.shiftTypeRepo.GetShiftTypeByID(s.db, shiftTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		return nil, fmt.Errorf("failed to find shift type for update: %w", err)
	}

	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrShiftTypeValidation)
		}
		shiftType.Name = *req.Name
	}
	if req.StartTime != nil {
		if err := validateTimeOfDay("startTime", *req.StartTime); err != nil {
			return nil, err
		}
		shiftType.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if err := validateTimeOfDay("endTime", *req.EndTime); err != nil {
			return nil, err
		}
		shiftType.EndTime = *req.EndTime
	}
	if req.ColorIndex != nil {
		shiftType.ColorIndex = *req.ColorIndex
	}

	updated, err := s.shiftTypeRepo.UpdateShiftType(s.db, shiftType)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		return nil, fmt.Errorf("failed to update shift type in repository: %w", err)
	}
	return updated, nil
}

func (s *shiftTypeService) DeleteShiftType(shiftTypeID int64) error {
	usage, err := s.shiftTypeRepo.CountActiveShiftUsage(shiftTypeID)
	if err != nil {
		return fmt.Errorf("failed to check shift type usage: %w", err)
	}
	if usage > 0 {
		return ErrShiftTypeInUse
	}

	err = s.shiftTypeRepo.DeactivateShiftType(s.db, shiftTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShiftTypeNotFound
		}
		return fmt.Errorf("failed to deactivate shift type: %w", err)
	}
	return nil
}

package services

import (
	"errors"
	"fmt"
	"time"

	"roster_backend/internal/models"
	"roster_backend/internal/repositories"
)

// --- Custom Service Errors for Time Clock ---
var (
	ErrAlreadyClockedIn = errors.New("user is already clocked in")
	ErrNotClockedIn     = errors.New("user is not clocked in")
)

// --- Time Clock DTOs ---
type ClockActionRequest struct {
	Notes *string `json:"notes"`
}

type TimeClockStatusResponse struct {
	ClockedIn    bool                   `json:"clockedIn"`
	CurrentEntry *models.TimeClockEntry `json:"currentEntry,omitempty"`
}

type TimeClockEntriesFilters struct {
	From     *string `form:"from"` // YYYY-MM-DD
	To       *string `form:"to"`
	Page     int     `form:"page,default=1"`
	PageSize int     `form:"pageSize,default=20"`
}

type TimeClockEntriesResponse struct {
	Entries    []models.TimeClockEntry `json:"entries"`
	TotalCount int                     `json:"totalCount"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
}

// --- TimeClockService Interface ---
type TimeClockService interface {
	ClockIn(userID int64, req ClockActionRequest) (*models.TimeClockEntry, error)
	ClockOut(userID int64, req ClockActionRequest) (*models.TimeClockEntry, error)
	GetStatus(userID int64) (*TimeClockStatusResponse, error)
	GetEntries(userID int64, filters TimeClockEntriesFilters) (*TimeClockEntriesResponse, error)
}

// --- timeClockService Implementation ---
type timeClockService struct {
	timeClockRepo repositories.TimeClockRepository
	db            repositories.DB
}

// NewTimeClockService creates a new instance of TimeClockService.
func NewTimeClockService(timeClockRepo repositories.TimeClockRepository, db repositories.DB) TimeClockService {
	return &timeClockService{timeClockRepo: timeClockRepo, db: db}
}

func (s *timeClockService) ClockIn(userID int64, req ClockActionRequest) (*models.TimeClockEntry, error) {
	_, err := s.timeClockRepo.GetOpenEntryForUser(userID)
	if err == nil {
		return nil, ErrAlreadyClockedIn
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check open time clock entry: %w", err)
	}

	entry := &models.TimeClockEntry{
		UserID:      userID,
		ClockInTime: time.Now(),
		Status:      models.TimeClockStatusClockedIn,
		Notes:       req.Notes,
	}

	created, err := s.timeClockRepo.CreateEntry(s.db, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create time clock entry: %w", err)
	}
	return created, nil
}

func (s *timeClockService) ClockOut(userID int64, req ClockActionRequest) (*models.TimeClockEntry, error) {
	entry, err := s.timeClockRepo.GetOpenEntryForUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotClockedIn
		}
		return nil, fmt.Errorf("failed to find open time clock entry: %w", err)
	}

	now := time.Now()
	totalMinutes := int(now.Sub(entry.ClockInTime).Minutes())

	entry.ClockOutTime = &now
	entry.TotalMinutes = &totalMinutes
	entry.Status = models.TimeClockStatusClockedOut
	if req.Notes != nil {
		entry.Notes = req.Notes
	}

	closed, err := s.timeClockRepo.CloseEntry(s.db, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to close time clock entry: %w", err)
	}
	return closed, nil
}

func (s *timeClockService) GetStatus(userID int64) (*TimeClockStatusResponse, error) {
	entry, err := s.timeClockRepo.GetOpenEntryForUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &TimeClockStatusResponse{ClockedIn: false}, nil
		}
		return nil, fmt.Errorf("failed to get time clock status: %w", err)
	}
	return &TimeClockStatusResponse{ClockedIn: true, CurrentEntry: entry}, nil
}

func (s *timeClockService) GetEntries(userID int64, filters TimeClockEntriesFilters) (*TimeClockEntriesResponse, error) {
	var from, to *time.Time
	if filters.From != nil {
		parsed, err := time.Parse(shiftDateLayout, *filters.From)
		if err != nil {
			return nil, fmt.Errorf("%w: from %q", ErrShiftDateFormat, *filters.From)
		}
		from = &parsed
	}
	if filters.To != nil {
		parsed, err := time.Parse(shiftDateLayout, *filters.To)
		if err != nil {
			return nil, fmt.Errorf("%w: to %q", ErrShiftDateFormat, *filters.To)
		}
		// Inclusive end of day.
		end := parsed.AddDate(0, 0, 1).Add(-time.Second)
		to = &end
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	entries, totalCount, err := s.timeClockRepo.GetEntriesForUser(userID, from, to, filters.Page, filters.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get time clock entries: %w", err)
	}

	return &TimeClockEntriesResponse{
		Entries:    entries,
		TotalCount: totalCount,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
	}, nil
}

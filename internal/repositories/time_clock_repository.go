package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roster_backend/internal/models"
)

// TimeClockRepository defines the interface for punch in/out database operations.
type TimeClockRepository interface {
	CreateEntry(executor SQLExecutor, entry *models.TimeClockEntry) (*models.TimeClockEntry, error)
	// GetOpenEntryForUser returns the user's clocked-in entry, if any.
	GetOpenEntryForUser(userID int64) (*models.TimeClockEntry, error)
	CloseEntry(executor SQLExecutor, entry *models.TimeClockEntry) (*models.TimeClockEntry, error)
	GetEntriesForUser(userID int64, from, to *time.Time, page, pageSize int) ([]models.TimeClockEntry, int, error)
}

type timeClockRepository struct {
	db DB
}

// NewTimeClockRepository creates a new instance of TimeClockRepository.
func NewTimeClockRepository(db DB) TimeClockRepository {
	return &timeClockRepository{db: db}
}

func (r *timeClockRepository) CreateEntry(executor SQLExecutor, entry *models.TimeClockEntry) (*models.TimeClockEntry, error) {
	query := `INSERT INTO time_clock_entries (user_id, clock_in_time, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	entry.CreatedAt = currentTime
	entry.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		entry.UserID, entry.ClockInTime, entry.Status, entry.Notes,
		entry.CreatedAt, entry.UpdatedAt,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: creating time clock entry: %v", ErrDatabaseError, err)
	}
	return entry, nil
}

func scanTimeClockRow(row scanner) (*models.TimeClockEntry, error) {
	var entry models.TimeClockEntry
	var clockOut sql.NullTime
	var totalMinutes sql.NullInt64
	var notes sql.NullString

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.ClockInTime, &clockOut,
		&totalMinutes, &entry.Status, &notes, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning time clock entry: %v", ErrDatabaseError, err)
	}

	if clockOut.Valid {
		entry.ClockOutTime = &clockOut.Time
	}
	if totalMinutes.Valid {
		minutes := int(totalMinutes.Int64)
		entry.TotalMinutes = &minutes
	}
	if notes.Valid {
		entry.Notes = &notes.String
	}
	return &entry, nil
}

func (r *timeClockRepository) GetOpenEntryForUser(userID int64) (*models.TimeClockEntry, error) {
	query := `SELECT id, user_id, clock_in_time, clock_out_time, total_minutes, status, notes, created_at, updated_at
	          FROM time_clock_entries
	          WHERE user_id = $1 AND status = $2`
	return scanTimeClockRow(r.db.QueryRow(query, userID, models.TimeClockStatusClockedIn))
}

func (r *timeClockRepository) CloseEntry(executor SQLExecutor, entry *models.TimeClockEntry) (*models.TimeClockEntry, error) {
	query := `UPDATE time_clock_entries SET
	            clock_out_time = $1, total_minutes = $2, status = $3, notes = $4, updated_at = $5
	          WHERE id = $6
	          RETURNING updated_at`

	entry.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		entry.ClockOutTime, entry.TotalMinutes, entry.Status, entry.Notes,
		entry.UpdatedAt, entry.ID,
	).Scan(&entry.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: closing time clock entry ID %d: %v", ErrDatabaseError, entry.ID, err)
	}
	return entry, nil
}

func (r *timeClockRepository) GetEntriesForUser(userID int64, from, to *time.Time, page, pageSize int) ([]models.TimeClockEntry, int, error) {
	entries := []models.TimeClockEntry{}
	totalCount := 0

	query := `SELECT id, user_id, clock_in_time, clock_out_time, total_minutes, status, notes, created_at, updated_at,
	                 COUNT(*) OVER() as total_count
	          FROM time_clock_entries
	          WHERE user_id = $1`
	args := []interface{}{userID}
	argCount := 2

	if from != nil {
		query += fmt.Sprintf(" AND clock_in_time >= $%d", argCount)
		args = append(args, *from)
		argCount++
	}
	if to != nil {
		query += fmt.Sprintf(" AND clock_in_time <= $%d", argCount)
		args = append(args, *to)
		argCount++
	}

	query += " ORDER BY clock_in_time DESC"

	if pageSize > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argCount)
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying time clock entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.TimeClockEntry
		var clockOut sql.NullTime
		var totalMinutes sql.NullInt64
		var notes sql.NullString
		var currentRowTotalCount int

		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.ClockInTime, &clockOut,
			&totalMinutes, &entry.Status, &notes, &entry.CreatedAt, &entry.UpdatedAt,
			&currentRowTotalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning time clock entry from list: %v", ErrDatabaseError, err)
		}
		totalCount = currentRowTotalCount

		if clockOut.Valid {
			entry.ClockOutTime = &clockOut.Time
		}
		if totalMinutes.Valid {
			minutes := int(totalMinutes.Int64)
			entry.TotalMinutes = &minutes
		}
		if notes.Valid {
			entry.Notes = &notes.String
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating time clock entry rows: %v", ErrDatabaseError, err)
	}
	return entries, totalCount, nil
}

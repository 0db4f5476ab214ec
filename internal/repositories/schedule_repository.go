package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roster_backend/internal/models"
)

// ScheduleRepository defines the interface for schedule period database operations.
type ScheduleRepository interface {
	CreateSchedule(executor SQLExecutor, schedule *models.Schedule) (*models.Schedule, error)
	GetScheduleByID(id int64) (*models.Schedule, error)
	GetSchedules(status *models.ScheduleStatus, page, pageSize int) ([]models.Schedule, int, error)
	DeleteSchedule(executor SQLExecutor, id int64) error
	// PublishSchedule flips the status to published. Publishing is one-way;
	// there is no unpublish.
	PublishSchedule(executor SQLExecutor, id int64) (*models.Schedule, error)
	// HasOverlappingSchedule reports whether any schedule's date range
	// intersects [startDate, endDate]. At most one schedule may claim a date.
	HasOverlappingSchedule(startDate, endDate time.Time) (bool, error)
	// GetMostRecentPublished returns the published schedule with the highest
	// endDate, excluding the given schedule. This is the copy-previous-week
	// source-selection policy: newest published pattern wins, regardless of
	// whether it is chronologically adjacent to the target.
	GetMostRecentPublished(excludeID int64) (*models.Schedule, error)
}

type scheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) CreateSchedule(executor SQLExecutor, schedule *models.Schedule) (*models.Schedule, error) {
	query := `INSERT INTO schedules (name, start_date, end_date, status, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	schedule.CreatedAt = currentTime
	schedule.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		schedule.Name, schedule.StartDate, schedule.EndDate,
		schedule.Status, schedule.CreatedBy, schedule.CreatedAt, schedule.UpdatedAt,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: creating schedule: %v", ErrDatabaseError, err)
	}
	return schedule, nil
}

func scanScheduleRow(row scanner) (*models.Schedule, error) {
	var schedule models.Schedule
	var createdBy sql.NullInt64
	err := row.Scan(
		&schedule.ID, &schedule.Name, &schedule.StartDate, &schedule.EndDate,
		&schedule.Status, &createdBy, &schedule.CreatedAt, &schedule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning schedule: %v", ErrDatabaseError, err)
	}
	if createdBy.Valid {
		schedule.CreatedBy = &createdBy.Int64
	}
	return &schedule, nil
}

func (r *scheduleRepository) GetScheduleByID(id int64) (*models.Schedule, error) {
	query := `SELECT id, name, start_date, end_date, status, created_by, created_at, updated_at
	          FROM schedules WHERE id = $1`
	return scanScheduleRow(r.db.QueryRow(query, id))
}

func (r *scheduleRepository) GetSchedules(status *models.ScheduleStatus, page, pageSize int) ([]models.Schedule, int, error) {
	schedules := []models.Schedule{}
	totalCount := 0

	query := `SELECT id, name, start_date, end_date, status, created_by, created_at, updated_at,
	                 COUNT(*) OVER() as total_count
	          FROM schedules`
	var args []interface{}
	argCount := 1

	if status != nil {
		query += fmt.Sprintf(" WHERE status = $%d", argCount)
		args = append(args, *status)
		argCount++
	}

	query += " ORDER BY start_date DESC"

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
		return nil, 0, fmt.Errorf("%w: querying schedules: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var schedule models.Schedule
		var createdBy sql.NullInt64
		var currentRowTotalCount int

		err := rows.Scan(
			&schedule.ID, &schedule.Name, &schedule.StartDate, &schedule.EndDate,
			&schedule.Status, &createdBy, &schedule.CreatedAt, &schedule.UpdatedAt,
			&currentRowTotalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning schedule from list: %v", ErrDatabaseError, err)
		}
		totalCount = currentRowTotalCount
		if createdBy.Valid {
			schedule.CreatedBy = &createdBy.Int64
		}
		schedules = append(schedules, schedule)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating schedule rows: %v", ErrDatabaseError, err)
	}
	return schedules, totalCount, nil
}

func (r *scheduleRepository) DeleteSchedule(executor SQLExecutor, id int64) error {
	query := `DELETE FROM schedules WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting schedule ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *scheduleRepository) PublishSchedule(executor SQLExecutor, id int64) (*models.Schedule, error) {
	query := `UPDATE schedules SET status = $1, updated_at = $2
	          WHERE id = $3
	          RETURNING id, name, start_date, end_date, status, created_by, created_at, updated_at`
	return scanScheduleRow(executor.QueryRow(query, models.ScheduleStatusPublished, time.Now(), id))
}

func (r *scheduleRepository) HasOverlappingSchedule(startDate, endDate time.Time) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM schedules
	            WHERE start_date <= $2 AND end_date >= $1
	          )`
	var exists bool
	if err := r.db.QueryRow(query, startDate, endDate).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking schedule overlap: %v", ErrDatabaseError, err)
	}
	return exists, nil
}

func (r *scheduleRepository) GetMostRecentPublished(excludeID int64) (*models.Schedule, error) {
	query := `SELECT id, name, start_date, end_date, status, created_by, created_at, updated_at
	          FROM schedules
	          WHERE status = $1 AND id <> $2
	          ORDER BY end_date DESC
	          LIMIT 1`
	return scanScheduleRow(r.db.QueryRow(query, models.ScheduleStatusPublished, excludeID))
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roster_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// ScheduleShiftRepository defines the interface for schedule-shift database
// operations. Methods take an explicit SQLExecutor so the same reads and
// writes run either directly against the pool or inside a bulk batch's
// transaction (read-your-own-writes within the batch).
type ScheduleShiftRepository interface {
	CreateShift(executor SQLExecutor, shift *models.ScheduleShift) (*models.ScheduleShift, error)
	// GetShiftByID resolves a shift that belongs to the given schedule,
	// with its shift-type template and assignee display fields joined.
	GetShiftByID(executor SQLExecutor, shiftID, scheduleID int64) (*models.ScheduleShift, error)
	GetShiftsBySchedule(scheduleID int64) ([]models.ScheduleShift, error)
	// CountShiftsForDate counts existing shifts in the (schedule, date)
	// bucket, used for order auto-increment.
	CountShiftsForDate(executor SQLExecutor, scheduleID int64, date time.Time) (int, error)
	UpdateShift(executor SQLExecutor, shift *models.ScheduleShift) (*models.ScheduleShift, error)
	DeleteShift(executor SQLExecutor, shiftID, scheduleID int64) error
	// GetAssignedShiftsForUserOnDate returns the user's shifts whose date
	// falls within [dayStart, dayStart+24h), shift types joined, for
	// conflict checking.
	GetAssignedShiftsForUserOnDate(executor SQLExecutor, userID int64, dayStart time.Time) ([]models.ScheduleShift, error)
	// ActivateShiftsForSchedule marks every shift under the schedule active
	// and copies the shift-type template times into the actual-time columns.
	// Idempotent: repeated calls rewrite the same values.
	ActivateShiftsForSchedule(executor SQLExecutor, scheduleID int64) error
}

type scheduleShiftRepository struct {
	db DB
}

// NewScheduleShiftRepository creates a new instance of ScheduleShiftRepository.
func NewScheduleShiftRepository(db DB) ScheduleShiftRepository {
	return &scheduleShiftRepository{db: db}
}

const shiftSelectColumns = `
	    ss.id, ss.schedule_id, ss.shift_type_id, ss.date, ss.user_id, ss.shift_order,
	    ss.is_active, TRIM(ss.actual_start_time), TRIM(ss.actual_end_time), ss.created_at, ss.updated_at,
	    st.id, st.name, TRIM(st.start_time), TRIM(st.end_time), st.color_index, st.is_active, st.created_at, st.updated_at,
	    u.id, u.first_name, u.last_name, u.role`

const shiftSelectJoins = `
	  FROM schedule_shifts ss
	  JOIN shift_types st ON ss.shift_type_id = st.id
	  LEFT JOIN users u ON ss.user_id = u.id`

func scanShiftRow(row scanner) (*models.ScheduleShift, error) {
	var shift models.ScheduleShift
	var shiftType models.ShiftType
	var userID sql.NullInt64
	var actualStart, actualEnd sql.NullString
	var assigneeID sql.NullInt64
	var assigneeFirst, assigneeLast, assigneeRole sql.NullString

	err := row.Scan(
		&shift.ID, &shift.ScheduleID, &shift.ShiftTypeID, &shift.Date, &userID, &shift.Order,
		&shift.IsActive, &actualStart, &actualEnd, &shift.CreatedAt, &shift.UpdatedAt,
		&shiftType.ID, &shiftType.Name, &shiftType.StartTime, &shiftType.EndTime,
		&shiftType.ColorIndex, &shiftType.IsActive, &shiftType.CreatedAt, &shiftType.UpdatedAt,
		&assigneeID, &assigneeFirst, &assigneeLast, &assigneeRole,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning schedule shift: %v", ErrDatabaseError, err)
	}

	if userID.Valid {
		shift.UserID = &userID.Int64
	}
	if actualStart.Valid {
		shift.ActualStartTime = &actualStart.String
	}
	if actualEnd.Valid {
		shift.ActualEndTime = &actualEnd.String
	}
	shift.ShiftType = &shiftType
	if assigneeID.Valid {
		shift.User = &models.UserSummary{
			ID:        assigneeID.Int64,
			FirstName: assigneeFirst.String,
			LastName:  assigneeLast.String,
			Role:      models.UserRole(assigneeRole.String),
		}
	}
	return &shift, nil
}

func (r *scheduleShiftRepository) CreateShift(executor SQLExecutor, shift *models.ScheduleShift) (*models.ScheduleShift, error) {
	query := `INSERT INTO schedule_shifts
	            (schedule_id, shift_type_id, date, user_id, shift_order, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	shift.CreatedAt = currentTime
	shift.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		shift.ScheduleID, shift.ShiftTypeID, shift.Date, shift.UserID,
		shift.Order, shift.IsActive, shift.CreatedAt, shift.UpdatedAt,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: creating schedule shift (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: creating schedule shift: %v", ErrDatabaseError, err)
	}
	return shift, nil
}

func (r *scheduleShiftRepository) GetShiftByID(executor SQLExecutor, shiftID, scheduleID int64) (*models.ScheduleShift, error) {
	query := `SELECT` + shiftSelectColumns + shiftSelectJoins + `
	          WHERE ss.id = $1 AND ss.schedule_id = $2`
	return scanShiftRow(executor.QueryRow(query, shiftID, scheduleID))
}

func (r *scheduleShiftRepository) GetShiftsBySchedule(scheduleID int64) ([]models.ScheduleShift, error) {
	query := `SELECT` + shiftSelectColumns + shiftSelectJoins + `
	          WHERE ss.schedule_id = $1
	          ORDER BY ss.date ASC, ss.shift_order ASC`

	rows, err := r.db.Query(query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying schedule shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	shifts := []models.ScheduleShift{}
	for rows.Next() {
		shift, err := scanShiftRow(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *shift)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating schedule shift rows: %v", ErrDatabaseError, err)
	}
	return shifts, nil
}

func (r *scheduleShiftRepository) CountShiftsForDate(executor SQLExecutor, scheduleID int64, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM schedule_shifts WHERE schedule_id = $1 AND date = $2`
	var count int
	if err := executor.QueryRow(query, scheduleID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting shifts for date: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *scheduleShiftRepository) UpdateShift(executor SQLExecutor, shift *models.ScheduleShift) (*models.ScheduleShift, error) {
	query := `UPDATE schedule_shifts SET
	            date = $1, user_id = $2, shift_order = $3, is_active = $4,
	            actual_start_time = $5, actual_end_time = $6, updated_at = $7
	          WHERE id = $8 AND schedule_id = $9
	          RETURNING updated_at`

	shift.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		shift.Date, shift.UserID, shift.Order, shift.IsActive,
		shift.ActualStartTime, shift.ActualEndTime, shift.UpdatedAt,
		shift.ID, shift.ScheduleID,
	).Scan(&shift.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: updating schedule shift (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: updating schedule shift ID %d: %v", ErrDatabaseError, shift.ID, err)
	}
	return shift, nil
}

func (r *scheduleShiftRepository) DeleteShift(executor SQLExecutor, shiftID, scheduleID int64) error {
	query := `DELETE FROM schedule_shifts WHERE id = $1 AND schedule_id = $2`
	result, err := executor.Exec(query, shiftID, scheduleID)
	if err != nil {
		return fmt.Errorf("%w: deleting schedule shift ID %d: %v", ErrDatabaseError, shiftID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *scheduleShiftRepository) GetAssignedShiftsForUserOnDate(executor SQLExecutor, userID int64, dayStart time.Time) ([]models.ScheduleShift, error) {
	query := `SELECT` + shiftSelectColumns + shiftSelectJoins + `
	          WHERE ss.user_id = $1 AND ss.date >= $2 AND ss.date < $3
	          ORDER BY ss.date ASC, ss.shift_order ASC`

	rows, err := executor.Query(query, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("%w: querying user shifts for date: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	shifts := []models.ScheduleShift{}
	for rows.Next() {
		shift, err := scanShiftRow(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *shift)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating user shift rows: %v", ErrDatabaseError, err)
	}
	return shifts, nil
}

func (r *scheduleShiftRepository) ActivateShiftsForSchedule(executor SQLExecutor, scheduleID int64) error {
	query := `UPDATE schedule_shifts ss SET
	            is_active = TRUE,
	            actual_start_time = st.start_time,
	            actual_end_time = st.end_time,
	            updated_at = $1
	          FROM shift_types st
	          WHERE ss.shift_type_id = st.id AND ss.schedule_id = $2`
	if _, err := executor.Exec(query, time.Now(), scheduleID); err != nil {
		return fmt.Errorf("%w: activating shifts for schedule ID %d: %v", ErrDatabaseError, scheduleID, err)
	}
	return nil
}

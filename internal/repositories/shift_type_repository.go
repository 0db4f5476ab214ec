package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roster_backend/internal/models"
)

// ShiftTypeRepository defines the interface for shift-type template database operations.
type ShiftTypeRepository interface {
	CreateShiftType(executor SQLExecutor, shiftType *models.ShiftType) (*models.ShiftType, error)
	// GetShiftTypeByID resolves an active shift type, reading through the
	// given executor so bulk batches see session-scoped state.
	GetShiftTypeByID(executor SQLExecutor, id int64) (*models.ShiftType, error)
	GetActiveShiftTypes() ([]models.ShiftType, error)
	UpdateShiftType(executor SQLExecutor, shiftType *models.ShiftType) (*models.ShiftType, error)
	// DeactivateShiftType soft-deletes the template (isActive = false).
	DeactivateShiftType(executor SQLExecutor, id int64) error
	// CountActiveShiftUsage reports how many published (active) schedule
	// shifts still reference the shift type.
	CountActiveShiftUsage(shiftTypeID int64) (int, error)
}

type shiftTypeRepository struct {
	db DB
}

// NewShiftTypeRepository creates a new instance of ShiftTypeRepository.
func NewShiftTypeRepository(db DB) ShiftTypeRepository {
	return &shiftTypeRepository{db: db}
}

func (r *shiftTypeRepository) CreateShiftType(executor SQLExecutor, shiftType *models.ShiftType) (*models.ShiftType, error) {
	query := `INSERT INTO shift_types (name, start_time, end_time, color_index, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	shiftType.CreatedAt = currentTime
	shiftType.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		shiftType.Name, shiftType.StartTime, shiftType.EndTime,
		shiftType.ColorIndex, shiftType.IsActive, shiftType.CreatedAt, shiftType.UpdatedAt,
	).Scan(&shiftType.ID, &shiftType.CreatedAt, &shiftType.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: creating shift type: %v", ErrDatabaseError, err)
	}
	return shiftType, nil
}

func scanShiftTypeRow(row scanner) (*models.ShiftType, error) {
	var st models.ShiftType
	err := row.Scan(
		&st.ID, &st.Name, &st.StartTime, &st.EndTime,
		&st.ColorIndex, &st.IsActive, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning shift type: %v", ErrDatabaseError, err)
	}
	return &st, nil
}

func (r *shiftTypeRepository) GetShiftTypeByID(executor SQLExecutor, id int64) (*models.ShiftType, error) {
	query := `SELECT id, name, TRIM(start_time), TRIM(end_time), color_index, is_active, created_at, updated_at
	          FROM shift_types WHERE id = $1 AND is_active = TRUE`
	return scanShiftTypeRow(executor.QueryRow(query, id))
}

func (r *shiftTypeRepository) GetActiveShiftTypes() ([]models.ShiftType, error) {
	query := `SELECT id, name, TRIM(start_time), TRIM(end_time), color_index, is_active, created_at, updated_at
	          FROM shift_types WHERE is_active = TRUE
	          ORDER BY name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying shift types: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	shiftTypes := []models.ShiftType{}
	for rows.Next() {
		st, err := scanShiftTypeRow(rows)
		if err != nil {
			return nil, err
		}
		shiftTypes = append(shiftTypes, *st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift type rows: %v", ErrDatabaseError, err)
	}
	return shiftTypes, nil
}

func (r *shiftTypeRepository) UpdateShiftType(executor SQLExecutor, shiftType *models.ShiftType) (*models.ShiftType, error) {
	query := `UPDATE shift_types SET
	            name = $1, start_time = $2, end_time = $3, color_index = $4, updated_at = $5
	          WHERE id = $6 AND is_active = TRUE
	          RETURNING updated_at`

	shiftType.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		shiftType.Name, shiftType.StartTime, shiftType.EndTime,
		shiftType.ColorIndex, shiftType.UpdatedAt, shiftType.ID,
	).Scan(&shiftType.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating shift type ID %d: %v", ErrDatabaseError, shiftType.ID, err)
	}
	return shiftType, nil
}

func (r *shiftTypeRepository) DeactivateShiftType(executor SQLExecutor, id int64) error {
	query := `UPDATE shift_types SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND is_active = TRUE`
	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: deactivating shift type ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shiftTypeRepository) CountActiveShiftUsage(shiftTypeID int64) (int, error) {
	query := `SELECT COUNT(*) FROM schedule_shifts WHERE shift_type_id = $1 AND is_active = TRUE`
	var count int
	if err := r.db.QueryRow(query, shiftTypeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting shift type usage: %v", ErrDatabaseError, err)
	}
	return count, nil
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roster_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// UserRepository defines the interface for user account database operations.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	GetActiveUsers() ([]models.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	user.CreatedAt = currentTime
	user.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrDuplicateKey, user.Email)
		}
		return nil, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return user, nil
}

func scanUserRow(row scanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
	}
	return &user, nil
}

func (r *userRepository) FindUserByID(id int64) (*models.User, error) {
	query := `SELECT id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at
	          FROM users WHERE id = $1`
	return scanUserRow(r.db.QueryRow(query, id))
}

func (r *userRepository) FindUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at
	          FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUserRow(r.db.QueryRow(query, email))
}

func (r *userRepository) GetActiveUsers() ([]models.User, error) {
	query := `SELECT id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at
	          FROM users WHERE is_active = TRUE
	          ORDER BY last_name ASC, first_name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating user rows: %v", ErrDatabaseError, err)
	}
	return users, nil
}

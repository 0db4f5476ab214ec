package services

import (
	"errors"
	"fmt"

	"roster_backend/internal/models"
	"roster_backend/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidRole       = errors.New("invalid role")
	ErrPasswordHashError = errors.New("failed to hash password")
)

// CreateEmployeeRequest DTO. Role defaults to employee when omitted.
type CreateEmployeeRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role"`
}

// UserService exposes the employee directory used by the scheduling screens.
type UserService interface {
	CreateEmployee(req CreateEmployeeRequest) (*models.User, error)
	GetEmployees() ([]models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	db       repositories.DB
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repositories.UserRepository, db repositories.DB) UserService {
	return &userService{userRepo: userRepo, db: db}
}

func (s *userService) CreateEmployee(req CreateEmployeeRequest) (*models.User, error) {
	role := models.RoleEmployee
	if req.Role != "" {
		if !models.IsValidUserRole(req.Role) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, req.Role)
		}
		role = models.UserRole(req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHashError, err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     true,
	}

	created, err := s.userRepo.CreateUser(s.db, user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

func (s *userService) GetEmployees() ([]models.User, error) {
	users, err := s.userRepo.GetActiveUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	return users, nil
}

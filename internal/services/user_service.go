package services

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"debtdesk-backend/internal/models"
	"debtdesk-backend/internal/utils"
)

// UserService handles user-related business logic
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new user service
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// AuthenticateUser authenticates a user with username and password.
// Validation failures and unknown users both surface as invalid credentials.
func (s *UserService) AuthenticateUser(login *models.UserLogin) (*models.User, error) {
	if err := utils.ValidateStruct(login); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	user, err := s.GetUserByUsername(login.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.IsActive {
		return nil, fmt.Errorf("account is not active")
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(userID string) (*models.User, error) {
	return s.getUser("id = ?", userID)
}

// GetUserByUsername retrieves a user by username
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.getUser("username = ?", username)
}

func (s *UserService) getUser(where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, username, email, first_name, last_name, password_hash,
			   role, is_active, created_at, updated_at
		FROM users WHERE ` + where

	user := &models.User{}
	err := s.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

package models

import (
	"time"
)

// UserRole represents user roles in the system
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleManager   UserRole = "manager"
	UserRoleCollector UserRole = "collector"
	UserRoleAgent     UserRole = "agent"
	UserRoleViewer    UserRole = "viewer"
)

// User represents a dashboard user
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserLogin represents user login data
type UserLogin struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// CanUpdateStatus reports whether the role may change a loan's status.
func (u *User) CanUpdateStatus() bool {
	switch u.Role {
	case UserRoleAdmin, UserRoleManager, UserRoleCollector:
		return true
	}
	return false
}

// CanAddNotes reports whether the role may append collection notes.
func (u *User) CanAddNotes() bool {
	return u.Role != UserRoleViewer
}
